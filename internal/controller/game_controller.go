package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/benbeisheim/duelchess/internal/engine"
	"github.com/benbeisheim/duelchess/internal/model"
	"github.com/benbeisheim/duelchess/internal/service"
)

type GameController struct {
	gameService *service.GameService
	logger      *zap.Logger
}

func NewGameController(gameService *service.GameService, logger *zap.Logger) *GameController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameController{gameService: gameService, logger: logger}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

type continueRequest struct {
	Record string `json:"record"`
	// Step is the 0-based snapshot to continue from; omitted means the last.
	Step *int `json:"step"`
}

func (gc *GameController) ContinueGame(c *fiber.Ctx) error {
	var req continueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	step := -1
	if req.Step != nil {
		step = *req.Step
	}

	gameID, err := gc.gameService.ContinueGame(req.Record, step)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game continued",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return gc.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	square := c.Params("square")
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), square)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves,
	})
}

type moveRequest struct {
	Move string `json:"move"`
}

// MakeMove is the REST counterpart of the websocket move message.
func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	playerID := c.Locals("playerID").(string)

	m, err := gc.gameService.HandleMove(c.Params("gameId"), playerID, req.Move)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"move": m.String(),
	})
}

// Record sends the game record as plain text, ready to be saved and
// continued later.
func (gc *GameController) Record(c *fiber.Ctx) error {
	record, err := gc.gameService.Record(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.SendString(record)
}

func (gc *GameController) Position(c *fiber.Ctx) error {
	pos, err := gc.gameService.Position(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(pos)
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		gc.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrWaitingForOpponent),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrMalformedMove),
		errors.Is(err, engine.ErrMalformedRecord),
		errors.Is(err, engine.ErrMalformedSnapshot),
		errors.Is(err, engine.ErrStepOutOfRange):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
