package service

import (
	"github.com/benbeisheim/duelchess/internal/engine"
	"github.com/benbeisheim/duelchess/internal/fen"
	"github.com/benbeisheim/duelchess/internal/model"
)

// GameService is what the controllers call. Every method addresses a game
// by id.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	g, err := gs.gameManager.CreateGame()
	if err != nil {
		return "", err
	}
	return g.ID, nil
}

func (gs *GameService) ContinueGame(record string, step int) (string, error) {
	g, err := gs.gameManager.ContinueGame(record, step)
	if err != nil {
		return "", err
	}
	return g.ID, nil
}

func (gs *GameService) JoinGame(gameID, playerID string) (model.PlayerColor, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return g.AddPlayer(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return g.GetState(), nil
}

// LegalMoves lists the destinations of the piece on square, e.g. "e2".
func (gs *GameService) LegalMoves(gameID, square string) ([]engine.Position, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	at, err := engine.ParseSquare(square)
	if err != nil {
		return nil, err
	}
	return g.LegalMoves(at), nil
}

func (gs *GameService) HandleMove(gameID, playerID, wire string) (engine.WireMove, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return engine.WireMove{}, err
	}
	m, err := g.MakeMove(playerID, wire)
	gs.gameManager.SaveIfFinished(g)
	return m, err
}

func (gs *GameService) Record(gameID string) (string, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return g.Record(), nil
}

// Position is the FEN of a game with its standard-rules analysis. Analysis
// is nil when the position has no standard reading, e.g. after a king was
// captured.
type Position struct {
	FEN      string        `json:"fen"`
	Analysis *fen.Analysis `json:"analysis"`
}

func (gs *GameService) Position(gameID string) (Position, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return Position{}, err
	}
	p := Position{FEN: g.FEN()}
	if a, err := fen.Analyze(p.FEN); err == nil {
		p.Analysis = &a
	}
	return p, nil
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn model.Conn) error {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return g.RegisterConnection(playerID, conn)
}

// UnregisterConnection detaches conn. A player losing their last connection
// ends a running session.
func (gs *GameService) UnregisterConnection(gameID, playerID string, conn model.Conn) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	if g.UnregisterConnection(playerID, conn) && g.Disconnect(playerID) {
		gs.gameManager.SaveIfFinished(g)
	}
}

func (gs *GameService) SendError(gameID, playerID, text string) {
	if g, err := gs.gameManager.GetGame(gameID); err == nil {
		g.SendError(playerID, text)
	}
}
