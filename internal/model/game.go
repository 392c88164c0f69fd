package model

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/benbeisheim/duelchess/internal/engine"
	"github.com/benbeisheim/duelchess/internal/fen"
	"github.com/benbeisheim/duelchess/internal/logging"
)

// EndReason says why a session stopped.
type EndReason string

const (
	EndDisconnect   EndReason = "disconnect"
	EndTimeout      EndReason = "timeout"
	EndKingCaptured EndReason = "kingCaptured"
)

// SessionEnd is the payload of the sessionEnded message.
type SessionEnd struct {
	Reason EndReason     `json:"reason"`
	Winner *engine.Color `json:"winner"`
}

// GameState is what clients get for a game, over REST and websocket alike.
type GameState struct {
	ID           string        `json:"id"`
	Board        BoardView     `json:"board"`
	Turn         engine.Color  `json:"turn"`
	WhiteChecked bool          `json:"whiteChecked"`
	BlackChecked bool          `json:"blackChecked"`
	Winner       *engine.Color `json:"winner"`
	Step         int           `json:"step"`
	LastMove     *LastMove     `json:"lastMove"`
	Players      struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	End *SessionEnd `json:"end"`
}

type Options struct {
	// ClockBudget is each side's thinking time. Zero disables clocks.
	ClockBudget time.Duration
	Logger      *zap.Logger
}

// Game is one networked session: a board, two seats, their clocks and the
// websocket connections watching it.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *engine.Board
	white       string
	black       string
	clocks      map[engine.Color]*Clock
	end         *SessionEnd
	connections *GameConnections
	logger      *zap.Logger
}

func NewGame(id string, opts Options) *Game {
	g := newGame(id, opts)
	g.board = engine.NewBoard(g.boardOptions(opts)...)
	return g
}

// NewGameFromRecord continues a stored game from snapshot index step, or
// from its last snapshot when step is negative.
func NewGameFromRecord(id, record string, step int, opts Options) (*Game, error) {
	r, err := engine.NewReplay(record)
	if err != nil {
		return nil, err
	}
	if step < 0 {
		r.Last()
	} else if err := r.Jump(step); err != nil {
		return nil, err
	}
	g := newGame(id, opts)
	g.board = r.Continue(g.boardOptions(opts)...)
	return g, nil
}

func newGame(id string, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{
		ID:          id,
		connections: NewGameConnections(),
		logger:      logger.With(zap.String("game_id", id)),
	}
	if opts.ClockBudget > 0 {
		g.clocks = map[engine.Color]*Clock{
			engine.White: NewClock(opts.ClockBudget),
			engine.Black: NewClock(opts.ClockBudget),
		}
	}
	return g
}

func (g *Game) boardOptions(opts Options) []engine.Option {
	return []engine.Option{engine.WithMoveLogger(logging.MoveLogger(opts.Logger, g.ID))}
}

// AddPlayer seats playerID, white first. Joining twice returns the seat
// already held.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.colorOf(playerID); ok {
		return playerColor(c), nil
	}
	switch {
	case g.white == "":
		g.white = playerID
		g.logger.Info("player joined", zap.String("player_id", playerID), zap.String("color", "white"))
		return PlayerColorWhite, nil
	case g.black == "":
		g.black = playerID
		g.logger.Info("player joined", zap.String("player_id", playerID), zap.String("color", "black"))
		g.startClock(g.board.Turn())
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) colorOf(playerID string) (engine.Color, bool) {
	switch {
	case playerID == "":
		return 0, false
	case playerID == g.white:
		return engine.White, true
	case playerID == g.black:
		return engine.Black, true
	}
	return 0, false
}

func (g *Game) seated() bool {
	return g.white != "" && g.black != ""
}

// MakeMove applies a wire move for playerID. The returned move carries the
// promotion actually applied, and is relayed to the other connections
// before the new state is broadcast.
func (g *Game) MakeMove(playerID, wire string) (engine.WireMove, error) {
	m, err := engine.ParseWireMove(wire)
	if err != nil {
		return engine.WireMove{}, err
	}

	g.mu.Lock()
	out, ended, err := g.move(playerID, m)
	state := g.stateLocked()
	g.mu.Unlock()

	if err == nil {
		g.relayMove(playerID, out)
		g.broadcastState(state)
	}
	if ended {
		g.broadcastEnd(*state.End)
	}
	return out, err
}

func (g *Game) move(playerID string, m engine.WireMove) (engine.WireMove, bool, error) {
	color, ok := g.colorOf(playerID)
	if !ok {
		return engine.WireMove{}, false, ErrNotInGame
	}
	if g.end != nil {
		return engine.WireMove{}, false, ErrGameOver
	}
	if !g.seated() {
		return engine.WireMove{}, false, ErrWaitingForOpponent
	}
	if g.board.Turn() != color {
		return engine.WireMove{}, false, ErrNotYourTurn
	}
	if g.clocks != nil && g.clocks[color].Expired() {
		g.endLocked(EndTimeout, color.Opponent())
		return engine.WireMove{}, true, ErrGameOver
	}
	if p, ok := g.board.PieceAt(m.From); !ok || p.Color != color {
		return engine.WireMove{}, false, fmt.Errorf("%w: no %s piece on %s", ErrIllegalMove, color, m.From)
	}

	if !g.board.ApplyWire(m) {
		winner, over := g.board.GameEnd()
		if !over {
			return engine.WireMove{}, false, fmt.Errorf("%w: %s", ErrIllegalMove, m)
		}
		g.endLocked(EndKingCaptured, winner)
		return engine.WireMove{From: m.From, To: m.To}, true, nil
	}

	rec, _ := g.board.LastMove()
	g.stopClock(color)
	g.startClock(color.Opponent())
	return rec.Wire(), false, nil
}

// CheckClock ends the session when the side to move is out of time.
func (g *Game) CheckClock() bool {
	g.mu.Lock()
	if g.end != nil || g.clocks == nil || !g.seated() {
		g.mu.Unlock()
		return false
	}
	turn := g.board.Turn()
	if !g.clocks[turn].Expired() {
		g.mu.Unlock()
		return false
	}
	end := g.endLocked(EndTimeout, turn.Opponent())
	g.mu.Unlock()

	g.broadcastEnd(end)
	return true
}

// Disconnect ends a running session because playerID left it.
func (g *Game) Disconnect(playerID string) bool {
	g.mu.Lock()
	color, ok := g.colorOf(playerID)
	if !ok || g.end != nil || !g.seated() {
		g.mu.Unlock()
		return false
	}
	end := g.endLocked(EndDisconnect, color.Opponent())
	g.mu.Unlock()

	g.broadcastEnd(end)
	return true
}

func (g *Game) endLocked(reason EndReason, winner engine.Color) SessionEnd {
	for _, c := range g.clocks {
		c.Stop()
	}
	g.end = &SessionEnd{Reason: reason, Winner: &winner}
	g.logger.Info("session ended",
		zap.String("reason", string(reason)),
		zap.Stringer("winner", winner),
		zap.Int("step", g.board.State().Step))
	return *g.end
}

func (g *Game) startClock(c engine.Color) {
	if g.clocks != nil {
		g.clocks[c].Start()
	}
}

func (g *Game) stopClock(c engine.Color) {
	if g.clocks != nil {
		g.clocks[c].Stop()
	}
}

// Finished reports whether the session has ended for any reason.
func (g *Game) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.end != nil
}

// LegalMoves lists where the piece on at may go. An empty square has none.
func (g *Game) LegalMoves(at engine.Position) []engine.Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	moves := []engine.Position{}
	if p, ok := g.board.PieceAt(at); ok {
		moves = append(moves, g.board.AllMoves(p)...)
	}
	return moves
}

func (g *Game) Record() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Record()
}

func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fen.Encode(g.board)
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Game) stateLocked() GameState {
	s := g.board.State()
	state := GameState{
		ID:           g.ID,
		Board:        newBoardView(g.board),
		Turn:         s.Turn,
		WhiteChecked: s.WhiteChecked,
		BlackChecked: s.BlackChecked,
		Winner:       s.Winner,
		Step:         s.Step,
	}
	if rec, ok := g.board.LastMove(); ok {
		state.LastMove = newLastMove(rec)
	}
	state.Players.White = g.clientPlayer(engine.White, g.white)
	state.Players.Black = g.clientPlayer(engine.Black, g.black)
	if g.end != nil {
		end := *g.end
		state.End = &end
	}
	return state
}

func (g *Game) clientPlayer(c engine.Color, id string) ClientPlayer {
	p := ClientPlayer{ID: id, Color: playerColor(c)}
	if g.clocks != nil {
		p.TimeLeft = tenths(g.clocks[c].TimeLeft())
	}
	return p
}
