package model

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/benbeisheim/duelchess/internal/engine"
	"github.com/benbeisheim/duelchess/internal/ws"
)

// Conn is the part of a websocket connection a game writes to.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// GameConnections holds one connection per player. Every write happens under
// mu, so a connection never has two concurrent writers.
type GameConnections struct {
	mu          sync.Mutex
	connections map[string]Conn
}

func NewGameConnections() *GameConnections {
	return &GameConnections{connections: make(map[string]Conn)}
}

// RegisterConnection attaches conn to playerID and sends it the current
// state. A second connection for the same player is closed and the first one
// kept.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	_, isPlayer := g.colorOf(playerID)
	state := g.stateLocked()
	g.mu.Unlock()

	if !isPlayer {
		return ErrNotInGame
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		g.logger.Debug("rejecting duplicate connection", zap.String("player_id", playerID))
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "connection already exists"),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	g.logger.Debug("connection registered", zap.String("player_id", playerID))

	g.broadcastState(state)
	return nil
}

// UnregisterConnection detaches conn. It reports whether playerID is left
// without a connection, which is false when conn was a rejected duplicate.
func (g *Game) UnregisterConnection(playerID string, conn Conn) bool {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	current, exists := g.connections.connections[playerID]
	if !exists {
		return true
	}
	if current != conn {
		return false
	}
	delete(g.connections.connections, playerID)
	g.logger.Debug("connection unregistered", zap.String("player_id", playerID))
	return true
}

// SendError writes an error message to playerID's connection only.
func (g *Game) SendError(playerID, text string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if conn, ok := g.connections.connections[playerID]; ok {
		if err := conn.WriteJSON(ws.ErrorMessage(text)); err != nil {
			g.dropLocked(playerID, err)
		}
	}
}

// CloseConnections closes and forgets every connection.
func (g *Game) CloseConnections() {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	for playerID, conn := range g.connections.connections {
		conn.Close()
		delete(g.connections.connections, playerID)
	}
}

func (g *Game) broadcastState(state GameState) {
	g.broadcast(ws.MessageTypeGameState, state, "")
}

func (g *Game) broadcastEnd(end SessionEnd) {
	g.broadcast(ws.MessageTypeSessionEnded, end, "")
}

// relayMove sends the applied move to everyone but the mover.
func (g *Game) relayMove(mover string, m engine.WireMove) {
	g.broadcast(ws.MessageTypeMove, m.String(), mover)
}

func (g *Game) broadcast(t ws.MessageType, payload interface{}, except string) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		g.logger.Error("encode message", zap.String("type", string(t)), zap.Error(err))
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if playerID == except {
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			g.dropLocked(playerID, err)
		}
	}
}

func (g *Game) dropLocked(playerID string, err error) {
	g.logger.Warn("dropping connection", zap.String("player_id", playerID), zap.Error(err))
	delete(g.connections.connections, playerID)
}
