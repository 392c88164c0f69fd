// Package logging builds the zap loggers used across the server.
package logging

import (
	"go.uber.org/zap"

	"github.com/benbeisheim/duelchess/internal/engine"
)

// New returns a development logger with human readable output, or a JSON
// production logger.
func New(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// MoveLogger writes every applied move of a game at debug level.
func MoveLogger(logger *zap.Logger, gameID string) engine.MoveLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("game_id", gameID))
	return engine.MoveLoggerFunc(func(rec engine.MoveRecord) {
		fields := []zap.Field{
			zap.Int("step", rec.Step),
			zap.Stringer("color", rec.Color),
			zap.String("piece", string(rec.Piece)),
			zap.Stringer("from", rec.From),
			zap.Stringer("to", rec.To),
		}
		if rec.Captured != nil {
			fields = append(fields, zap.String("captured", string(rec.Captured.Type)))
		}
		if rec.Promotion != "" {
			fields = append(fields, zap.String("promotion", string(rec.Promotion)))
		}
		if rec.Castle {
			fields = append(fields, zap.Bool("castle", true))
		}
		if rec.EnPassant {
			fields = append(fields, zap.Bool("en_passant", true))
		}
		logger.Debug(rec.String(), fields...)
	})
}
