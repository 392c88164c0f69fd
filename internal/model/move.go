package model

import "github.com/benbeisheim/duelchess/internal/engine"

// LastMove describes the most recent recorded move for display.
type LastMove struct {
	Wire      string           `json:"wire"`
	From      engine.Position  `json:"from"`
	To        engine.Position  `json:"to"`
	Promotion engine.PieceType `json:"promotion,omitempty"`
	Notation  string           `json:"notation"`
}

func newLastMove(rec engine.MoveRecord) *LastMove {
	return &LastMove{
		Wire:      rec.Wire().String(),
		From:      rec.From,
		To:        rec.To,
		Promotion: rec.Promotion,
		Notation:  rec.String(),
	}
}
