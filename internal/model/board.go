package model

import "github.com/benbeisheim/duelchess/internal/engine"

// BoardView is the grid sent to clients, indexed [y][x] like the engine,
// with null for empty squares.
type BoardView [8][8]*engine.Piece

func newBoardView(b *engine.Board) BoardView {
	var v BoardView
	for _, p := range b.AllPieces() {
		p := p
		v[p.Position.Y][p.Position.X] = &p
	}
	return v
}
