// Package fen exports engine boards as FEN and runs a standard-rules
// analysis of a position through dragontoothmg. The analysis is
// informational: the engine itself only ends a game on king capture.
package fen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/benbeisheim/duelchess/internal/engine"
)

var ErrInvalidFEN = errors.New("invalid FEN string")

// Encode returns the FEN of a live board. Castling rights come from unmoved
// kings and rooks on their home squares, so boards rebuilt from snapshots
// report every right their layout allows.
func Encode(b *engine.Board) string {
	state := b.State()
	var sb strings.Builder
	for y := 0; y < 8; y++ {
		empty := 0
		for x := 0; x < 8; x++ {
			p, ok := b.PieceAt(engine.Position{X: x, Y: y})
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(letter(p))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if y < 7 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if state.Turn == engine.Black {
		side = "b"
	}
	ply := state.Step - 1
	if ply < 0 {
		ply = 0
	}
	return fmt.Sprintf("%s %s %s %s 0 %d", sb.String(), side, castling(b), enPassant(state), ply/2+1)
}

func letter(p engine.Piece) byte {
	c := p.Type.Letter()
	if p.Color == engine.Black {
		c += 'a' - 'A'
	}
	return c
}

func castling(b *engine.Board) string {
	var rights string
	for _, side := range []struct {
		color engine.Color
		row   int
		king  byte
		queen byte
	}{
		{engine.White, 7, 'K', 'Q'},
		{engine.Black, 0, 'k', 'q'},
	} {
		if !unmoved(b, engine.King, side.color, engine.Position{X: 4, Y: side.row}) {
			continue
		}
		if unmoved(b, engine.Rook, side.color, engine.Position{X: 7, Y: side.row}) {
			rights += string(side.king)
		}
		if unmoved(b, engine.Rook, side.color, engine.Position{X: 0, Y: side.row}) {
			rights += string(side.queen)
		}
	}
	if rights == "" {
		return "-"
	}
	return rights
}

func unmoved(b *engine.Board, typ engine.PieceType, color engine.Color, at engine.Position) bool {
	p, ok := b.PieceAt(at)
	return ok && p.Type == typ && p.Color == color && !p.HasMoved
}

// enPassant names the square the double-stepped pawn passed over.
func enPassant(state engine.GameState) string {
	if state.EnPassant == nil {
		return "-"
	}
	behind := state.EnPassant.Offset(0, 1)
	if state.EnPassant.Y == 3 {
		behind = state.EnPassant.Offset(0, -1)
	}
	return strings.ToLower(behind.String())
}
