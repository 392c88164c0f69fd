package engine

import (
	"encoding/json"
	"fmt"
)

type Color uint8

const (
	White Color = iota
	Black
)

// Opponent returns the other color.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) letter() byte {
	if c == White {
		return 'W'
	}
	return 'B'
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", s)
	}
	return nil
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Letter is the snapshot letter of the type.
func (p PieceType) Letter() byte {
	switch p {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Pawn:
		return 'P'
	}
	return '?'
}

// WireLetter is the lowercase promotion suffix used by the wire move format.
// Only promotion targets have one.
func (p PieceType) WireLetter() (byte, bool) {
	switch p {
	case Queen:
		return 'q', true
	case Rook:
		return 'r', true
	case Bishop:
		return 'b', true
	case Knight:
		return 'n', true
	}
	return 0, false
}

// IsPromotionTarget reports whether a pawn may promote to p.
func (p PieceType) IsPromotionTarget() bool {
	_, ok := p.WireLetter()
	return ok
}

func pieceTypeFromLetter(b byte) (PieceType, bool) {
	switch b {
	case 'K':
		return King, true
	case 'Q':
		return Queen, true
	case 'R':
		return Rook, true
	case 'B':
		return Bishop, true
	case 'N':
		return Knight, true
	case 'P':
		return Pawn, true
	}
	return "", false
}

func promotionFromWireLetter(b byte) (PieceType, bool) {
	switch b {
	case 'q':
		return Queen, true
	case 'r':
		return Rook, true
	case 'b':
		return Bishop, true
	case 'n':
		return Knight, true
	}
	return "", false
}

// Piece is owned by the board cell it occupies. Position always equals the
// index of that cell.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Position Position  `json:"position"`
	HasMoved bool      `json:"hasMoved"`
}

// Letter returns the two character snapshot cell, e.g. "PW".
func (p Piece) Letter() string {
	return string([]byte{p.Type.Letter(), p.Color.letter()})
}

func (p *Piece) moveTo(position Position) {
	p.Position = position
	p.HasMoved = true
}
