package engine

import (
	"fmt"
	"strings"
)

// MoveRecord describes one applied move.
type MoveRecord struct {
	Step      int       `json:"step"`
	Color     Color     `json:"color"`
	Piece     PieceType `json:"piece"`
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Captured  *Piece    `json:"captured,omitempty"`
	Promotion PieceType `json:"promotion,omitempty"`
	Castle    bool      `json:"castle,omitempty"`
	EnPassant bool      `json:"enPassant,omitempty"`
}

// String is the move log line, e.g. "1.E2 - E4" or "9.B7 - B8 pro:queen".
func (r MoveRecord) String() string {
	s := fmt.Sprintf("%d.%s - %s", r.Step, r.From, r.To)
	if r.Promotion != "" {
		s += " pro:" + string(r.Promotion)
	}
	return s
}

// Wire returns the move in network form.
func (r MoveRecord) Wire() WireMove {
	return WireMove{From: r.From, To: r.To, Promotion: r.Promotion}
}

// WireMove is the network form of a move: start file and row digits, '+',
// end file and row digits, and a promotion letter only when one happened.
//
//	64+44
//	61+60q
type WireMove struct {
	From      Position
	To        Position
	Promotion PieceType
}

func (m WireMove) String() string {
	s := fmt.Sprintf("%d%d+%d%d", m.From.X, m.From.Y, m.To.X, m.To.Y)
	if letter, ok := m.Promotion.WireLetter(); ok {
		s += string(letter)
	}
	return s
}

// ParseWireMove parses the network form. Anything else fails with an error
// wrapping ErrMalformedMove.
func ParseWireMove(s string) (WireMove, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 && len(s) != 6 {
		return WireMove{}, fmt.Errorf("%w: %q: want 5 or 6 characters, got %d", ErrMalformedMove, s, len(s))
	}
	if s[2] != '+' {
		return WireMove{}, fmt.Errorf("%w: %q: missing '+' separator", ErrMalformedMove, s)
	}
	var coords [4]int
	for i, idx := range []int{0, 1, 3, 4} {
		c := s[idx]
		if c < '0' || c > '7' {
			return WireMove{}, fmt.Errorf("%w: %q: coordinate %q out of range", ErrMalformedMove, s, c)
		}
		coords[i] = int(c - '0')
	}
	m := WireMove{
		From: Position{X: coords[0], Y: coords[1]},
		To:   Position{X: coords[2], Y: coords[3]},
	}
	if len(s) == 6 {
		promotion, ok := promotionFromWireLetter(s[5])
		if !ok {
			return WireMove{}, fmt.Errorf("%w: %q: unknown promotion %q", ErrMalformedMove, s, s[5])
		}
		m.Promotion = promotion
	}
	return m, nil
}
