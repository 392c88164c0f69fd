package engine

import (
	"fmt"
	"strings"
)

// Position is a square on the board. X is the file (0 = A) and Y is the row
// counted from black's side, so the algebraic rank is 8 - Y.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Valid reports whether p lies on the board.
func (p Position) Valid() bool {
	return boundaryCheck(p)
}

// Offset returns the position shifted by dx files and dy rows. The result
// may be off the board.
func (p Position) Offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// String returns the algebraic form, e.g. "E2".
func (p Position) String() string {
	return fmt.Sprintf("%c%d", rune('A'+p.X), 8-p.Y)
}

// ParseSquare parses an algebraic square such as "e2" or "E2".
func ParseSquare(s string) (Position, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: square %q", ErrMalformedMove, s)
	}
	file := strings.ToUpper(s[:1])[0]
	rank := s[1]
	if file < 'A' || file > 'H' || rank < '1' || rank > '8' {
		return Position{}, fmt.Errorf("%w: square %q", ErrMalformedMove, s)
	}
	return Position{X: int(file - 'A'), Y: 8 - int(rank-'0')}, nil
}

func boundaryCheck(position Position) bool {
	return position.X >= 0 && position.X < 8 && position.Y >= 0 && position.Y < 8
}
