package engine

import (
	"fmt"
	"strings"
)

// SnapshotDelimiter terminates every snapshot in a record.
const SnapshotDelimiter = "#"

const emptyCell = "**"

type grid [8][8]*Piece

// EncodeSnapshot writes the grid as 8 lines of 16 characters, one line per
// row starting at row 0. Each square is "**" or a type letter followed by a
// color letter. Every line ends with a newline.
func EncodeSnapshot(b *Board) string {
	return encodeGrid((*grid)(&b.grid))
}

func encodeGrid(g *grid) string {
	var sb strings.Builder
	sb.Grow(8 * 17)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := g[y][x]; p != nil {
				sb.WriteString(p.Letter())
			} else {
				sb.WriteString(emptyCell)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DecodeSnapshot parses one snapshot into the pieces it holds, row by row.
// HasMoved is false for every piece since the format does not carry it.
func DecodeSnapshot(s string) ([]Piece, error) {
	g, err := decodeSnapshot(s, -1)
	if err != nil {
		return nil, err
	}
	var pieces []Piece
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := g[y][x]; p != nil {
				pieces = append(pieces, *p)
			}
		}
	}
	return pieces, nil
}

func decodeSnapshot(s string, index int) (*grid, error) {
	lines := strings.Split(strings.Trim(s, "\r\n"), "\n")
	if len(lines) != 8 {
		return nil, &SnapshotError{Index: index, Msg: fmt.Sprintf("want 8 lines, got %d", len(lines))}
	}
	g := &grid{}
	for y, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if len(line) != 16 {
			return nil, &SnapshotError{Index: index, Line: y + 1, Msg: fmt.Sprintf("want 16 characters, got %d", len(line))}
		}
		for x := 0; x < 8; x++ {
			cell := line[2*x : 2*x+2]
			if cell == emptyCell {
				continue
			}
			t, ok := pieceTypeFromLetter(cell[0])
			if !ok {
				return nil, &SnapshotError{Index: index, Line: y + 1, Column: 2*x + 1, Msg: fmt.Sprintf("unknown piece %q", cell)}
			}
			var color Color
			switch cell[1] {
			case 'W':
				color = White
			case 'B':
				color = Black
			default:
				return nil, &SnapshotError{Index: index, Line: y + 1, Column: 2*x + 2, Msg: fmt.Sprintf("unknown color %q", cell)}
			}
			g[y][x] = &Piece{Type: t, Color: color, Position: Position{X: x, Y: y}}
		}
	}
	return g, nil
}

// ParseRecord splits a record blob on '#' and validates every snapshot. The
// returned snapshots are in canonical form without the delimiter.
func ParseRecord(blob string) ([]string, error) {
	grids, err := parseRecord(blob)
	if err != nil {
		return nil, err
	}
	snapshots := make([]string, len(grids))
	for i, g := range grids {
		snapshots[i] = encodeGrid(g)
	}
	return snapshots, nil
}

func parseRecord(blob string) ([]*grid, error) {
	segments := strings.Split(blob, SnapshotDelimiter)
	if len(segments) > 0 && strings.TrimSpace(segments[len(segments)-1]) == "" {
		segments = segments[:len(segments)-1]
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no snapshots", ErrMalformedRecord)
	}
	grids := make([]*grid, 0, len(segments))
	for i, seg := range segments {
		g, err := decodeSnapshot(seg, i)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		grids = append(grids, g)
	}
	return grids, nil
}

// NewBoardFromSnapshot rebuilds a board from one snapshot taken at the given
// 0-based step index. White moves when step is odd. Nothing outside the grid
// survives: pieces count as unmoved, no en passant is available and the
// record starts empty.
func NewBoardFromSnapshot(snapshot string, step int, opts ...Option) (*Board, error) {
	g, err := decodeSnapshot(snapshot, -1)
	if err != nil {
		return nil, err
	}
	return boardFromGrid(g, step, opts...), nil
}

func boardFromGrid(g *grid, step int, opts ...Option) *Board {
	b := NewEmptyBoard(opts...)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := g[y][x]; p != nil {
				cp := *p
				b.grid[y][x] = &cp
			}
		}
	}
	b.state.Step = step + 1
	b.state.Turn = Black
	if step%2 != 0 {
		b.state.Turn = White
	}
	return b
}
