// Package engine is the two-player chess rule engine: board state, move
// generation, move validation and application, check bookkeeping and the
// textual snapshot format used for persistence and replay.
//
// A Board is not safe for concurrent use. Callers that receive moves on other
// goroutines must hand them to the board's single owner.
package engine

import "fmt"

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board owns the 8x8 grid, indexed [row][file], and everything needed to
// validate and apply moves on it.
type Board struct {
	grid     [8][8]*Piece
	state    GameState
	lastMove *MoveRecord
	record   string
	chooser  PromotionChooser
	logger   MoveLogger
}

// NewBoard returns a board with the standard starting layout, white to move.
func NewBoard(opts ...Option) *Board {
	b := NewEmptyBoard(opts...)
	for x := 0; x < 8; x++ {
		b.grid[0][x] = &Piece{Type: backRank[x], Color: Black, Position: Position{X: x, Y: 0}}
		b.grid[1][x] = &Piece{Type: Pawn, Color: Black, Position: Position{X: x, Y: 1}}
		b.grid[6][x] = &Piece{Type: Pawn, Color: White, Position: Position{X: x, Y: 6}}
		b.grid[7][x] = &Piece{Type: backRank[x], Color: White, Position: Position{X: x, Y: 7}}
	}
	return b
}

// NewEmptyBoard returns a board with no pieces, white to move.
func NewEmptyBoard(opts ...Option) *Board {
	b := &Board{
		state:   initialState(),
		chooser: FixedPromotion(Queen),
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Place puts a copy of piece on its position, replacing any occupant.
func (b *Board) Place(piece Piece) error {
	if !boundaryCheck(piece.Position) {
		return fmt.Errorf("place %s: position %v off the board", piece.Type, piece.Position)
	}
	p := piece
	b.grid[p.Position.Y][p.Position.X] = &p
	return nil
}

// Clear empties a square.
func (b *Board) Clear(position Position) {
	if boundaryCheck(position) {
		b.grid[position.Y][position.X] = nil
	}
}

func (b *Board) at(position Position) *Piece {
	if !boundaryCheck(position) {
		return nil
	}
	return b.grid[position.Y][position.X]
}

func (b *Board) piecesOf(color Color) []*Piece {
	var pieces []*Piece
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := b.grid[y][x]; p != nil && p.Color == color {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

func (b *Board) king(color Color) *Piece {
	for _, p := range b.piecesOf(color) {
		if p.Type == King {
			return p
		}
	}
	return nil
}

// PieceAt returns a copy of the piece on position.
func (b *Board) PieceAt(position Position) (Piece, bool) {
	if p := b.at(position); p != nil {
		return *p, true
	}
	return Piece{}, false
}

// AllPieces returns copies of every piece, row by row.
func (b *Board) AllPieces() []Piece {
	var pieces []Piece
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := b.grid[y][x]; p != nil {
				pieces = append(pieces, *p)
			}
		}
	}
	return pieces
}

// AllMoves returns the destinations the piece standing on piece.Position may
// move to. It returns nil when that square does not hold such a piece.
func (b *Board) AllMoves(piece Piece) []Position {
	p := b.at(piece.Position)
	if p == nil || p.Type != piece.Type || p.Color != piece.Color {
		return nil
	}
	return b.pseudoMoves(p)
}

// AttackField returns every square color threatens, row by row.
func (b *Board) AttackField(color Color) []Position {
	return b.attackSet(color).positions()
}

func (b *Board) Turn() Color {
	return b.state.Turn
}

func (b *Board) IsChecked(color Color) bool {
	return b.state.IsChecked(color)
}

// GameEnd returns the winner once a king has been captured.
func (b *Board) GameEnd() (Color, bool) {
	if b.state.Winner == nil {
		return White, false
	}
	return *b.state.Winner, true
}

// State returns a copy of the turn bookkeeping.
func (b *Board) State() GameState {
	s := b.state
	if s.Winner != nil {
		w := *s.Winner
		s.Winner = &w
	}
	if s.EnPassant != nil {
		ep := *s.EnPassant
		s.EnPassant = &ep
	}
	return s
}

// LastMove returns the most recently recorded move.
func (b *Board) LastMove() (MoveRecord, bool) {
	if b.lastMove == nil {
		return MoveRecord{}, false
	}
	return *b.lastMove, true
}

// Record returns every snapshot taken since the game started, each one
// terminated by '#'.
func (b *Board) Record() string {
	return b.record
}

// Snapshot encodes the current grid.
func (b *Board) Snapshot() string {
	return EncodeSnapshot(b)
}

// Move validates and applies the move from start to end using the board's
// promotion chooser. It reports whether the move was legal and applied.
//
// Capturing a king is the one exception: the capture is applied, the winner
// is set and the turn passes, but Move reports false and records nothing.
func (b *Board) Move(start, end Position) bool {
	return b.MoveWith(start, end, b.chooser)
}

// MoveWith is Move with a per-call promotion chooser.
func (b *Board) MoveWith(start, end Position, chooser PromotionChooser) bool {
	if b.state.Winner != nil || !boundaryCheck(start) || !boundaryCheck(end) {
		return false
	}
	piece := b.at(start)
	if piece == nil || !containsPosition(b.pseudoMoves(piece), end) {
		return false
	}

	if target := b.at(end); target != nil && target.Type == King {
		b.relocate(piece, end)
		b.state = b.state.afterKingCapture(piece.Color)
		return false
	}

	rec := MoveRecord{Step: b.state.Step, Color: piece.Color, Piece: piece.Type, From: start, To: end}
	var doubleStep *Position
	switch piece.Type {
	case Pawn:
		if target, ok := b.enPassantTarget(piece); ok && target == end {
			victim := *b.at(*b.state.EnPassant)
			rec.Captured = &victim
			rec.EnPassant = true
			b.Clear(victim.Position)
		}
		if end.Y == 0 || end.Y == 7 {
			promotion := choosePromotion(chooser, piece.Color, end)
			piece.Type = promotion
			rec.Promotion = promotion
		}
		if abs(end.Y-start.Y) == 2 {
			landed := end
			doubleStep = &landed
		}
	case King:
		// A legal two-file king move is always a castle.
		if abs(end.X-start.X) == 2 {
			b.castleRook(piece.Color, end)
			rec.Castle = true
		}
	}

	if target := b.at(end); target != nil {
		captured := *target
		rec.Captured = &captured
		b.Clear(end)
	}
	b.relocate(piece, end)

	b.state = b.state.afterMove(piece.Color, b.attacksKing(piece.Color), doubleStep)
	b.lastMove = &rec
	b.record += EncodeSnapshot(b) + SnapshotDelimiter
	b.logger.LogMove(rec)
	return true
}

// ApplyWire applies a move received in wire form, substituting its promotion
// letter for the chooser. A promotion without a letter becomes a queen.
func (b *Board) ApplyWire(m WireMove) bool {
	promotion := m.Promotion
	if promotion == "" {
		promotion = Queen
	}
	return b.MoveWith(m.From, m.To, FixedPromotion(promotion))
}

func (b *Board) relocate(piece *Piece, end Position) {
	b.grid[piece.Position.Y][piece.Position.X] = nil
	b.grid[end.Y][end.X] = piece
	piece.moveTo(end)
}

// castleRook moves the rook on the side the king castled toward to the square
// beside the king's landing square.
func (b *Board) castleRook(color Color, kingEnd Position) {
	row := homeRow(color)
	corner, landing := Position{X: 7, Y: row}, Position{X: kingEnd.X - 1, Y: row}
	if kingEnd.X < 4 {
		corner, landing = Position{X: 0, Y: row}, Position{X: kingEnd.X + 1, Y: row}
	}
	if rook := b.at(corner); rook != nil {
		b.relocate(rook, landing)
	}
}

// attacksKing reports whether mover's attack field covers the opposing king.
func (b *Board) attacksKing(mover Color) bool {
	king := b.king(mover.Opponent())
	if king == nil {
		return false
	}
	return b.attackSet(mover).has(king.Position)
}

func containsPosition(positions []Position, p Position) bool {
	for _, q := range positions {
		if q == p {
			return true
		}
	}
	return false
}
