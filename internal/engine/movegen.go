package engine

var (
	rookDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs = []Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

// White starts on rows 6 and 7 and moves toward row 0.
func forward(color Color) int {
	if color == White {
		return -1
	}
	return 1
}

func homeRow(color Color) int {
	if color == White {
		return 7
	}
	return 0
}

func pawnStartRow(color Color) int {
	if color == White {
		return 6
	}
	return 1
}

// enPassantRow is the row a pawn must stand on to capture en passant.
func enPassantRow(color Color) int {
	if color == White {
		return 3
	}
	return 4
}

type squareSet [8][8]bool

func (s *squareSet) add(p Position) {
	s[p.Y][p.X] = true
}

func (s *squareSet) has(p Position) bool {
	return boundaryCheck(p) && s[p.Y][p.X]
}

func (s *squareSet) positions() []Position {
	var out []Position
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if s[y][x] {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// pseudoMoves is the move rule of a piece: geometry and occupancy, with the
// king additionally kept off attacked squares.
func (b *Board) pseudoMoves(piece *Piece) []Position {
	switch piece.Type {
	case Pawn:
		return b.pawnMoves(piece)
	case Knight:
		return b.stepMoves(piece, knightDirs)
	case Bishop:
		return b.slideMoves(piece, bishopDirs)
	case Rook:
		return b.slideMoves(piece, rookDirs)
	case Queen:
		return append(b.slideMoves(piece, rookDirs), b.slideMoves(piece, bishopDirs)...)
	case King:
		return b.kingMoves(piece)
	default:
		return nil
	}
}

// attackField is the threat rule of a piece. Kings and pawns have their own;
// every other piece threatens exactly where it can move.
func (b *Board) attackField(piece *Piece) []Position {
	switch piece.Type {
	case King:
		return kingAttackField(piece)
	case Pawn:
		return pawnAttackField(piece)
	default:
		return b.pseudoMoves(piece)
	}
}

func (b *Board) attackSet(color Color) *squareSet {
	set := &squareSet{}
	for _, piece := range b.piecesOf(color) {
		for _, target := range b.attackField(piece) {
			set.add(target)
		}
	}
	return set
}

func (b *Board) slideMoves(piece *Piece, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := piece.Position.Offset(dir.X, dir.Y)
		for boundaryCheck(target) {
			other := b.at(target)
			if other == nil {
				moves = append(moves, target)
			} else if other.Color != piece.Color {
				moves = append(moves, target)
				break
			} else {
				break
			}
			target = target.Offset(dir.X, dir.Y)
		}
	}
	return moves
}

func (b *Board) stepMoves(piece *Piece, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := piece.Position.Offset(dir.X, dir.Y)
		if !boundaryCheck(target) {
			continue
		}
		if other := b.at(target); other == nil || other.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func (b *Board) pawnMoves(piece *Piece) []Position {
	moves := []Position{}
	dir := forward(piece.Color)
	one := piece.Position.Offset(0, dir)
	if boundaryCheck(one) && b.at(one) == nil {
		moves = append(moves, one)
		two := piece.Position.Offset(0, 2*dir)
		if !piece.HasMoved && piece.Position.Y == pawnStartRow(piece.Color) && b.at(two) == nil {
			moves = append(moves, two)
		}
	}
	for _, dx := range []int{-1, 1} {
		target := piece.Position.Offset(dx, dir)
		if other := b.at(target); other != nil && other.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	if target, ok := b.enPassantTarget(piece); ok {
		moves = append(moves, target)
	}
	return moves
}

// enPassantTarget returns the empty square diagonally behind a pawn that
// just double-stepped past piece.
func (b *Board) enPassantTarget(piece *Piece) (Position, bool) {
	ep := b.state.EnPassant
	if piece.Type != Pawn || ep == nil || piece.Position.Y != enPassantRow(piece.Color) {
		return Position{}, false
	}
	if ep.Y != piece.Position.Y || abs(ep.X-piece.Position.X) != 1 {
		return Position{}, false
	}
	victim := b.at(*ep)
	if victim == nil || victim.Type != Pawn || victim.Color == piece.Color {
		return Position{}, false
	}
	target := ep.Offset(0, forward(piece.Color))
	if b.at(target) != nil {
		return Position{}, false
	}
	return target, true
}

func (b *Board) kingMoves(piece *Piece) []Position {
	attacked := b.attackSet(piece.Color.Opponent())
	moves := []Position{}
	for _, dir := range kingDirs {
		target := piece.Position.Offset(dir.X, dir.Y)
		if !boundaryCheck(target) || attacked.has(target) {
			continue
		}
		if other := b.at(target); other == nil || other.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return append(moves, b.castlingMoves(piece, attacked)...)
}

func (b *Board) castlingMoves(king *Piece, attacked *squareSet) []Position {
	row := homeRow(king.Color)
	if king.HasMoved || king.Position != (Position{X: 4, Y: row}) {
		return nil
	}
	var moves []Position
	if b.castlingRookReady(king.Color, Position{X: 7, Y: row}) &&
		b.pathClear(row, 5, 6) && !attacked.has(Position{X: 5, Y: row}) && !attacked.has(Position{X: 6, Y: row}) {
		moves = append(moves, Position{X: 6, Y: row})
	}
	if b.castlingRookReady(king.Color, Position{X: 0, Y: row}) &&
		b.pathClear(row, 1, 3) && !attacked.has(Position{X: 3, Y: row}) && !attacked.has(Position{X: 2, Y: row}) {
		moves = append(moves, Position{X: 2, Y: row})
	}
	return moves
}

func (b *Board) castlingRookReady(color Color, corner Position) bool {
	rook := b.at(corner)
	return rook != nil && rook.Type == Rook && rook.Color == color && !rook.HasMoved
}

// pathClear reports whether files from..to (inclusive) of row are empty.
func (b *Board) pathClear(row, from, to int) bool {
	for x := from; x <= to; x++ {
		if b.grid[row][x] != nil {
			return false
		}
	}
	return true
}

func kingAttackField(piece *Piece) []Position {
	field := []Position{}
	for _, dir := range kingDirs {
		if target := piece.Position.Offset(dir.X, dir.Y); boundaryCheck(target) {
			field = append(field, target)
		}
	}
	return field
}

// Pawns threaten both forward diagonals whether or not anything stands there.
func pawnAttackField(piece *Piece) []Position {
	field := []Position{}
	dir := forward(piece.Color)
	for _, dx := range []int{-1, 1} {
		if target := piece.Position.Offset(dx, dir); boundaryCheck(target) {
			field = append(field, target)
		}
	}
	return field
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
