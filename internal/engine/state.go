package engine

// GameState is the turn bookkeeping of a board. It is replaced as a whole on
// every transition instead of being patched field by field.
type GameState struct {
	Turn         Color `json:"turn"`
	WhiteChecked bool  `json:"whiteChecked"`
	BlackChecked bool  `json:"blackChecked"`
	// Winner is set only by capturing a king.
	Winner *Color `json:"winner"`
	// EnPassant is the current square of the pawn that double-stepped on the
	// previous move, nil otherwise.
	EnPassant *Position `json:"enPassant"`
	// Step is the index the next recorded move will get, starting at 1.
	Step int `json:"step"`
}

func initialState() GameState {
	return GameState{Turn: White, Step: 1}
}

// IsChecked reports the stored check flag of color.
func (s GameState) IsChecked(color Color) bool {
	if color == White {
		return s.WhiteChecked
	}
	return s.BlackChecked
}

// withChecks derives both flags fresh: only the mover's opponent can be in
// check after a move.
func (s GameState) withChecks(mover Color, opponentChecked bool) GameState {
	s.WhiteChecked = false
	s.BlackChecked = false
	if mover == White {
		s.BlackChecked = opponentChecked
	} else {
		s.WhiteChecked = opponentChecked
	}
	return s
}

func (s GameState) afterMove(mover Color, opponentChecked bool, doubleStep *Position) GameState {
	next := s.withChecks(mover, opponentChecked)
	next.EnPassant = doubleStep
	next.Step = s.Step + 1
	next.Turn = s.Turn.Opponent()
	return next
}

func (s GameState) afterKingCapture(capturer Color) GameState {
	winner := capturer
	s.Winner = &winner
	s.Turn = s.Turn.Opponent()
	return s
}
