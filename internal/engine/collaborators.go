package engine

// PromotionChooser decides what a pawn reaching the far row becomes. It is
// called synchronously from Move and may block until a choice is made.
type PromotionChooser interface {
	ChoosePromotion(color Color, at Position) PieceType
}

// PromotionFunc adapts a function to PromotionChooser.
type PromotionFunc func(color Color, at Position) PieceType

func (f PromotionFunc) ChoosePromotion(color Color, at Position) PieceType {
	return f(color, at)
}

// FixedPromotion always answers t. The network path uses it to substitute the
// choice encoded in a received move.
func FixedPromotion(t PieceType) PromotionChooser {
	return PromotionFunc(func(Color, Position) PieceType { return t })
}

// MoveLogger receives every applied move, in order.
type MoveLogger interface {
	LogMove(rec MoveRecord)
}

// MoveLoggerFunc adapts a function to MoveLogger.
type MoveLoggerFunc func(rec MoveRecord)

func (f MoveLoggerFunc) LogMove(rec MoveRecord) {
	f(rec)
}

type nopLogger struct{}

func (nopLogger) LogMove(MoveRecord) {}

// choosePromotion asks c and falls back to a queen when there is no chooser
// or its answer is not a piece a pawn can become.
func choosePromotion(c PromotionChooser, color Color, at Position) PieceType {
	if c == nil {
		return Queen
	}
	if t := c.ChoosePromotion(color, at); t.IsPromotionTarget() {
		return t
	}
	return Queen
}

// Option configures a Board.
type Option func(*Board)

func WithPromotionChooser(c PromotionChooser) Option {
	return func(b *Board) {
		b.chooser = c
	}
}

func WithMoveLogger(l MoveLogger) Option {
	return func(b *Board) {
		if l == nil {
			l = nopLogger{}
		}
		b.logger = l
	}
}
