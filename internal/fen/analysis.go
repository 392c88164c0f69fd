package fen

import (
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// Analysis is the standard-rules view of a position.
type Analysis struct {
	FEN         string   `json:"fen"`
	WhiteToMove bool     `json:"whiteToMove"`
	LegalMoves  []string `json:"legalMoves"`
	InCheck     bool     `json:"inCheck"`
	Checkmate   bool     `json:"checkmate"`
	Stalemate   bool     `json:"stalemate"`
}

// Analyze parses fen and lists the side to move's legal moves under standard
// chess rules. Positions dragontoothmg cannot represent, such as a missing
// king or a pawn on a back rank, are rejected with ErrInvalidFEN.
func Analyze(fen string) (a Analysis, err error) {
	fen, err = normalize(fen)
	if err != nil {
		return Analysis{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			a, err = Analysis{}, fmt.Errorf("%w: %v", ErrInvalidFEN, r)
		}
	}()

	board := dragontoothmg.ParseFen(fen)
	moves := board.GenerateLegalMoves()
	a = Analysis{
		FEN:         board.ToFen(),
		WhiteToMove: board.Wtomove,
		LegalMoves:  make([]string, 0, len(moves)),
		InCheck:     board.OurKingInCheck(),
	}
	for _, m := range moves {
		a.LegalMoves = append(a.LegalMoves, m.String())
	}
	a.Checkmate = a.InCheck && len(moves) == 0
	a.Stalemate = !a.InCheck && len(moves) == 0
	return a, nil
}

// normalize checks the structure dragontoothmg relies on and fills in
// missing clock fields.
func normalize(fen string) (string, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return "", fmt.Errorf("%w: want 4 to 6 fields, got %d", ErrInvalidFEN, len(fields))
	}
	if err := checkPlacement(fields[0]); err != nil {
		return "", err
	}
	if fields[1] != "w" && fields[1] != "b" {
		return "", fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}
	if fields[2] != "-" && strings.Trim(fields[2], "KQkq") != "" {
		return "", fmt.Errorf("%w: castling %q", ErrInvalidFEN, fields[2])
	}
	if ep := fields[3]; ep != "-" {
		if len(ep) != 2 || ep[0] < 'a' || ep[0] > 'h' || (ep[1] != '3' && ep[1] != '6') {
			return "", fmt.Errorf("%w: en passant %q", ErrInvalidFEN, ep)
		}
	}
	for len(fields) < 6 {
		if len(fields) == 4 {
			fields = append(fields, "0")
		} else {
			fields = append(fields, "1")
		}
	}
	return strings.Join(fields, " "), nil
}

func checkPlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	kings := map[rune]int{}
	for i, rank := range ranks {
		width := 0
		for _, c := range rank {
			switch {
			case c >= '1' && c <= '8':
				width += int(c - '0')
			case strings.ContainsRune("KQRBNPkqrbnp", c):
				if (c == 'P' || c == 'p') && (i == 0 || i == 7) {
					return fmt.Errorf("%w: pawn on rank %d", ErrInvalidFEN, 8-i)
				}
				if c == 'K' || c == 'k' {
					kings[c]++
				}
				width++
			default:
				return fmt.Errorf("%w: unexpected %q in rank %d", ErrInvalidFEN, c, 8-i)
			}
		}
		if width != 8 {
			return fmt.Errorf("%w: rank %d spans %d files", ErrInvalidFEN, 8-i, width)
		}
	}
	if kings['K'] != 1 || kings['k'] != 1 {
		return fmt.Errorf("%w: want one king per side, got %d white and %d black", ErrInvalidFEN, kings['K'], kings['k'])
	}
	return nil
}
