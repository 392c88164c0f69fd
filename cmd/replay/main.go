// replay prints the positions of a saved game record.
//
//	replay -file records/<id>.txt [-step N] [-all] [-fen]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benbeisheim/duelchess/internal/engine"
	"github.com/benbeisheim/duelchess/internal/fen"
	"github.com/benbeisheim/duelchess/internal/store"
)

type options struct {
	file string
	step int
	all  bool
	fen  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "record file to read")
	flag.IntVar(&opts.step, "step", -1, "0-based snapshot to show, -1 for the last")
	flag.BoolVar(&opts.all, "all", false, "show every snapshot")
	flag.BoolVar(&opts.fen, "fen", false, "print the FEN and a standard-rules analysis")
	flag.Parse()

	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, opts options) error {
	if opts.file == "" {
		return errors.New("-file is required")
	}
	blob, err := (&store.FileStore{}).Load(opts.file)
	if err != nil {
		return err
	}
	r, err := engine.NewReplay(blob)
	if err != nil {
		return err
	}

	if opts.all {
		for i := 0; i < r.Len(); i++ {
			if err := r.Jump(i); err != nil {
				return err
			}
			show(w, r, opts.fen)
		}
		return nil
	}

	if opts.step < 0 {
		r.Last()
	} else if err := r.Jump(opts.step); err != nil {
		return err
	}
	show(w, r, opts.fen)
	return nil
}

func show(w io.Writer, r *engine.Replay, withFEN bool) {
	b := r.Board()
	fmt.Fprintf(w, "step %d/%d, %s to move\n", r.Step(), r.Len()-1, b.Turn())
	fmt.Fprint(w, render(b))
	if !withFEN {
		fmt.Fprintln(w)
		return
	}
	f := fen.Encode(b)
	fmt.Fprintf(w, "fen: %s\n", f)
	a, err := fen.Analyze(f)
	switch {
	case err != nil:
		fmt.Fprintf(w, "analysis: %v\n", err)
	case a.Checkmate:
		fmt.Fprintln(w, "analysis: checkmate")
	case a.Stalemate:
		fmt.Fprintln(w, "analysis: stalemate")
	default:
		check := ""
		if a.InCheck {
			check = ", in check"
		}
		fmt.Fprintf(w, "analysis: %d legal moves%s\n", len(a.LegalMoves), check)
	}
	fmt.Fprintln(w)
}

// render draws the board with rank 8 on top, white in upper case.
func render(b *engine.Board) string {
	var sb strings.Builder
	for y := 0; y < 8; y++ {
		fmt.Fprintf(&sb, "%d ", 8-y)
		for x := 0; x < 8; x++ {
			c := "."
			if p, ok := b.PieceAt(engine.Position{X: x, Y: y}); ok {
				c = string(p.Type.Letter())
				if p.Color == engine.Black {
					c = strings.ToLower(c)
				}
			}
			sb.WriteString(c)
			if x < 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
