package engine

import (
	"fmt"
	"strings"
)

// Replay steps through the snapshots of a stored record.
type Replay struct {
	grids  []*grid
	cursor int
	opts   []Option
}

// NewReplay parses blob and positions the replay on its first snapshot.
// opts are applied to every board the replay builds.
func NewReplay(blob string, opts ...Option) (*Replay, error) {
	grids, err := parseRecord(blob)
	if err != nil {
		return nil, err
	}
	return &Replay{grids: grids, opts: opts}, nil
}

// Len is the number of snapshots.
func (r *Replay) Len() int {
	return len(r.grids)
}

// Step is the 0-based index of the current snapshot.
func (r *Replay) Step() int {
	return r.cursor
}

// Snapshot is the current snapshot in canonical form.
func (r *Replay) Snapshot() string {
	return encodeGrid(r.grids[r.cursor])
}

// Board builds a fresh board for the current snapshot.
func (r *Replay) Board() *Board {
	return boardFromGrid(r.grids[r.cursor], r.cursor, r.opts...)
}

func (r *Replay) Previous() error {
	if r.cursor == 0 {
		return ErrFirstStep
	}
	r.cursor--
	return nil
}

func (r *Replay) Next() error {
	if r.cursor >= len(r.grids)-1 {
		return ErrLastStep
	}
	r.cursor++
	return nil
}

func (r *Replay) Restart() {
	r.cursor = 0
}

func (r *Replay) Last() {
	r.cursor = len(r.grids) - 1
}

// Jump moves to a 0-based snapshot index.
func (r *Replay) Jump(step int) error {
	if step < 0 || step >= len(r.grids) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrStepOutOfRange, step, len(r.grids)-1)
	}
	r.cursor = step
	return nil
}

// Continue turns the current snapshot into a playable board. Its record
// holds the snapshots up to and including the current one, so moves played
// from here extend the stored game.
func (r *Replay) Continue(opts ...Option) *Board {
	all := append(append([]Option{}, r.opts...), opts...)
	b := boardFromGrid(r.grids[r.cursor], r.cursor, all...)
	var sb strings.Builder
	for _, g := range r.grids[:r.cursor+1] {
		sb.WriteString(encodeGrid(g))
		sb.WriteString(SnapshotDelimiter)
	}
	b.record = sb.String()
	return b
}
