package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Illegal moves are reported as a false result from Move, never as an error.
// The errors below cover input that could not be parsed at all.
var (
	ErrMalformedMove     = errors.New("malformed move")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrMalformedRecord   = errors.New("malformed record")

	ErrFirstStep      = errors.New("already at the first step")
	ErrLastStep       = errors.New("already at the last step")
	ErrStepOutOfRange = errors.New("step out of range")
)

// SnapshotError locates a parse failure inside a snapshot. Line and Column
// are 1-based; zero means the field does not apply.
type SnapshotError struct {
	Index  int // snapshot index inside a record, -1 for a lone snapshot
	Line   int
	Column int
	Msg    string
}

func (e *SnapshotError) Error() string {
	var parts []string
	if e.Index >= 0 {
		parts = append(parts, fmt.Sprintf("snapshot %d", e.Index))
	}
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}
	if e.Column > 0 {
		parts = append(parts, fmt.Sprintf("column %d", e.Column))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: %s", ErrMalformedSnapshot, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformedSnapshot, strings.Join(parts, ", "), e.Msg)
}

func (e *SnapshotError) Unwrap() error {
	return ErrMalformedSnapshot
}
