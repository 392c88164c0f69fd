package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const startSnapshot = "RBNBBBQBKBBBNBRB\n" +
	"PBPBPBPBPBPBPBPB\n" +
	"****************\n" +
	"****************\n" +
	"****************\n" +
	"****************\n" +
	"PWPWPWPWPWPWPWPW\n" +
	"RWNWBWQWKWBWNWRW\n"

func TestEncodeStartingSnapshot(t *testing.T) {
	if diff := cmp.Diff(startSnapshot, EncodeSnapshot(NewBoard())); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := NewBoard()
	mustMove(t, b, "e2", "e4")
	mustMove(t, b, "d7", "d5")
	mustMove(t, b, "e4", "d5")
	mustMove(t, b, "g8", "f6")

	pieces, err := DecodeSnapshot(b.Snapshot())
	if err != nil {
		t.Fatalf("DecodeSnapshot error: %v", err)
	}
	ignoreMoved := cmpopts.IgnoreFields(Piece{}, "HasMoved")
	if diff := cmp.Diff(b.AllPieces(), pieces, ignoreMoved); diff != "" {
		t.Errorf("round trip mismatch (-board +decoded):\n%s", diff)
	}

	rebuilt, err := NewBoardFromSnapshot(b.Snapshot(), 3)
	if err != nil {
		t.Fatalf("NewBoardFromSnapshot error: %v", err)
	}
	if diff := cmp.Diff(b.AllPieces(), rebuilt.AllPieces(), ignoreMoved); diff != "" {
		t.Errorf("rebuilt board mismatch (-board +rebuilt):\n%s", diff)
	}
}

func TestNewBoardFromSnapshotTurnParity(t *testing.T) {
	tests := []struct {
		step int
		turn Color
	}{
		{0, Black},
		{1, White},
		{2, Black},
		{7, White},
	}
	for _, tt := range tests {
		b, err := NewBoardFromSnapshot(startSnapshot, tt.step)
		if err != nil {
			t.Fatalf("NewBoardFromSnapshot error: %v", err)
		}
		if b.Turn() != tt.turn {
			t.Errorf("step %d: Turn() = %s, want %s", tt.step, b.Turn(), tt.turn)
		}
		if got := b.State().Step; got != tt.step+1 {
			t.Errorf("step %d: State().Step = %d, want %d", tt.step, got, tt.step+1)
		}
		if b.Record() != "" {
			t.Errorf("step %d: rebuilt board has a record", tt.step)
		}
	}
}

func TestDecodeSnapshotErrors(t *testing.T) {
	lines := strings.Split(strings.TrimSuffix(startSnapshot, "\n"), "\n")
	replaceLine := func(i int, s string) string {
		cp := append([]string{}, lines...)
		cp[i] = s
		return strings.Join(cp, "\n")
	}
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{"seven lines", strings.Join(lines[:7], "\n"), 0, 0},
		{"short line", replaceLine(2, "**************"), 3, 0},
		{"unknown piece", replaceLine(4, "****XW**********"), 5, 5},
		{"unknown color", replaceLine(6, "PWPWPWPWPWPWPWPG"), 7, 16},
		{"empty", "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeSnapshot(tt.input)
			if !errors.Is(err, ErrMalformedSnapshot) {
				t.Fatalf("DecodeSnapshot error = %v, want ErrMalformedSnapshot", err)
			}
			var se *SnapshotError
			if !errors.As(err, &se) {
				t.Fatalf("DecodeSnapshot error %T is not a *SnapshotError", err)
			}
			if se.Line != tt.line || se.Column != tt.column {
				t.Errorf("error at line %d column %d, want line %d column %d", se.Line, se.Column, tt.line, tt.column)
			}
		})
	}
}

func TestDecodeSnapshotAcceptsCRLF(t *testing.T) {
	crlf := strings.ReplaceAll(startSnapshot, "\n", "\r\n")
	pieces, err := DecodeSnapshot(crlf)
	if err != nil {
		t.Fatalf("DecodeSnapshot(crlf) error: %v", err)
	}
	if len(pieces) != 32 {
		t.Errorf("decoded %d pieces, want 32", len(pieces))
	}
}

func TestParseRecord(t *testing.T) {
	b := NewBoard()
	mustMove(t, b, "e2", "e4")
	mustMove(t, b, "e7", "e5")
	mustMove(t, b, "g1", "f3")

	snapshots, err := ParseRecord(b.Record())
	if err != nil {
		t.Fatalf("ParseRecord error: %v", err)
	}
	if len(snapshots) != 3 {
		t.Fatalf("ParseRecord returned %d snapshots, want 3", len(snapshots))
	}
	if snapshots[2] != b.Snapshot() {
		t.Errorf("last snapshot = %q, want %q", snapshots[2], b.Snapshot())
	}
	if got := strings.Join(snapshots, SnapshotDelimiter) + SnapshotDelimiter; got != b.Record() {
		t.Error("rejoined snapshots differ from the record")
	}
}

func TestParseRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"empty", ""},
		{"only delimiter", "#"},
		{"truncated snapshot", startSnapshot + "#RBNB\n#"},
		{"empty middle segment", startSnapshot + "##" + startSnapshot + "#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseRecord(tt.blob); !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("ParseRecord error = %v, want ErrMalformedRecord", err)
			}
		})
	}
}
