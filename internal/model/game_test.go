package model

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/benbeisheim/duelchess/internal/engine"
	"github.com/benbeisheim/duelchess/internal/ws"
)

type fakeConn struct {
	mu     sync.Mutex
	msgs   []ws.Message
	closed bool
	fail   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.msgs = append(c.msgs, v.(ws.Message))
	return nil
}

func (c *fakeConn) WriteMessage(int, []byte) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) types() []ws.MessageType {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []ws.MessageType
	for _, m := range c.msgs {
		out = append(out, m.Type)
	}
	return out
}

func (c *fakeConn) last() ws.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.msgs[len(c.msgs)-1]
}

const emptyRow = "****************\n"

// record builds a two snapshot record whose last snapshot has white to move.
func record(rows ...string) string {
	start := engine.EncodeSnapshot(engine.NewBoard())
	return start + engine.SnapshotDelimiter + strings.Join(rows, "\n") + "\n" + engine.SnapshotDelimiter
}

func seatedGame(t *testing.T, g *Game) (white, black *fakeConn) {
	t.Helper()
	if c, err := g.AddPlayer("w"); err != nil || c != PlayerColorWhite {
		t.Fatalf("AddPlayer(w) = %q, %v", c, err)
	}
	if c, err := g.AddPlayer("b"); err != nil || c != PlayerColorBlack {
		t.Fatalf("AddPlayer(b) = %q, %v", c, err)
	}
	white, black = &fakeConn{}, &fakeConn{}
	if err := g.RegisterConnection("w", white); err != nil {
		t.Fatal(err)
	}
	if err := g.RegisterConnection("b", black); err != nil {
		t.Fatal(err)
	}
	return white, black
}

func TestAddPlayer(t *testing.T) {
	g := NewGame("g", Options{})
	seatedGame(t, g)
	if c, err := g.AddPlayer("w"); err != nil || c != PlayerColorWhite {
		t.Errorf("rejoin = %q, %v, want white", c, err)
	}
	if _, err := g.AddPlayer("x"); !errors.Is(err, ErrGameFull) {
		t.Errorf("third player error = %v, want ErrGameFull", err)
	}
	if !g.IsPlayerInGame("b") || g.IsPlayerInGame("x") || g.IsPlayerInGame("") {
		t.Error("IsPlayerInGame mismatch")
	}
}

func TestMakeMoveBroadcasts(t *testing.T) {
	g := NewGame("g", Options{})
	white, black := seatedGame(t, g)

	out, err := g.MakeMove("w", "46+44")
	if err != nil {
		t.Fatalf("MakeMove error: %v", err)
	}
	if out.String() != "46+44" {
		t.Errorf("applied move = %s, want 46+44", out)
	}

	// white saw two registrations, black saw its own.
	wantWhite := []ws.MessageType{ws.MessageTypeGameState, ws.MessageTypeGameState, ws.MessageTypeGameState}
	if diff := cmp.Diff(wantWhite, white.types()); diff != "" {
		t.Errorf("white messages (-want +got):\n%s", diff)
	}
	wantBlack := []ws.MessageType{ws.MessageTypeGameState, ws.MessageTypeMove, ws.MessageTypeGameState}
	if diff := cmp.Diff(wantBlack, black.types()); diff != "" {
		t.Errorf("black messages (-want +got):\n%s", diff)
	}
	if wire, err := ws.DecodeMove(black.msgs[1]); err != nil || wire != "46+44" {
		t.Errorf("relayed move = %q, %v", wire, err)
	}

	state := g.GetState()
	if state.Turn != engine.Black || state.Step != 2 {
		t.Errorf("Turn, Step = %s, %d, want black, 2", state.Turn, state.Step)
	}
	if state.LastMove == nil || state.LastMove.Notation != "1.E2 - E4" {
		t.Errorf("LastMove = %+v", state.LastMove)
	}
	if p := state.Board[4][4]; p == nil || p.Type != engine.Pawn || p.Color != engine.White {
		t.Errorf("board[4][4] = %+v, want white pawn", p)
	}
	if state.Board[6][4] != nil {
		t.Error("e2 still occupied")
	}
	if n := strings.Count(g.Record(), engine.SnapshotDelimiter); n != 1 {
		t.Errorf("record holds %d snapshots, want 1", n)
	}
}

func TestMakeMoveErrors(t *testing.T) {
	g := NewGame("g", Options{})
	if _, err := g.AddPlayer("w"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.MakeMove("w", "46+44"); !errors.Is(err, ErrWaitingForOpponent) {
		t.Errorf("move before opponent joined error = %v", err)
	}
	if _, err := g.AddPlayer("b"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		player string
		wire   string
		want   error
	}{
		{"malformed", "w", "e2e4", engine.ErrMalformedMove},
		{"stranger", "x", "46+44", ErrNotInGame},
		{"out of turn", "b", "41+43", ErrNotYourTurn},
		{"opponent piece", "w", "41+43", ErrIllegalMove},
		{"empty square", "w", "44+43", ErrIllegalMove},
		{"blocked", "w", "47+45", ErrIllegalMove},
		{"too far", "w", "46+43", ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.MakeMove(tt.player, tt.wire); !errors.Is(err, tt.want) {
				t.Errorf("MakeMove(%s, %s) error = %v, want %v", tt.player, tt.wire, err, tt.want)
			}
		})
	}
	if g.GetState().Step != 1 {
		t.Error("rejected moves changed the game")
	}
}

func TestKingCaptureEndsSession(t *testing.T) {
	blob := record(
		"********KB******",
		emptyRow[:16], emptyRow[:16], emptyRow[:16], emptyRow[:16], emptyRow[:16],
		"********QW******",
		"********KW******",
	)
	g, err := NewGameFromRecord("g", blob, -1, Options{})
	if err != nil {
		t.Fatalf("NewGameFromRecord error: %v", err)
	}
	white, black := seatedGame(t, g)

	out, err := g.MakeMove("w", "46+40")
	if err != nil {
		t.Fatalf("MakeMove error: %v", err)
	}
	if out.String() != "46+40" {
		t.Errorf("applied move = %s", out)
	}
	if !g.Finished() {
		t.Fatal("session still running after king capture")
	}
	end := g.GetState().End
	if end == nil || end.Reason != EndKingCaptured || end.Winner == nil || *end.Winner != engine.White {
		t.Errorf("End = %+v, want king captured by white", end)
	}
	for name, c := range map[string]*fakeConn{"white": white, "black": black} {
		if got := c.last().Type; got != ws.MessageTypeSessionEnded {
			t.Errorf("%s last message = %s, want sessionEnded", name, got)
		}
	}
	if _, err := g.MakeMove("b", "40+41"); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after end error = %v, want ErrGameOver", err)
	}
	if g.Disconnect("b") {
		t.Error("Disconnect ended an already finished session")
	}
}

func TestPromotionDefaultsToQueen(t *testing.T) {
	blob := record(
		"**************KB",
		"PW**************",
		emptyRow[:16], emptyRow[:16], emptyRow[:16], emptyRow[:16], emptyRow[:16],
		"KW**************",
	)
	g, err := NewGameFromRecord("g", blob, 1, Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, black := seatedGame(t, g)

	out, err := g.MakeMove("w", "01+00")
	if err != nil {
		t.Fatalf("MakeMove error: %v", err)
	}
	if out.String() != "01+00q" {
		t.Errorf("applied move = %s, want 01+00q", out)
	}
	if wire, _ := ws.DecodeMove(black.msgs[1]); wire != "01+00q" {
		t.Errorf("relayed move = %q, want 01+00q", wire)
	}
	if p := g.GetState().Board[0][0]; p == nil || p.Type != engine.Queen {
		t.Errorf("a8 = %+v, want queen", p)
	}
}

func TestNewGameFromRecordErrors(t *testing.T) {
	if _, err := NewGameFromRecord("g", "", 0, Options{}); !errors.Is(err, engine.ErrMalformedRecord) {
		t.Errorf("empty record error = %v", err)
	}
	blob := engine.EncodeSnapshot(engine.NewBoard()) + engine.SnapshotDelimiter
	if _, err := NewGameFromRecord("g", blob, 4, Options{}); !errors.Is(err, engine.ErrStepOutOfRange) {
		t.Errorf("step out of range error = %v", err)
	}
}

func TestClockTimeout(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	g := NewGame("g", Options{ClockBudget: time.Minute})
	for _, c := range g.clocks {
		c.now = ft.now
	}
	_, black := seatedGame(t, g)

	if g.CheckClock() {
		t.Fatal("CheckClock ended a fresh game")
	}
	ft.advance(30 * time.Second)
	if _, err := g.MakeMove("w", "46+44"); err != nil {
		t.Fatal(err)
	}
	state := g.GetState()
	if state.Players.White.TimeLeft != 300 || state.Players.Black.TimeLeft != 600 {
		t.Errorf("time left = %d/%d, want 300/600", state.Players.White.TimeLeft, state.Players.Black.TimeLeft)
	}

	ft.advance(2 * time.Minute)
	if !g.CheckClock() {
		t.Fatal("CheckClock did not end an expired game")
	}
	end := g.GetState().End
	if end.Reason != EndTimeout || *end.Winner != engine.White {
		t.Errorf("End = %+v, want timeout won by white", end)
	}
	if black.last().Type != ws.MessageTypeSessionEnded {
		t.Error("black was not told the session ended")
	}
	if g.CheckClock() {
		t.Error("CheckClock ended the session twice")
	}
}

func TestDisconnect(t *testing.T) {
	g := NewGame("g", Options{})
	white, black := seatedGame(t, g)

	dup := &fakeConn{}
	if err := g.RegisterConnection("w", dup); err != nil {
		t.Fatal(err)
	}
	if !dup.closed {
		t.Error("duplicate connection left open")
	}
	if g.UnregisterConnection("w", dup) {
		t.Error("unregistering the duplicate reported the player gone")
	}
	if err := g.RegisterConnection("x", &fakeConn{}); !errors.Is(err, ErrNotInGame) {
		t.Errorf("stranger connection error = %v", err)
	}

	if !g.UnregisterConnection("w", white) {
		t.Fatal("UnregisterConnection(white) = false")
	}
	if !g.Disconnect("w") {
		t.Fatal("Disconnect(w) = false")
	}
	end := g.GetState().End
	if end.Reason != EndDisconnect || *end.Winner != engine.Black {
		t.Errorf("End = %+v, want disconnect won by black", end)
	}
	if black.last().Type != ws.MessageTypeSessionEnded {
		t.Error("black was not told the session ended")
	}

	g.CloseConnections()
	if !black.closed {
		t.Error("CloseConnections left black open")
	}
}

func TestBroadcastDropsBrokenConnections(t *testing.T) {
	g := NewGame("g", Options{})
	white, _ := seatedGame(t, g)
	white.fail = true
	if _, err := g.MakeMove("w", "46+44"); err != nil {
		t.Fatal(err)
	}
	if !g.UnregisterConnection("w", white) {
		t.Error("broken connection still registered")
	}
}

func TestLegalMoves(t *testing.T) {
	g := NewGame("g", Options{})
	got := g.LegalMoves(engine.Position{X: 6, Y: 7})
	want := []engine.Position{{X: 5, Y: 5}, {X: 7, Y: 5}}
	byRow := cmpopts.SortSlices(func(a, b engine.Position) bool {
		return a.Y < b.Y || a.Y == b.Y && a.X < b.X
	})
	if diff := cmp.Diff(want, got, byRow); diff != "" {
		t.Errorf("knight moves (-want +got):\n%s", diff)
	}
	if moves := g.LegalMoves(engine.Position{X: 4, Y: 4}); moves == nil || len(moves) != 0 {
		t.Errorf("empty square moves = %v, want empty slice", moves)
	}
}

func TestFEN(t *testing.T) {
	g := NewGame("g", Options{})
	if got := g.FEN(); !strings.HasPrefix(got, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w") {
		t.Errorf("FEN = %q", got)
	}
}
