package twisty

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type memJournal struct {
	mu      sync.Mutex
	moves   []Move
	sources []string
}

func (j *memJournal) Record(m Move, source string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.moves = append(j.moves, m)
	j.sources = append(j.sources, source)
	return nil
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewPuzzleIsSolved(t *testing.T) {
	p, err := New(WithSize(4))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Size() != 4 {
		t.Errorf("Size() = %d, want 4", p.Size())
	}
	if !p.IsSolved() {
		t.Error("new puzzle should be solved")
	}
}

func TestNewPuzzleRejectsBadSize(t *testing.T) {
	if _, err := New(WithSize(0)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("New(size 0) error = %v, want ErrInvalidArgument", err)
	}
}

func TestApplyAndUndo(t *testing.T) {
	p, _ := New(WithSize(3))
	ctx := waitCtx(t)

	if err := p.ApplyNotation(ctx, "x0 y2' z1 x2"); err != nil {
		t.Fatalf("ApplyNotation() error = %v", err)
	}
	if p.IsSolved() {
		t.Fatal("puzzle should be scrambled")
	}
	if got := FormatMoves(p.Moves()); got != "x0 y2' z1 x2" {
		t.Errorf("Moves() = %q", got)
	}

	if err := p.Apply(ctx, Invert(p.Moves())...); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !p.IsSolved() {
		t.Error("applying the inverse should solve the puzzle")
	}
	if p.Turns() != 8 {
		t.Errorf("Turns() = %d, want 8", p.Turns())
	}
}

func TestTurnRejectsInvalidLayer(t *testing.T) {
	p, _ := New(WithSize(3))
	if err := p.Turn(AxisX, 3, Forward); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Turn(x3) error = %v, want ErrInvalidArgument", err)
	}
	if p.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", p.Pending())
	}
}

func TestOnTurnAndOnSolved(t *testing.T) {
	p, _ := New(WithSize(2))
	ctx := waitCtx(t)

	var mu sync.Mutex
	var turns []Move
	solved := 0
	p.OnTurn(func(m Move) {
		mu.Lock()
		turns = append(turns, m)
		mu.Unlock()
	})
	p.OnSolved(func() {
		mu.Lock()
		solved++
		mu.Unlock()
	})

	// Four identical quarter turns return to solved once.
	if err := p.Apply(ctx, X(0), X(0), X(0), X(0)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(turns) != 4 {
		t.Errorf("OnTurn fired %d times, want 4", len(turns))
	}
	if solved != 1 {
		t.Errorf("OnSolved fired %d times, want 1", solved)
	}
}

func TestJournalSources(t *testing.T) {
	j := &memJournal{}
	p, _ := New(WithSize(3), WithJournal(j), WithSeed(7))
	ctx := waitCtx(t)

	if err := p.Apply(ctx, Z(1)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := p.Shuffle(2); err != nil {
		t.Fatalf("Shuffle() error = %v", err)
	}
	if _, err := p.ShuffleAnimated(1); err != nil {
		t.Fatalf("ShuffleAnimated() error = %v", err)
	}
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	want := []string{SourceAPI, SourceShuffle, SourceShuffle, SourceShuffle}
	if len(j.sources) != len(want) {
		t.Fatalf("journal has %d turns, want %d", len(j.sources), len(want))
	}
	for i, s := range want {
		if j.sources[i] != s {
			t.Errorf("source[%d] = %q, want %q", i, j.sources[i], s)
		}
	}
}

func TestShuffleIsDeterministic(t *testing.T) {
	a, _ := New(WithSize(4), WithSeed(99))
	b, _ := New(WithSize(4), WithSeed(99))

	ma, err := a.Shuffle(25)
	if err != nil {
		t.Fatalf("Shuffle() error = %v", err)
	}
	mb, _ := b.Shuffle(25)
	if FormatMoves(ma) != FormatMoves(mb) {
		t.Error("same seed should give the same shuffle")
	}
	if a.String() != b.String() {
		t.Error("same shuffle should give the same state")
	}
}

func TestShuffleBusy(t *testing.T) {
	release := make(chan struct{})
	p, _ := New(WithSize(3), WithAnimator(func(s *State) Animator {
		return AnimatorFunc(func(ctx context.Context, m Move) error {
			<-release
			return s.Paint(m)
		})
	}))

	if err := p.Turn(AxisY, 0, Backward); err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if _, err := p.Shuffle(3); !errors.Is(err, ErrBusy) {
		t.Errorf("Shuffle() while busy error = %v, want ErrBusy", err)
	}
	close(release)
	if err := p.Wait(waitCtx(t)); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if _, err := p.Shuffle(3); err != nil {
		t.Errorf("Shuffle() after Wait error = %v", err)
	}
}

func TestShuffleRejectsNegative(t *testing.T) {
	p, _ := New()
	if _, err := p.Shuffle(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Shuffle(-1) error = %v", err)
	}
}

func TestWithMoveHistoryDisabled(t *testing.T) {
	p, _ := New(WithMoveHistory(false))
	if err := p.Apply(waitCtx(t), X(1)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(p.Moves()) != 0 {
		t.Errorf("Moves() = %v, want empty", p.Moves())
	}
	if p.Turns() != 1 {
		t.Errorf("Turns() = %d, want 1", p.Turns())
	}
}

func TestWithAnimationPaints(t *testing.T) {
	var mu sync.Mutex
	frames := 0
	p, _ := New(WithSize(3), WithAnimation(20*time.Millisecond, func(Frame) {
		mu.Lock()
		frames++
		mu.Unlock()
	}))

	if err := p.Apply(waitCtx(t), Y(1)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if p.IsSolved() {
		t.Error("animated turn should be painted")
	}
	mu.Lock()
	defer mu.Unlock()
	if frames < 2 {
		t.Errorf("got %d frames, want at least 2", frames)
	}
}

func TestTracker(t *testing.T) {
	tr, err := NewTracker(3)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	fired := 0
	tr.SetSolvedCallback(func() { fired++ })

	if err := tr.ApplyMoves(X(0), Y(1), Y(1).Inverse()); err != nil {
		t.Fatalf("ApplyMoves() error = %v", err)
	}
	if tr.IsSolved() {
		t.Error("tracker should not be solved")
	}
	if err := tr.ApplyMove(X(0).Inverse()); err != nil {
		t.Fatalf("ApplyMove() error = %v", err)
	}
	if !tr.IsSolved() || fired != 1 {
		t.Errorf("IsSolved() = %v, fired = %d; want true, 1", tr.IsSolved(), fired)
	}
	if tr.Turns() != 4 {
		t.Errorf("Turns() = %d, want 4", tr.Turns())
	}

	if err := tr.ApplyMove(Move{Axis: AxisZ, Layer: 5, Direction: Forward}); err == nil {
		t.Error("invalid move should fail")
	}

	_ = tr.ApplyMove(Z(2))
	if err := tr.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if !tr.IsSolved() || tr.Turns() != 0 {
		t.Error("Reset() should restore a solved puzzle")
	}
}

func TestInvert(t *testing.T) {
	moves, _ := ParseMoves("x0 y1' z2")
	if got := FormatMoves(Invert(moves)); got != "z2' y1 x0'" {
		t.Errorf("Invert() = %q", got)
	}
}
