package twisty

import (
	"sync"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// Tracker watches a puzzle state and reports transitions into the solved
// state. A move that leaves a solved puzzle solved does not fire again.
type Tracker struct {
	mu       sync.Mutex
	state    *State
	turns    int
	solved   bool
	callback func()
}

// NewTracker creates a tracker with its own solved puzzle of the given size.
func NewTracker(size int) (*Tracker, error) {
	s, err := cube.New(size)
	if err != nil {
		return nil, err
	}
	return newTracker(s), nil
}

func newTracker(s *State) *Tracker {
	return &Tracker{state: s, solved: s.IsSolved()}
}

// SetSolvedCallback sets a callback that fires when the puzzle becomes solved.
func (t *Tracker) SetSolvedCallback(cb func()) {
	t.mu.Lock()
	t.callback = cb
	t.mu.Unlock()
}

// Reset returns the tracker to a solved puzzle of the same size.
func (t *Tracker) Reset() error {
	s, err := cube.New(t.state.Size(), cube.WithSpacing(t.state.Spacing()), cube.WithPalette(t.state.Palette()))
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.state = s
	t.turns = 0
	t.solved = true
	t.mu.Unlock()
	return nil
}

// ApplyMove paints a move and checks for a transition into solved.
func (t *Tracker) ApplyMove(m Move) error {
	if err := t.State().Paint(m); err != nil {
		return err
	}
	t.observe()
	return nil
}

// ApplyMoves paints several moves, stopping at the first error.
func (t *Tracker) ApplyMoves(moves ...Move) error {
	for _, m := range moves {
		if err := t.ApplyMove(m); err != nil {
			return err
		}
	}
	return nil
}

// observe counts a move already painted on the state and fires the callback
// on a transition into solved.
func (t *Tracker) observe() bool {
	solved := t.State().IsSolved()

	t.mu.Lock()
	t.turns++
	fire := solved && !t.solved
	t.solved = solved
	cb := t.callback
	t.mu.Unlock()

	if fire && cb != nil {
		cb()
	}
	return fire
}

// State returns the tracked puzzle state.
func (t *Tracker) State() *State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Turns returns the number of moves observed since creation or Reset.
func (t *Tracker) Turns() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.turns
}

// IsSolved reports whether the last observed state was solved.
func (t *Tracker) IsSolved() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.solved
}

// String returns the face net of the tracked puzzle.
func (t *Tracker) String() string {
	return t.State().String()
}
