package twisty

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/gesture"
	"github.com/SeamusWaldron/twisty/internal/turnqueue"
	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Gesture types for wiring a renderer to NewGestureResolver.
type (
	Point           = gesture.Point
	Hit             = gesture.Hit
	HitTester       = gesture.HitTester
	Projector       = gesture.Projector
	GestureResolver = gesture.Resolver
)

// Sources recorded with each completed turn.
const (
	SourceAPI     = types.SourceAPI
	SourceGesture = types.SourceGesture
	SourceShuffle = types.SourceShuffle
	SourceRemote  = types.SourceRemote
)

// Puzzle is an N×N×N puzzle whose turns run one at a time through a queue.
type Puzzle struct {
	cfg      *config
	state    *State
	queue    *turnqueue.Queue
	tracker  *Tracker
	shuffler *cube.Shuffler
	logger   *slog.Logger

	// submitMu keeps sources aligned with the queue order.
	submitMu sync.Mutex

	mu       sync.RWMutex
	sources  []string
	moves    []Move
	onTurn   func(Move)
	onSolved func()
}

// New creates a solved puzzle.
func New(opts ...Option) (*Puzzle, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	state, err := cube.New(cfg.size, cube.WithSpacing(cfg.spacing), cube.WithPalette(cfg.palette))
	if err != nil {
		return nil, fmt.Errorf("failed to create puzzle: %w", err)
	}

	seed := cfg.seed
	if !cfg.seeded {
		if seed, err = cube.NewSeed(); err != nil {
			return nil, fmt.Errorf("failed to seed shuffler: %w", err)
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &Puzzle{
		cfg:      cfg,
		state:    state,
		tracker:  newTracker(state),
		shuffler: cube.NewShuffler(cfg.size, seed),
		logger:   logger,
	}

	var animator Animator = turnqueue.Instant(state)
	if cfg.animator != nil {
		animator = cfg.animator(state)
	}
	p.queue = turnqueue.New(state, animator,
		turnqueue.WithLogger(logger),
		turnqueue.WithCompletionHook(p.completed),
	)

	return p, nil
}

// OnTurn sets a callback that fires after each completed turn.
func (p *Puzzle) OnTurn(cb func(Move)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTurn = cb
}

// OnSolved sets a callback that fires when a turn leaves the puzzle solved
// and the previous state was not.
func (p *Puzzle) OnSolved(cb func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSolved = cb
}

// Turn queues a quarter turn of one layer.
func (p *Puzzle) Turn(axis Axis, layer int, dir Direction) error {
	return p.Submit(Move{Axis: axis, Layer: layer, Direction: dir}, SourceAPI)
}

// Enqueue queues a move from the API.
func (p *Puzzle) Enqueue(m Move) error {
	return p.Submit(m, SourceAPI)
}

// Submit queues a move tagged with where it came from.
func (p *Puzzle) Submit(m Move, source string) error {
	p.submitMu.Lock()
	defer p.submitMu.Unlock()

	p.mu.Lock()
	p.sources = append(p.sources, source)
	p.mu.Unlock()

	if err := p.queue.Enqueue(m); err != nil {
		p.mu.Lock()
		p.sources = p.sources[:len(p.sources)-1]
		p.mu.Unlock()
		return err
	}
	return nil
}

// Apply queues moves and waits for all queued turns to finish.
func (p *Puzzle) Apply(ctx context.Context, moves ...Move) error {
	for i, m := range moves {
		if err := p.Submit(m, SourceAPI); err != nil {
			return fmt.Errorf("move %d (%s): %w", i, m.Notation(), err)
		}
	}
	return p.queue.Wait(ctx)
}

// ApplyNotation parses a move sequence such as "x0 y2' z1" and applies it.
func (p *Puzzle) ApplyNotation(ctx context.Context, s string) error {
	moves, err := ParseMoves(s)
	if err != nil {
		return err
	}
	return p.Apply(ctx, moves...)
}

// Wait blocks until every queued turn has completed or ctx is done.
func (p *Puzzle) Wait(ctx context.Context) error {
	return p.queue.Wait(ctx)
}

// Pending returns the number of queued turns, including the one in flight.
func (p *Puzzle) Pending() int {
	return p.queue.Len()
}

// Err returns the most recent animator error, or nil.
func (p *Puzzle) Err() error {
	return p.queue.Err()
}

// Shuffle paints n random moves without animation and returns them.
// It fails with ErrBusy while turns are queued.
func (p *Puzzle) Shuffle(n int) ([]Move, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: shuffle count %d", ErrInvalidArgument, n)
	}
	if p.queue.Len() > 0 {
		return nil, ErrBusy
	}

	moves := p.nextShuffle(n)
	for _, m := range moves {
		if err := p.state.Paint(m); err != nil {
			return nil, fmt.Errorf("failed to paint %s: %w", m.Notation(), err)
		}
		p.record(m, SourceShuffle)
	}
	p.logger.Info("puzzle shuffled", "moves", n)
	return moves, nil
}

// ShuffleAnimated queues n random moves and returns them without waiting.
func (p *Puzzle) ShuffleAnimated(n int) ([]Move, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: shuffle count %d", ErrInvalidArgument, n)
	}
	moves := p.nextShuffle(n)
	for _, m := range moves {
		if err := p.Submit(m, SourceShuffle); err != nil {
			return nil, err
		}
	}
	return moves, nil
}

func (p *Puzzle) nextShuffle(n int) []Move {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shuffler.Moves(n)
}

// NewGestureResolver creates a drag resolver that submits to this puzzle.
// hits and proj come from the renderer.
func (p *Puzzle) NewGestureResolver(hits HitTester, proj Projector, opts ...gesture.Option) *GestureResolver {
	base := []gesture.Option{gesture.WithLogger(p.logger)}
	if p.cfg.threshold > 0 {
		base = append(base, gesture.WithThreshold(p.cfg.threshold))
	}
	return gesture.NewResolver(p.state, hits, proj, gestureSubmitter{p}, append(base, opts...)...)
}

type gestureSubmitter struct {
	p *Puzzle
}

func (g gestureSubmitter) Enqueue(m Move) error {
	return g.p.Submit(m, SourceGesture)
}

// completed runs on the queue's drain goroutine after each turn.
func (p *Puzzle) completed(m Move, err error) {
	p.mu.Lock()
	source := SourceAPI
	if len(p.sources) > 0 {
		source = p.sources[0]
		p.sources = p.sources[1:]
	}
	p.mu.Unlock()

	if err != nil {
		return
	}
	p.record(m, source)
}

// record updates history and the journal, then fires callbacks outside the
// lock.
func (p *Puzzle) record(m Move, source string) {
	p.mu.Lock()
	if p.cfg.moveHistory {
		p.moves = append(p.moves, m)
	}
	onTurn := p.onTurn
	onSolved := p.onSolved
	p.mu.Unlock()

	solved := p.tracker.observe()

	if p.cfg.journal != nil {
		if err := p.cfg.journal.Record(m, source); err != nil {
			p.logger.Error("failed to journal turn", "move", m.Notation(), "error", err)
		}
	}

	if onTurn != nil {
		onTurn(m)
	}
	if solved && onSolved != nil {
		onSolved()
	}
}

// Size returns the number of layers along each axis.
func (p *Puzzle) Size() int {
	return p.state.Size()
}

// State returns the sticker state for renderers. Do not paint on it directly
// while turns are queued.
func (p *Puzzle) State() *State {
	return p.state
}

// StickersOf returns the sticker array of the cube at slot.
func (p *Puzzle) StickersOf(slot Slot) Stickers {
	return p.state.StickersOf(slot)
}

// Net returns the six outer faces, indexed by Face.
func (p *Puzzle) Net() [6]FaceGrid {
	return p.state.Net()
}

// IsSolved reports whether every outer face shows a single color.
func (p *Puzzle) IsSolved() bool {
	return p.state.IsSolved()
}

// Turns returns the number of completed turns.
func (p *Puzzle) Turns() int {
	return p.tracker.Turns()
}

// Moves returns a copy of the completed moves. Empty when move history is
// disabled.
func (p *Puzzle) Moves() []Move {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Move, len(p.moves))
	copy(out, p.moves)
	return out
}

// ClearMoves clears the move history.
func (p *Puzzle) ClearMoves() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moves = nil
}

// String returns the face net as text.
func (p *Puzzle) String() string {
	return p.state.String()
}
