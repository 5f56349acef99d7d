// Package turnqueue serializes layer turns so that at most one is in flight.
package turnqueue

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Animator performs one turn: the visual rotation followed by the sticker
// update. AnimateTurn returns once the turn is complete.
type Animator interface {
	AnimateTurn(ctx context.Context, m types.Move) error
}

// AnimatorFunc adapts a function to the Animator interface.
type AnimatorFunc func(ctx context.Context, m types.Move) error

// AnimateTurn calls f(ctx, m).
func (f AnimatorFunc) AnimateTurn(ctx context.Context, m types.Move) error {
	return f(ctx, m)
}

// Painter applies a move to the puzzle state without animation.
type Painter interface {
	Paint(m types.Move) error
}

// Instant returns an Animator that paints each move immediately.
func Instant(p Painter) Animator {
	return AnimatorFunc(func(_ context.Context, m types.Move) error {
		return p.Paint(m)
	})
}

// Validator rejects moves that do not fit the puzzle.
type Validator interface {
	Validate(m types.Move) error
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the queue's logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// WithCompletionHook registers a function called from the drain goroutine
// after each move finishes, with the animator's error if any.
func WithCompletionHook(fn func(m types.Move, err error)) Option {
	return func(q *Queue) {
		q.onDone = fn
	}
}

// Queue is a FIFO of pending moves drained by a single goroutine.
type Queue struct {
	validator Validator
	animator  Animator
	logger    *slog.Logger
	onDone    func(types.Move, error)

	mu      sync.Mutex
	pending []types.Move
	running bool
	idle    chan struct{} // closed whenever no drain is active
	err     error
}

// New creates a queue that validates moves with v and runs them through a.
func New(v Validator, a Animator, opts ...Option) *Queue {
	idle := make(chan struct{})
	close(idle)

	q := &Queue{
		validator: v,
		animator:  a,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		idle:      idle,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends a move to the tail and starts the drain loop if it is idle.
// Invalid moves are rejected before they reach the queue.
func (q *Queue) Enqueue(m types.Move) error {
	if q.validator != nil {
		if err := q.validator.Validate(m); err != nil {
			return err
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, m)
	q.logger.Debug("turn enqueued", "move", m.Notation(), "pending", len(q.pending))

	if !q.running {
		q.running = true
		q.idle = make(chan struct{})
		go q.drain(q.idle)
	}
	return nil
}

// EnqueueAll appends several moves in order, stopping at the first invalid one.
func (q *Queue) EnqueueAll(moves ...types.Move) error {
	for _, m := range moves {
		if err := q.Enqueue(m); err != nil {
			return err
		}
	}
	return nil
}

// drain runs until the queue is empty. The head stays in pending while it is
// animated so Len counts the in-flight move.
func (q *Queue) drain(idle chan struct{}) {
	ctx := context.Background()

	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			close(idle)
			q.mu.Unlock()
			return
		}
		m := q.pending[0]
		q.mu.Unlock()

		err := q.animator.AnimateTurn(ctx, m)

		q.mu.Lock()
		q.pending = q.pending[1:]
		if err != nil {
			q.err = err
		}
		q.mu.Unlock()

		if err != nil {
			q.logger.Error("turn failed", "move", m.Notation(), "error", err)
		} else {
			q.logger.Debug("turn complete", "move", m.Notation())
		}
		if q.onDone != nil {
			q.onDone(m, err)
		}
	}
}

// Wait blocks until every move queued so far has completed or ctx is done.
func (q *Queue) Wait(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of moves not yet completed, including the one in
// flight.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Running reports whether a drain loop is active.
func (q *Queue) Running() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Err returns the most recent animator error, or nil.
func (q *Queue) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}
