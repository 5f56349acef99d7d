package scene

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/westphae/quaternion"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Frame is one animation step of a wall turn.
type Frame struct {
	Move     types.Move
	Progress float64 // eased, 0 to 1
	Rotation quaternion.Quaternion
	Slots    []cube.Slot
}

// Ease maps linear time t in [0,1] to eased progress.
func Ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u
}

// AnimatorOption configures an Animator.
type AnimatorOption func(*Animator)

// WithDuration sets how long one quarter turn takes.
func WithDuration(d time.Duration) AnimatorOption {
	return func(a *Animator) {
		a.duration = d
	}
}

// WithFrameInterval sets the time between frames.
func WithFrameInterval(d time.Duration) AnimatorOption {
	return func(a *Animator) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithFrameCallback registers a function called for every frame.
func WithFrameCallback(fn func(Frame)) AnimatorOption {
	return func(a *Animator) {
		a.onFrame = fn
	}
}

// WithAnimatorLogger sets the animator's logger.
func WithAnimatorLogger(l *slog.Logger) AnimatorOption {
	return func(a *Animator) {
		if l != nil {
			a.logger = l
		}
	}
}

// Animator rotates a wall over time and paints the move when the rotation
// ends.
type Animator struct {
	state    *cube.State
	duration time.Duration
	interval time.Duration
	onFrame  func(Frame)
	logger   *slog.Logger
}

// NewAnimator creates an animator for state.
func NewAnimator(state *cube.State, opts ...AnimatorOption) *Animator {
	a := &Animator{
		state:    state,
		duration: 250 * time.Millisecond,
		interval: time.Second / 60,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnimateTurn groups the move's wall, emits eased frames for the configured
// duration, then paints the move and returns the wall to the body. A
// cancelled context skips the remaining frames; the move is still painted.
func (a *Animator) AnimateTurn(ctx context.Context, m types.Move) error {
	if err := a.state.Validate(m); err != nil {
		return err
	}

	w, err := a.state.Group(m.Axis, m.Layer)
	if err != nil {
		return err
	}
	defer a.state.Ungroup(w)

	slots := w.Slots()
	a.frame(m, 0, slots)

	if a.duration > 0 {
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		start := time.Now()

	loop:
		for {
			select {
			case <-ctx.Done():
				a.logger.Debug("animation interrupted", "move", m.Notation())
				break loop
			case now := <-ticker.C:
				t := float64(now.Sub(start)) / float64(a.duration)
				if t >= 1 {
					break loop
				}
				a.frame(m, Ease(t), slots)
			}
		}
	}

	a.frame(m, 1, slots)
	return a.state.PaintWall(w, m.Direction)
}

func (a *Animator) frame(m types.Move, progress float64, slots []cube.Slot) {
	if a.onFrame == nil {
		return
	}
	a.onFrame(Frame{
		Move:     m,
		Progress: progress,
		Rotation: Rotation(m, progress),
		Slots:    slots,
	})
}
