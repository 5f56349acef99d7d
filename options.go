package twisty

import (
	"log/slog"
	"time"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/scene"
	"github.com/SeamusWaldron/twisty/internal/turnqueue"
)

// Animator performs one queued turn and paints it when done.
type Animator = turnqueue.Animator

// AnimatorFunc adapts a function to Animator.
type AnimatorFunc = turnqueue.AnimatorFunc

// Frame is one step of an animated turn.
type Frame = scene.Frame

// Journal records completed turns. *storage.Journal satisfies it.
type Journal interface {
	Record(m Move, source string) error
}

// Option configures Puzzle behavior.
type Option func(*config)

type config struct {
	size        int
	spacing     float64
	palette     Palette
	threshold   float64
	seed        uint64
	seeded      bool
	moveHistory bool
	logger      *slog.Logger
	journal     Journal
	animator    func(*State) Animator
}

func defaultConfig() *config {
	return &config{
		size:        3,
		spacing:     cube.DefaultSpacing,
		palette:     cube.DefaultPalette(),
		moveHistory: true,
	}
}

// WithSize sets the number of layers along each axis.
func WithSize(n int) Option {
	return func(c *config) {
		c.size = n
	}
}

// WithSpacing sets the center-to-center distance of adjacent layers.
func WithSpacing(spacing float64) Option {
	return func(c *config) {
		c.spacing = spacing
	}
}

// WithPalette sets the solved face colors.
func WithPalette(p Palette) Option {
	return func(c *config) {
		c.palette = p
	}
}

// WithThreshold sets the drag distance in pixels that resolvers created by
// NewGestureResolver wait for.
func WithThreshold(px float64) Option {
	return func(c *config) {
		c.threshold = px
	}
}

// WithSeed makes Shuffle deterministic.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// WithMoveHistory enables or disables move history tracking.
// When enabled (default), completed moves are accessible via Moves().
// Disable this for long sessions to reduce memory usage.
func WithMoveHistory(enabled bool) Option {
	return func(c *config) {
		c.moveHistory = enabled
	}
}

// WithLogger sets the logger used by the puzzle and its queue.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithJournal records every completed turn.
func WithJournal(j Journal) Option {
	return func(c *config) {
		c.journal = j
	}
}

// WithAnimator replaces the default instant painter. fn is called once with
// the puzzle's state.
func WithAnimator(fn func(*State) Animator) Option {
	return func(c *config) {
		c.animator = fn
	}
}

// WithAnimation animates queued turns over d, calling onFrame for each frame.
func WithAnimation(d time.Duration, onFrame func(Frame)) Option {
	return WithAnimator(func(s *State) Animator {
		opts := []scene.AnimatorOption{scene.WithDuration(d)}
		if onFrame != nil {
			opts = append(opts, scene.WithFrameCallback(onFrame))
		}
		return scene.NewAnimator(s, opts...)
	})
}
