// Package gesture turns a pointer drag on the puzzle into a single layer turn.
//
// A drag starts on a cube face. The face normal fixes the locked axis; the
// turn is about one of the two remaining axes. For each of those axes the
// resolver projects a neighbour cube to the screen, and once the pointer has
// moved past the threshold the anchor whose distance changed most tells which
// axis the user is dragging along. The turn is about the other one.
package gesture

import (
	"io"
	"log/slog"
	"math"

	"github.com/westphae/quaternion"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/pkg/types"
)

// DefaultThreshold is the drag distance in pixels that must be exceeded
// before a turn is resolved.
const DefaultThreshold = 5.0

// Point is a position in screen pixels.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Hit is the result of a pointer hit test: the centre of the hit cube and the
// outward normal of the face that was hit, both in world space.
type Hit struct {
	Position quaternion.Vec3
	Normal   quaternion.Vec3
}

// HitTester finds the cube face under a screen point.
type HitTester interface {
	HitTest(p Point) (Hit, bool)
}

// Projector maps a world point to screen pixels.
type Projector interface {
	Project(v quaternion.Vec3) Point
}

// Submitter receives resolved moves.
type Submitter interface {
	Enqueue(m types.Move) error
}

// Grid maps world coordinates to layer indices.
type Grid interface {
	LayerOf(coord float64) int
	Coordinate(layer int) float64
	Spacing() float64
}

// State is the resolver's gesture state.
type State int

const (
	Idle State = iota
	Armed
	Resolving
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

type flipKey struct {
	sign   int
	locked types.Axis
	rotate types.Axis
}

// flips lists the (locked sign, locked axis, rotation axis) combinations
// whose base direction is reversed.
var flips = map[flipKey]bool{
	{+1, types.AxisX, types.AxisY}: true,
	{+1, types.AxisY, types.AxisZ}: true,
	{+1, types.AxisZ, types.AxisX}: true,
	{-1, types.AxisX, types.AxisZ}: true,
	{-1, types.AxisY, types.AxisX}: true,
	{-1, types.AxisZ, types.AxisY}: true,
}

// candidate is one of the two axes the turn may be about.
type candidate struct {
	axis    types.Axis
	wall    int
	reverse bool
	anchor  Point
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThreshold sets the drag distance that must be exceeded before a turn
// is resolved.
func WithThreshold(px float64) Option {
	return func(r *Resolver) {
		r.threshold = px
	}
}

// WithLogger sets the resolver's logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// Resolver is the drag-to-move state machine. Its handlers are not safe for
// concurrent use; call them from the host's event goroutine.
type Resolver struct {
	grid      Grid
	hits      HitTester
	proj      Projector
	submit    Submitter
	threshold float64
	logger    *slog.Logger

	state      State
	start      Point
	locked     types.Axis
	sign       int
	candidates [2]candidate
	move       types.Move
	last       *types.Move

	unsubscribe func()
}

// NewResolver creates a resolver. Resolved moves go to submit.
func NewResolver(grid Grid, hits HitTester, proj Projector, submit Submitter, opts ...Option) *Resolver {
	r := &Resolver{
		grid:      grid,
		hits:      hits,
		proj:      proj,
		submit:    submit,
		threshold: DefaultThreshold,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current gesture state.
func (r *Resolver) State() State {
	return r.state
}

// IsResolving reports whether a gesture on the puzzle is in progress. Hosts
// use it to suspend camera controls.
func (r *Resolver) IsResolving() bool {
	return r.state != Idle
}

// Resolution returns the most recently resolved move.
func (r *Resolver) Resolution() (types.Move, bool) {
	if r.last == nil {
		return types.Move{}, false
	}
	return *r.last, true
}

// PointerDown arms the resolver if p hits a cube face. It reports whether the
// gesture was captured.
func (r *Resolver) PointerDown(p Point) bool {
	r.reset()

	hit, ok := r.hits.HitTest(p)
	if !ok {
		return false
	}

	locked, sign, ok := dominantAxis(hit.Normal)
	if !ok {
		return false
	}

	var layers [3]int
	for i, axis := range types.Axes {
		layers[i] = r.grid.LayerOf(component(hit.Position, axis))
		if layers[i] < 0 {
			r.logger.Debug("hit outside the puzzle grid", "position", hit.Position)
			return false
		}
	}

	a0, a1 := cube.OtherAxes(locked)
	unlocked := [2]types.Axis{a0, a1}
	for k, axis := range unlocked {
		other := unlocked[1-k]
		idx := layers[axis.Index()]

		// Step one layer towards the centre, or outward from layer 0.
		offset := -r.grid.Spacing()
		if idx == 0 {
			offset = r.grid.Spacing()
		}
		anchor := withComponent(hit.Position, axis, r.grid.Coordinate(idx)+offset)

		r.candidates[k] = candidate{
			axis:    axis,
			wall:    idx,
			reverse: layers[other.Index()] > 0,
			anchor:  r.proj.Project(anchor),
		}
	}

	r.state = Armed
	r.start = p
	r.locked = locked
	r.sign = sign

	r.logger.Debug("gesture armed", "locked", locked.String(), "sign", sign)
	return true
}

// PointerMove resolves the turn once the drag exceeds the threshold. After
// that it has no effect until the pointer is released.
func (r *Resolver) PointerMove(p Point) {
	if r.state != Armed {
		return
	}
	if r.start.Dist(p) <= r.threshold {
		return
	}
	r.state = Resolving

	var delta, pull [2]float64
	for k, c := range r.candidates {
		delta[k] = r.start.Dist(c.anchor) - p.Dist(c.anchor)
		pull[k] = math.Abs(delta[k])
	}

	drag, rot := 1, 0
	if pull[0] > pull[1] {
		drag, rot = 0, 1
	}
	c := r.candidates[rot]

	dir := types.Forward
	if flips[flipKey{r.sign, r.locked, c.axis}] {
		dir = -dir
	}
	if delta[drag] < 0 {
		dir = -dir
	}
	if c.reverse {
		dir = -dir
	}

	r.move = types.Move{Axis: c.axis, Layer: c.wall, Direction: dir}
	m := r.move
	r.last = &m
	r.state = Resolved

	r.logger.Debug("gesture resolved", "move", m.Notation(), "pull", pull)
}

// PointerUp submits the resolved move, if any, and returns to Idle.
func (r *Resolver) PointerUp(Point) error {
	defer r.reset()

	if r.state != Resolved {
		return nil
	}
	if r.submit == nil {
		return nil
	}
	return r.submit.Enqueue(r.move)
}

// Cancel drops the current gesture without submitting.
func (r *Resolver) Cancel() {
	r.reset()
}

func (r *Resolver) reset() {
	r.state = Idle
	r.candidates = [2]candidate{}
	r.move = types.Move{}
}

// dominantAxis returns the axis of the largest normal component and its sign.
func dominantAxis(n quaternion.Vec3) (types.Axis, int, bool) {
	best, bestAbs := types.AxisX, 0.0
	for _, axis := range types.Axes {
		if v := math.Abs(component(n, axis)); v > bestAbs {
			best, bestAbs = axis, v
		}
	}
	if bestAbs == 0 {
		return 0, 0, false
	}
	if component(n, best) < 0 {
		return best, -1, true
	}
	return best, 1, true
}

func component(v quaternion.Vec3, axis types.Axis) float64 {
	switch axis {
	case types.AxisX:
		return v.X
	case types.AxisY:
		return v.Y
	default:
		return v.Z
	}
}

func withComponent(v quaternion.Vec3, axis types.Axis, c float64) quaternion.Vec3 {
	switch axis {
	case types.AxisX:
		v.X = c
	case types.AxisY:
		v.Y = c
	default:
		v.Z = c
	}
	return v
}
