package scene

import (
	"math"

	"github.com/westphae/quaternion"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/gesture"
	"github.com/SeamusWaldron/twisty/pkg/types"
)

// gapRatio is the spacing between cube centres relative to a cube's edge.
const gapRatio = 1.05

// HitTester casts camera rays against the puzzle's cubes.
type HitTester struct {
	camera Camera
	state  *cube.State
}

// NewHitTester creates a hit tester for state viewed through camera.
func NewHitTester(camera Camera, state *cube.State) *HitTester {
	return &HitTester{camera: camera, state: state}
}

// HitTest returns the nearest cube face under p.
func (h *HitTester) HitTest(p gesture.Point) (gesture.Hit, bool) {
	return h.Cast(h.camera.Ray(p))
}

// Cast returns the first cube face the ray enters.
func (h *HitTester) Cast(r Ray) (gesture.Hit, bool) {
	half := h.state.Spacing() / gapRatio / 2

	var (
		best  gesture.Hit
		bestT = math.Inf(1)
		found bool
	)
	for _, slot := range h.state.Slots() {
		centre := h.state.Position(slot)
		t, normal, ok := slab(r, centre, half)
		if !ok || t >= bestT {
			continue
		}
		bestT, found = t, true
		best = gesture.Hit{Position: centre, Normal: normal}
	}
	return best, found
}

// slab intersects r with the axis-aligned box of half extent half around
// centre. It returns the entry distance and the outward normal of the
// entered face.
func slab(r Ray, centre quaternion.Vec3, half float64) (float64, quaternion.Vec3, bool) {
	tNear, tFar := math.Inf(-1), math.Inf(1)
	var normal quaternion.Vec3

	for _, axis := range types.Axes {
		o := comp(r.Origin, axis) - comp(centre, axis)
		d := comp(r.Direction, axis)

		if d == 0 {
			if o < -half || o > half {
				return 0, normal, false
			}
			continue
		}

		t1, t2 := (-half-o)/d, (half-o)/d
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tNear {
			tNear = t1
			normal = setComp(quaternion.Vec3{}, axis, sign)
		}
		tFar = math.Min(tFar, t2)
		if tNear > tFar || tFar < 0 {
			return 0, normal, false
		}
	}
	if tNear < 0 {
		return 0, normal, false
	}
	return tNear, normal, true
}

func comp(v quaternion.Vec3, axis types.Axis) float64 {
	switch axis {
	case types.AxisX:
		return v.X
	case types.AxisY:
		return v.Y
	default:
		return v.Z
	}
}

func setComp(v quaternion.Vec3, axis types.Axis, c float64) quaternion.Vec3 {
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
