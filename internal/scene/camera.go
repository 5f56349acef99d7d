// Package scene is a headless stand-in for a renderer: an orbit camera, a
// ray/box hit test over the puzzle's cubes and a timed turn animator.
package scene

import (
	"math"

	"github.com/westphae/quaternion"

	"github.com/SeamusWaldron/twisty/internal/gesture"
	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Camera orbits the origin. Yaw turns about the world y axis, pitch about
// the camera's x axis.
type Camera struct {
	Yaw, Pitch float64 // radians
	Distance   float64
	FOV        float64 // vertical field of view, radians
	Width      float64 // viewport, pixels
	Height     float64
}

// DefaultCamera looks at the puzzle from above the front-right corner.
func DefaultCamera(width, height float64) Camera {
	return Camera{
		Yaw:      math.Pi / 4,
		Pitch:    -math.Pi / 6,
		Distance: 20,
		FOV:      math.Pi / 4,
		Width:    width,
		Height:   height,
	}
}

// Ray is a half line in world space.
type Ray struct {
	Origin    quaternion.Vec3
	Direction quaternion.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) quaternion.Vec3 {
	return add(r.Origin, scale(r.Direction, t))
}

func (c Camera) focal() float64 {
	return 1 / math.Tan(c.FOV/2)
}

func (c Camera) aspect() float64 {
	if c.Height == 0 {
		return 1
	}
	return c.Width / c.Height
}

func (c Camera) toView(v quaternion.Vec3) quaternion.Vec3 {
	v = v.Rotate(quaternion.FromEuler(0, -c.Yaw, 0))
	v = v.Rotate(quaternion.FromEuler(-c.Pitch, 0, 0))
	v.Z -= c.Distance
	return v
}

func (c Camera) toWorld(v quaternion.Vec3) quaternion.Vec3 {
	v = v.Rotate(quaternion.FromEuler(c.Pitch, 0, 0))
	return v.Rotate(quaternion.FromEuler(0, c.Yaw, 0))
}

// Project maps a world point to viewport pixels. The y pixel axis points
// down.
func (c Camera) Project(v quaternion.Vec3) gesture.Point {
	p := c.toView(v)
	depth := -p.Z
	if depth <= 0 {
		depth = 1e-9
	}
	f := c.focal()
	ndcX := f * p.X / (c.aspect() * depth)
	ndcY := f * p.Y / depth
	return gesture.Point{
		X: (ndcX + 1) * c.Width / 2,
		Y: (-ndcY + 1) * c.Height / 2,
	}
}

// Ray returns the world ray through a viewport pixel.
func (c Camera) Ray(p gesture.Point) Ray {
	ndcX := 2*p.X/c.Width - 1
	ndcY := 1 - 2*p.Y/c.Height
	f := c.focal()

	dir := quaternion.Vec3{X: ndcX * c.aspect() / f, Y: ndcY / f, Z: -1}
	return Ray{
		Origin:    c.toWorld(quaternion.Vec3{Z: c.Distance}),
		Direction: normalize(c.toWorld(dir)),
	}
}

// Rotation returns the rotation of a wall that is progress of the way
// through move m.
func Rotation(m types.Move, progress float64) quaternion.Quaternion {
	angle := float64(m.Direction) * progress * math.Pi / 2
	switch m.Axis {
	case types.AxisX:
		return quaternion.FromEuler(angle, 0, 0)
	case types.AxisY:
		return quaternion.FromEuler(0, angle, 0)
	default:
		return quaternion.FromEuler(0, 0, angle)
	}
}

func add(a, b quaternion.Vec3) quaternion.Vec3 {
	return quaternion.Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func sub(a, b quaternion.Vec3) quaternion.Vec3 {
	return quaternion.Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func scale(a quaternion.Vec3, k float64) quaternion.Vec3 {
	return quaternion.Vec3{X: a.X * k, Y: a.Y * k, Z: a.Z * k}
}

func dot(a, b quaternion.Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func normalize(a quaternion.Vec3) quaternion.Vec3 {
	l := math.Sqrt(dot(a, a))
	if l == 0 {
		return a
	}
	return scale(a, 1/l)
}
