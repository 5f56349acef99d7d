// Package cube provides an N×N×N twisty puzzle model: the arena of small
// cubes with their stickers, layer lookup, and the quarter-turn engine.
package cube

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/westphae/quaternion"

	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Color is an opaque RGB sticker color.
type Color int32

// None marks a face without a sticker (interior, never visible).
const None Color = -1

// Standard sticker colors.
const (
	White  Color = 0xffffff
	Green  Color = 0x009b48
	Orange Color = 0xff5900
	Red    Color = 0xcc0000
	Blue   Color = 0x0045ad
	Yellow Color = 0xffd500
)

func (c Color) String() string {
	switch c {
	case None:
		return "."
	case White:
		return "W"
	case Green:
		return "G"
	case Orange:
		return "O"
	case Red:
		return "R"
	case Blue:
		return "B"
	case Yellow:
		return "Y"
	default:
		return "?"
	}
}

// Hex returns the color as #rrggbb, or an empty string for None.
func (c Color) Hex() string {
	if c == None {
		return ""
	}
	return fmt.Sprintf("#%06x", int32(c)&0xffffff)
}

// ParseColor parses a #rrggbb or rrggbb hex color.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return None, fmt.Errorf("%w: color %q", types.ErrInvalidArgument, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return None, fmt.Errorf("%w: color %q", types.ErrInvalidArgument, s)
	}
	return Color(v), nil
}

// Face identifies one of the six sticker slots of a small cube.
// Each slot is bound to an outward world normal.
type Face int

const (
	Front  Face = 0 // +x
	Back   Face = 1 // -x
	Bottom Face = 2 // +y
	Top    Face = 3 // -y
	Left   Face = 4 // +z
	Right  Face = 5 // -z
)

// Faces lists the sticker slots in array order.
var Faces = [6]Face{Front, Back, Bottom, Top, Left, Right}

func (f Face) String() string {
	switch f {
	case Front:
		return "front"
	case Back:
		return "back"
	case Bottom:
		return "bottom"
	case Top:
		return "top"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "?"
	}
}

// Normal returns the axis and sign (+1 or -1) of the face's outward normal.
func (f Face) Normal() (types.Axis, int) {
	sign := 1
	if f%2 == 1 {
		sign = -1
	}
	return types.Axes[int(f)/2], sign
}

// FaceFor returns the sticker slot whose outward normal is sign along axis.
func FaceFor(axis types.Axis, sign int) Face {
	f := Face(axis.Index() * 2)
	if sign < 0 {
		f++
	}
	return f
}

// Stickers is the sticker array of one small cube, indexed by Face.
type Stickers [6]Color

// Palette assigns the solved color of each face.
type Palette [6]Color

// DefaultPalette returns the standard color scheme.
func DefaultPalette() Palette {
	return Palette{White, Green, Orange, Red, Blue, Yellow}
}

// Slot is the layer index of a small cube along x, y and z.
type Slot struct {
	X, Y, Z int
}

// Get returns the slot's layer index along axis.
func (s Slot) Get(axis types.Axis) int {
	switch axis {
	case types.AxisX:
		return s.X
	case types.AxisY:
		return s.Y
	default:
		return s.Z
	}
}

// With returns a copy of s with the layer index along axis replaced.
func (s Slot) With(axis types.Axis, layer int) Slot {
	switch axis {
	case types.AxisX:
		s.X = layer
	case types.AxisY:
		s.Y = layer
	default:
		s.Z = layer
	}
	return s
}

func (s Slot) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.X, s.Y, s.Z)
}

// SmallCube is one of the N³ cubes of the puzzle.
type SmallCube struct {
	Slot     Slot
	Stickers Stickers

	grouped bool
}

// State is the single source of truth for sticker colors.
// The set of slots is fixed at construction; only sticker arrays change.
type State struct {
	mu      sync.RWMutex
	size    int
	spacing float64
	coords  []float64
	palette Palette

	// cubes is dense in canonical order: x, then y, then z.
	cubes   []*SmallCube
	grouped int
}

// Option configures a State.
type Option func(*State)

// WithSpacing sets the distance between the centers of adjacent layers.
func WithSpacing(spacing float64) Option {
	return func(s *State) {
		s.spacing = spacing
	}
}

// WithPalette sets the solved face colors.
func WithPalette(p Palette) Option {
	return func(s *State) {
		s.palette = p
	}
}

// DefaultSpacing is a cube edge of 2 plus a 0.1 gap.
const DefaultSpacing = 2.1

// New creates a solved puzzle of the given size.
func New(size int, opts ...Option) (*State, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: size %d", types.ErrInvalidArgument, size)
	}

	s := &State{
		size:    size,
		spacing: DefaultSpacing,
		palette: DefaultPalette(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.spacing <= 0 {
		return nil, fmt.Errorf("%w: spacing %v", types.ErrInvalidArgument, s.spacing)
	}

	s.coords = GeneratePositions(size, s.spacing)
	s.cubes = make([]*SmallCube, 0, size*size*size)

	last := size - 1
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			for z := 0; z < size; z++ {
				c := &SmallCube{Slot: Slot{X: x, Y: y, Z: z}}
				for i := range c.Stickers {
					c.Stickers[i] = None
				}
				if x == last {
					c.Stickers[Front] = s.palette[Front]
				}
				if x == 0 {
					c.Stickers[Back] = s.palette[Back]
				}
				if y == last {
					c.Stickers[Bottom] = s.palette[Bottom]
				}
				if y == 0 {
					c.Stickers[Top] = s.palette[Top]
				}
				if z == last {
					c.Stickers[Left] = s.palette[Left]
				}
				if z == 0 {
					c.Stickers[Right] = s.palette[Right]
				}
				s.cubes = append(s.cubes, c)
			}
		}
	}

	return s, nil
}

// GeneratePositions returns the coordinate of each layer, symmetric about
// zero and spacing apart, in increasing order.
func GeneratePositions(size int, spacing float64) []float64 {
	positions := make([]float64, size)
	for i := range positions {
		positions[i] = (float64(i) - float64(size-1)/2) * spacing
	}
	return positions
}

// Size returns N.
func (s *State) Size() int {
	return s.size
}

// Spacing returns the distance between adjacent layer centers.
func (s *State) Spacing() float64 {
	return s.spacing
}

// Palette returns the solved face colors.
func (s *State) Palette() Palette {
	return s.palette
}

// Coordinates returns a copy of the layer coordinate list.
func (s *State) Coordinates() []float64 {
	out := make([]float64, len(s.coords))
	copy(out, s.coords)
	return out
}

// Coordinate returns the world coordinate of a layer index.
func (s *State) Coordinate(layer int) float64 {
	return s.coords[layer]
}

// LayerOf maps a world coordinate back to its layer index, or -1.
func (s *State) LayerOf(coord float64) int {
	eps := s.spacing * 1e-6
	for i, c := range s.coords {
		if math.Abs(c-coord) <= eps {
			return i
		}
	}
	return -1
}

// Position returns the world position of a slot's center.
func (s *State) Position(slot Slot) quaternion.Vec3 {
	return quaternion.Vec3{
		X: s.coords[slot.X],
		Y: s.coords[slot.Y],
		Z: s.coords[slot.Z],
	}
}

// SlotAt maps a world position to the slot centered there.
func (s *State) SlotAt(p quaternion.Vec3) (Slot, bool) {
	x, y, z := s.LayerOf(p.X), s.LayerOf(p.Y), s.LayerOf(p.Z)
	if x < 0 || y < 0 || z < 0 {
		return Slot{}, false
	}
	return Slot{X: x, Y: y, Z: z}, true
}

// Contains reports whether the slot lies inside the puzzle.
func (s *State) Contains(slot Slot) bool {
	return slot.X >= 0 && slot.X < s.size &&
		slot.Y >= 0 && slot.Y < s.size &&
		slot.Z >= 0 && slot.Z < s.size
}

func (s *State) index(slot Slot) int {
	return (slot.X*s.size+slot.Y)*s.size + slot.Z
}

// Total returns N³.
func (s *State) Total() int {
	return len(s.cubes)
}

// Len returns the number of cubes currently in the body, that is, not
// grouped into a wall.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cubes) - s.grouped
}

// Slots returns every slot in canonical order.
func (s *State) Slots() []Slot {
	out := make([]Slot, len(s.cubes))
	for i, c := range s.cubes {
		out[i] = c.Slot
	}
	return out
}

// StickersOf returns the sticker array of the cube at slot.
// A slot outside the puzzle has no stickers.
func (s *State) StickersOf(slot Slot) Stickers {
	if !s.Contains(slot) {
		return Stickers{None, None, None, None, None, None}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cubes[s.index(slot)].Stickers
}

// Cube returns a copy of the small cube at slot.
func (s *State) Cube(slot Slot) (SmallCube, bool) {
	if !s.Contains(slot) {
		return SmallCube{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := *s.cubes[s.index(slot)]
	return c, true
}

// Layer returns copies of the cubes whose coordinate along axis is the
// layer-th coordinate, in canonical order.
func (s *State) Layer(axis types.Axis, layer int) ([]SmallCube, error) {
	if err := s.checkLayer(axis, layer); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SmallCube, 0, s.size*s.size)
	for _, c := range s.cubes {
		if c.Slot.Get(axis) == layer {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *State) checkLayer(axis types.Axis, layer int) error {
	if !axis.Valid() {
		return fmt.Errorf("%w: axis %q", types.ErrInvalidArgument, rune(axis))
	}
	if layer < 0 || layer >= s.size {
		return fmt.Errorf("%w: layer %d outside [0,%d)", types.ErrInvalidArgument, layer, s.size)
	}
	return nil
}

// Validate checks that a move can be applied to this puzzle.
func (s *State) Validate(m types.Move) error {
	if err := s.checkLayer(m.Axis, m.Layer); err != nil {
		return err
	}
	if !m.Direction.Valid() {
		return fmt.Errorf("%w: direction %d", types.ErrInvalidArgument, m.Direction)
	}
	return nil
}

// Snapshot returns every sticker array in canonical slot order.
func (s *State) Snapshot() []Stickers {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Stickers, len(s.cubes))
	for i, c := range s.cubes {
		out[i] = c.Stickers
	}
	return out
}

// Clone creates a deep copy of the state. Grouping is not copied.
func (s *State) Clone() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clone := &State{
		size:    s.size,
		spacing: s.spacing,
		coords:  append([]float64(nil), s.coords...),
		palette: s.palette,
		cubes:   make([]*SmallCube, len(s.cubes)),
	}
	for i, c := range s.cubes {
		clone.cubes[i] = &SmallCube{Slot: c.Slot, Stickers: c.Stickers}
	}
	return clone
}

// IsSolved returns true if every visible face shows a single color.
func (s *State) IsSolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range Faces {
		axis, sign := f.Normal()
		layer := 0
		if sign > 0 {
			layer = s.size - 1
		}

		want := None
		for _, c := range s.cubes {
			if c.Slot.Get(axis) != layer {
				continue
			}
			got := c.Stickers[f]
			if want == None {
				want = got
			}
			if got == None || got != want {
				return false
			}
		}
	}
	return true
}
