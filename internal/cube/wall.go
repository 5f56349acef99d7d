package cube

import (
	"errors"
	"fmt"

	"github.com/SeamusWaldron/twisty/pkg/types"
)

// ErrWallBusy is returned when a layer overlaps cubes already grouped into
// another wall.
var ErrWallBusy = errors.New("twisty: cubes already grouped into a wall")

// Wall is a layer extracted from the body for the duration of a turn.
// Its cubes are held in canonical order (x, then y, then z), which makes
// the layer an N×N row-major grid over the two remaining axes.
type Wall struct {
	state *State
	axis  types.Axis
	layer int
	cubes []*SmallCube
}

// Group extracts the cubes of one layer into a wall.
func (s *State) Group(axis types.Axis, layer int) (*Wall, error) {
	if err := s.checkLayer(axis, layer); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cubes := make([]*SmallCube, 0, s.size*s.size)
	for _, c := range s.cubes {
		if c.Slot.Get(axis) != layer {
			continue
		}
		if c.grouped {
			return nil, fmt.Errorf("%w: %v layer %d at %v", ErrWallBusy, axis, layer, c.Slot)
		}
		cubes = append(cubes, c)
	}

	for _, c := range cubes {
		c.grouped = true
	}
	s.grouped += len(cubes)

	return &Wall{state: s, axis: axis, layer: layer, cubes: cubes}, nil
}

// Ungroup returns a wall's cubes to the body and empties the wall.
func (s *State) Ungroup(w *Wall) {
	if w == nil || w.state != s {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range w.cubes {
		c.grouped = false
	}
	s.grouped -= len(w.cubes)
	w.cubes = nil
}

// Axis returns the axis the wall is perpendicular to.
func (w *Wall) Axis() types.Axis {
	return w.axis
}

// Layer returns the wall's layer index.
func (w *Wall) Layer() int {
	return w.layer
}

// Len returns the number of cubes in the wall; zero once ungrouped.
func (w *Wall) Len() int {
	w.state.mu.RLock()
	defer w.state.mu.RUnlock()
	return len(w.cubes)
}

// Slots returns the slots of the wall's cubes in canonical order.
func (w *Wall) Slots() []Slot {
	w.state.mu.RLock()
	defer w.state.mu.RUnlock()

	out := make([]Slot, len(w.cubes))
	for i, c := range w.cubes {
		out[i] = c.Slot
	}
	return out
}

// Stickers returns the sticker arrays of the wall's cubes in canonical order.
func (w *Wall) Stickers() []Stickers {
	w.state.mu.RLock()
	defer w.state.mu.RUnlock()

	out := make([]Stickers, len(w.cubes))
	for i, c := range w.cubes {
		out[i] = c.Stickers
	}
	return out
}
