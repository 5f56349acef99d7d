package cube

import (
	"fmt"

	"github.com/SeamusWaldron/twisty/pkg/types"
)

// facePerms[axis][d][k] is the old slot whose sticker lands in slot k after
// a quarter turn, d = 0 for Forward and 1 for Backward. Turning about an
// axis keeps that axis's two slots and cycles the other four.
var facePerms = map[types.Axis][2][6]Face{
	types.AxisX: {
		{Front, Back, Right, Left, Bottom, Top},
		{Front, Back, Left, Right, Top, Bottom},
	},
	types.AxisY: {
		{Right, Left, Bottom, Top, Front, Back},
		{Left, Right, Bottom, Top, Back, Front},
	},
	types.AxisZ: {
		{Top, Bottom, Front, Back, Left, Right},
		{Bottom, Top, Back, Front, Left, Right},
	},
}

// sourceIndex returns the grid cell whose sticker array moves into cell i
// of an n×n wall for a quarter turn in direction dir.
func sourceIndex(n, i int, dir types.Direction) int {
	var src int
	if dir == types.Forward {
		src = i + (n-1)*(i+1) - (i/n)*(n*n+1)
	} else {
		src = i + n*(n-1) - (n+1)*i + (i/n)*(n*n+1)
	}
	m := n * n
	return ((src % m) + m) % m
}

// Relocate moves whole sticker arrays between the cubes of the wall as a
// 90° rotation of the layer's grid. Cube slots do not change.
func (w *Wall) Relocate(dir types.Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: direction %d", types.ErrInvalidArgument, dir)
	}
	w.state.mu.Lock()
	defer w.state.mu.Unlock()
	w.relocate(dir)
	return nil
}

func (w *Wall) relocate(dir types.Direction) {
	n := w.state.size
	if len(w.cubes) != n*n {
		return
	}

	moved := make([]Stickers, len(w.cubes))
	for i := range w.cubes {
		moved[i] = w.cubes[sourceIndex(n, i, dir)].Stickers
	}
	for i, c := range w.cubes {
		c.Stickers = moved[i]
	}
}

// Reorient relabels every cube's sticker slots to follow a 90° rotation
// about the wall's axis.
func (w *Wall) Reorient(dir types.Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: direction %d", types.ErrInvalidArgument, dir)
	}
	w.state.mu.Lock()
	defer w.state.mu.Unlock()
	w.reorient(dir)
	return nil
}

func (w *Wall) reorient(dir types.Direction) {
	d := 0
	if dir == types.Backward {
		d = 1
	}
	perm := facePerms[w.axis][d]

	for _, c := range w.cubes {
		old := c.Stickers
		for k, from := range perm {
			c.Stickers[k] = old[from]
		}
	}
}

// PaintWall applies a quarter turn to a grouped wall: relocation, then
// reorientation. The y axis has inverted handedness, so its direction is
// flipped once here before both steps.
func (s *State) PaintWall(w *Wall, dir types.Direction) error {
	if w == nil || w.state != s {
		return fmt.Errorf("%w: wall does not belong to this puzzle", types.ErrInvalidArgument)
	}
	if !dir.Valid() {
		return fmt.Errorf("%w: direction %d", types.ErrInvalidArgument, dir)
	}

	if w.axis == types.AxisY {
		dir = -dir
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w.relocate(dir)
	w.reorient(dir)
	return nil
}

// Paint applies a move without animation.
func (s *State) Paint(m types.Move) error {
	if err := s.Validate(m); err != nil {
		return err
	}

	w, err := s.Group(m.Axis, m.Layer)
	if err != nil {
		return err
	}
	defer s.Ungroup(w)

	return s.PaintWall(w, m.Direction)
}

// ApplyMoves paints a sequence of moves, stopping at the first error.
func (s *State) ApplyMoves(moves ...types.Move) error {
	for i, m := range moves {
		if err := s.Paint(m); err != nil {
			return fmt.Errorf("move %d (%s): %w", i, m.Notation(), err)
		}
	}
	return nil
}
