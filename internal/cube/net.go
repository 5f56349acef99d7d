package cube

import (
	"strings"

	"github.com/SeamusWaldron/twisty/pkg/types"
)

// FaceGrid is the N×N sticker view of one outer face.
// Rows follow the first remaining axis and columns the second, both in
// increasing layer order (x before y before z).
type FaceGrid [][]Color

// Net returns the six outer faces of the puzzle, indexed by Face.
func (s *State) Net() [6]FaceGrid {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var net [6]FaceGrid
	for _, f := range Faces {
		axis, sign := f.Normal()
		layer := 0
		if sign > 0 {
			layer = s.size - 1
		}
		rowAxis, colAxis := OtherAxes(axis)

		grid := make(FaceGrid, s.size)
		for r := range grid {
			grid[r] = make([]Color, s.size)
		}
		for _, c := range s.cubes {
			if c.Slot.Get(axis) != layer {
				continue
			}
			grid[c.Slot.Get(rowAxis)][c.Slot.Get(colAxis)] = c.Stickers[f]
		}
		net[f] = grid
	}
	return net
}

// OtherAxes returns the two axes orthogonal to axis, in canonical order.
func OtherAxes(axis types.Axis) (types.Axis, types.Axis) {
	switch axis {
	case types.AxisX:
		return types.AxisY, types.AxisZ
	case types.AxisY:
		return types.AxisX, types.AxisZ
	default:
		return types.AxisX, types.AxisY
	}
}

// String returns a text representation of the six faces side by side.
func (s *State) String() string {
	net := s.Net()
	var b strings.Builder

	for i, f := range Faces {
		if i > 0 {
			b.WriteString(" ")
		}
		label := f.String()
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", max(0, 2*s.size-len(label))))
	}
	b.WriteString("\n")

	for r := 0; r < s.size; r++ {
		for i, f := range Faces {
			if i > 0 {
				b.WriteString(" ")
			}
			cells := make([]string, s.size)
			for c := 0; c < s.size; c++ {
				cells[c] = net[f][r][c].String()
			}
			row := strings.Join(cells, " ")
			b.WriteString(row)
			b.WriteString(strings.Repeat(" ", max(0, max(2*s.size, len(f.String()))-len(row))))
		}
		b.WriteString("\n")
	}

	return b.String()
}
