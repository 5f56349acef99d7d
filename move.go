package twisty

import (
	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Move is a single quarter turn of one layer.
type Move = types.Move

// Axis is a rotation axis.
type Axis = types.Axis

// Direction is the sense of a quarter turn.
type Direction = types.Direction

// Axes and directions.
const (
	AxisX = types.AxisX
	AxisY = types.AxisY
	AxisZ = types.AxisZ

	Forward  = types.Forward
	Backward = types.Backward
)

// Sticker data exposed to renderers.
type (
	Color    = cube.Color
	Face     = cube.Face
	Palette  = cube.Palette
	Slot     = cube.Slot
	Stickers = cube.Stickers
	State    = cube.State
	FaceGrid = cube.FaceGrid
)

// None marks a face without a sticker.
const None = cube.None

// X returns a forward turn of layer about the x axis.
func X(layer int) Move { return Move{Axis: AxisX, Layer: layer, Direction: Forward} }

// Y returns a forward turn of layer about the y axis.
func Y(layer int) Move { return Move{Axis: AxisY, Layer: layer, Direction: Forward} }

// Z returns a forward turn of layer about the z axis.
func Z(layer int) Move { return Move{Axis: AxisZ, Layer: layer, Direction: Forward} }

// ParseAxis parses "x", "y" or "z".
func ParseAxis(s string) (Axis, error) {
	return types.ParseAxis(s)
}

// ParseMove parses a notation string such as "x0" or "y2'".
func ParseMove(s string) (Move, error) {
	return types.ParseMove(s)
}

// ParseMoves parses a whitespace-separated sequence of moves.
func ParseMoves(s string) ([]Move, error) {
	return types.ParseMoves(s)
}

// FormatMoves formats moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	return types.FormatMoves(moves)
}

// Invert returns the sequence that undoes moves.
func Invert(moves []Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[len(moves)-1-i] = m.Inverse()
	}
	return out
}
