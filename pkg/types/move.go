// Package types contains shared type definitions for the twisty module.
package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors shared by the puzzle packages.
var (
	// ErrInvalidArgument reports an axis, layer or direction outside its domain.
	ErrInvalidArgument = errors.New("twisty: invalid argument")

	// ErrInvalidRange is returned by the random range helper when start > end.
	ErrInvalidRange = fmt.Errorf("%w: Invalid range", ErrInvalidArgument)

	// ErrInvalidNotation reports a move string that cannot be parsed.
	ErrInvalidNotation = errors.New("twisty: invalid move notation")
)

// Where a turn came from.
const (
	SourceAPI     = "api"
	SourceGesture = "gesture"
	SourceShuffle = "shuffle"
	SourceRemote  = "remote"
)

// Axis is one of the three spatial axes.
type Axis byte

const (
	AxisX Axis = 'x'
	AxisY Axis = 'y'
	AxisZ Axis = 'z'
)

// Axes lists the axes in canonical order.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

// Valid reports whether a is x, y or z.
func (a Axis) Valid() bool {
	return a == AxisX || a == AxisY || a == AxisZ
}

// Index returns 0, 1 or 2 for x, y, z and -1 otherwise.
func (a Axis) Index() int {
	switch a {
	case AxisX:
		return 0
	case AxisY:
		return 1
	case AxisZ:
		return 2
	default:
		return -1
	}
}

func (a Axis) String() string {
	if !a.Valid() {
		return "?"
	}
	return string(rune(a))
}

// MarshalText encodes the axis as "x", "y" or "z".
func (a Axis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: axis %d", ErrInvalidArgument, byte(a))
	}
	return []byte{byte(a)}, nil
}

// UnmarshalText decodes an axis name.
func (a *Axis) UnmarshalText(b []byte) error {
	axis, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = axis
	return nil
}

// ParseAxis converts "x", "y" or "z" (any case) to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("%w: axis %q", ErrInvalidArgument, s)
}

// Direction is the sense of a quarter turn.
type Direction int

const (
	Forward  Direction = 1  // Counter-clockwise seen from the positive end of the axis
	Backward Direction = -1 // Clockwise seen from the positive end of the axis
)

// Valid reports whether d is +1 or -1.
func (d Direction) Valid() bool {
	return d == Forward || d == Backward
}

// Move is a single quarter turn of one layer.
type Move struct {
	Axis      Axis      `json:"axis"`
	Layer     int       `json:"layer"`
	Direction Direction `json:"direction"`
}

// Notation returns the compact notation for this move.
// Examples: x0, x0', y2, z1'
func (m Move) Notation() string {
	suffix := ""
	if m.Direction == Backward {
		suffix = "'"
	}
	return m.Axis.String() + strconv.Itoa(m.Layer) + suffix
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Inverse returns the move that undoes this one.
func (m Move) Inverse() Move {
	inv := m
	inv.Direction = -m.Direction
	return inv
}

// IsCancellation returns true if the other move undoes this move.
func (m Move) IsCancellation(other Move) bool {
	return m.Axis == other.Axis &&
		m.Layer == other.Layer &&
		m.Direction == -other.Direction
}

// ParseMove parses a notation string into a Move.
// Examples: x0, x0', Y2, z10'
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	axis, err := ParseAxis(s[:1])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	dir := Forward
	digits := s[1:]
	if strings.HasSuffix(digits, "'") || strings.HasSuffix(digits, "`") {
		dir = Backward
		digits = digits[:len(digits)-1]
	}

	layer, err := strconv.Atoi(digits)
	if err != nil || layer < 0 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	return Move{Axis: axis, Layer: layer, Direction: dir}, nil
}

// ParseMoves parses a whitespace-separated sequence of moves.
// The first invalid token fails the whole sequence.
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for _, part := range parts {
		move, err := ParseMove(part)
		if err != nil {
			return nil, err
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}
