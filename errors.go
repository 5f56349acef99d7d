package twisty

import (
	"errors"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Sentinel errors for the twisty package.
var (
	// Argument errors
	ErrInvalidArgument = types.ErrInvalidArgument
	ErrInvalidRange    = types.ErrInvalidRange
	ErrInvalidNotation = types.ErrInvalidNotation

	// State errors
	ErrWallBusy = cube.ErrWallBusy
	ErrBusy     = errors.New("twisty: turns are still queued")
)
