package cube

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/SeamusWaldron/twisty/pkg/types"
)

// RandomRange returns a uniform integer in [ceil(start), floor(end)].
// It fails with ErrInvalidRange when start > end or no integer lies in the
// range.
func RandomRange(start, end float64) (int, error) {
	return randomRange(rand.IntN, start, end)
}

func randomRange(intN func(int) int, start, end float64) (int, error) {
	if start > end {
		return 0, types.ErrInvalidRange
	}
	lo := int(math.Ceil(start))
	hi := int(math.Floor(end))
	if lo > hi {
		return 0, fmt.Errorf("%w: no integer in [%v, %v]", types.ErrInvalidRange, start, end)
	}
	return lo + intN(hi-lo+1), nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Shuffler produces uniformly random quarter turns for a puzzle size.
// The same seed always yields the same sequence.
type Shuffler struct {
	size int
	rng  *rand.Rand
}

// NewShuffler creates a shuffler for puzzles of the given size.
func NewShuffler(size int, seed uint64) *Shuffler {
	return &Shuffler{
		size: size,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Range returns a uniform integer in [ceil(start), floor(end)].
func (s *Shuffler) Range(start, end float64) (int, error) {
	return randomRange(s.rng.IntN, start, end)
}

// Next returns one random move.
func (s *Shuffler) Next() types.Move {
	layer, _ := s.Range(0, float64(s.size-1))
	axis, _ := s.Range(0, 2)

	dir := types.Forward
	if s.rng.Float64() >= 0.5 {
		dir = types.Backward
	}

	return types.Move{Axis: types.Axes[axis], Layer: layer, Direction: dir}
}

// Moves returns n random moves.
func (s *Shuffler) Moves(n int) []types.Move {
	moves := make([]types.Move, n)
	for i := range moves {
		moves[i] = s.Next()
	}
	return moves
}
