package analysis

import (
	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Cancellation is a turn immediately undone by the next one.
type Cancellation struct {
	Index1 int    `json:"index1"`
	Index2 int    `json:"index2"`
	Move1  string `json:"move1"`
	Move2  string `json:"move2"`
}

// MergeOpportunity is a run of three identical quarter turns that one turn
// the other way would replace.
type MergeOpportunity struct {
	StartIndex int    `json:"start_index"`
	Move       string `json:"move"`
	MergedMove string `json:"merged_move"`
}

// BackAndForthPattern is an alternating pair of turns, e.g. x0 y1 x0 y1 x0 y1.
type BackAndForthPattern struct {
	StartIndex int      `json:"start_index"`
	EndIndex   int      `json:"end_index"`
	Pattern    []string `json:"pattern"`
	Count      int      `json:"count"`
}

// RepetitionReport contains all repetition analysis results.
type RepetitionReport struct {
	ImmediateCancellations []Cancellation        `json:"immediate_cancellations"`
	MergeOpportunities     []MergeOpportunity    `json:"merge_opportunities"`
	BackAndForthPatterns   []BackAndForthPattern `json:"back_and_forth_patterns"`
	TotalWastedMoves       int                   `json:"total_wasted_moves"`
}

// AnalyzeRepetitions looks for wasted motion in a turn sequence.
func AnalyzeRepetitions(moves []types.Move) *RepetitionReport {
	report := &RepetitionReport{
		ImmediateCancellations: []Cancellation{},
		MergeOpportunities:     []MergeOpportunity{},
		BackAndForthPatterns:   []BackAndForthPattern{},
	}

	if len(moves) < 2 {
		return report
	}

	for i := 0; i < len(moves)-1; i++ {
		m1, m2 := moves[i], moves[i+1]
		if m1.IsCancellation(m2) {
			report.ImmediateCancellations = append(report.ImmediateCancellations, Cancellation{
				Index1: i,
				Index2: i + 1,
				Move1:  m1.Notation(),
				Move2:  m2.Notation(),
			})
			report.TotalWastedMoves += 2
		}
	}

	for i := 0; i+2 < len(moves); {
		if moves[i] == moves[i+1] && moves[i] == moves[i+2] {
			report.MergeOpportunities = append(report.MergeOpportunities, MergeOpportunity{
				StartIndex: i,
				Move:       moves[i].Notation(),
				MergedMove: moves[i].Inverse().Notation(),
			})
			report.TotalWastedMoves += 2
			i += 3
			continue
		}
		i++
	}

	report.BackAndForthPatterns = findBackAndForth(moves)

	return report
}

// findBackAndForth finds alternating move patterns like x0 y1 x0 y1 x0 y1.
func findBackAndForth(moves []types.Move) []BackAndForthPattern {
	var patterns []BackAndForthPattern

	if len(moves) < 4 {
		return patterns
	}

	i := 0
	for i < len(moves)-3 {
		a, b := moves[i], moves[i+1]
		if a == b {
			i++
			continue
		}

		count := 1
		j := i + 2
		for j < len(moves)-1 && moves[j] == a && moves[j+1] == b {
			count++
			j += 2
		}

		// At least three repetitions are noteworthy.
		if count >= 3 {
			patterns = append(patterns, BackAndForthPattern{
				StartIndex: i,
				EndIndex:   i + count*2 - 1,
				Pattern:    []string{a.Notation(), b.Notation()},
				Count:      count,
			})
			i = j
		} else {
			i++
		}
	}

	return patterns
}

// OptimizeMoves folds adjacent turns of the same layer: net rotation is
// taken mod 4, so x0 x0' vanishes and x0 x0 x0 becomes x0'.
func OptimizeMoves(moves []types.Move) []types.Move {
	type run struct {
		axis  types.Axis
		layer int
		net   int
	}

	var runs []run
	for _, m := range moves {
		if n := len(runs); n > 0 && runs[n-1].axis == m.Axis && runs[n-1].layer == m.Layer {
			runs[n-1].net = (runs[n-1].net + int(m.Direction) + 4) % 4
			if runs[n-1].net == 0 {
				runs = runs[:n-1]
			}
			continue
		}
		runs = append(runs, run{axis: m.Axis, layer: m.Layer, net: (int(m.Direction) + 4) % 4})
	}

	result := make([]types.Move, 0, len(moves))
	for _, r := range runs {
		fwd := types.Move{Axis: r.axis, Layer: r.layer, Direction: types.Forward}
		switch r.net {
		case 1:
			result = append(result, fwd)
		case 2:
			result = append(result, fwd, fwd)
		case 3:
			result = append(result, fwd.Inverse())
		}
	}
	return result
}

// CalculateEfficiency calculates the ratio optimized/original.
func CalculateEfficiency(original, optimized []types.Move) float64 {
	if len(original) == 0 {
		return 1.0
	}
	return float64(len(optimized)) / float64(len(original))
}
