// Package analysis summarizes recorded turn sequences.
package analysis

import (
	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Turn is a move with the time it completed.
type Turn struct {
	Move types.Move
	TsMs int64
}

// Moves strips timestamps from turns.
func Moves(turns []Turn) []types.Move {
	out := make([]types.Move, len(turns))
	for i, t := range turns {
		out[i] = t.Move
	}
	return out
}

// Summary contains statistics for one session.
type Summary struct {
	SessionID         string            `json:"session_id,omitempty"`
	TotalTurns        int               `json:"total_turns"`
	OptimizedTurns    int               `json:"optimized_turns"`
	Efficiency        float64           `json:"efficiency"`
	DurationMs        int64             `json:"duration_ms"`
	TPSOverall        float64           `json:"tps_overall"`
	LongestPauseMs    int64             `json:"longest_pause_ms"`
	PauseCountOver    int               `json:"pause_count_over_1500ms"`
	AvgTurnDurationMs float64           `json:"avg_turn_duration_ms"`
	Profile           *MovementProfile  `json:"profile"`
	Repetitions       *RepetitionReport `json:"repetitions"`
}

// PauseThresholdMs is the gap counted as a pause in summaries.
const PauseThresholdMs = 1500

// Summarize computes a summary of a turn sequence.
func Summarize(sessionID string, turns []Turn) *Summary {
	moves := Moves(turns)
	optimized := OptimizeMoves(moves)

	s := &Summary{
		SessionID:         sessionID,
		TotalTurns:        len(turns),
		OptimizedTurns:    len(optimized),
		Efficiency:        CalculateEfficiency(moves, optimized),
		LongestPauseMs:    FindLongestPause(turns),
		PauseCountOver:    CountPausesOver(turns, PauseThresholdMs),
		AvgTurnDurationMs: CalculateAvgTurnDuration(turns),
		Profile:           AnalyzeMovementProfile(moves),
		Repetitions:       AnalyzeRepetitions(moves),
	}
	if len(turns) > 1 {
		s.DurationMs = turns[len(turns)-1].TsMs - turns[0].TsMs
	}
	s.TPSOverall = CalculateTPS(len(turns), s.DurationMs)
	return s
}

// PauseInfo represents a pause between turns.
type PauseInfo struct {
	AfterTurnIndex int   `json:"after_turn_index"`
	DurationMs     int64 `json:"duration_ms"`
	TsMs           int64 `json:"ts_ms"`
}

// AnalyzePauses finds all gaps of at least thresholdMs.
func AnalyzePauses(turns []Turn, thresholdMs int64) []PauseInfo {
	var pauses []PauseInfo

	for i := 1; i < len(turns); i++ {
		gap := turns[i].TsMs - turns[i-1].TsMs
		if gap >= thresholdMs {
			pauses = append(pauses, PauseInfo{
				AfterTurnIndex: i - 1,
				DurationMs:     gap,
				TsMs:           turns[i-1].TsMs,
			})
		}
	}

	return pauses
}

// CalculateTPS calculates turns per second.
func CalculateTPS(count int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(count) / (float64(durationMs) / 1000.0)
}

// CalculateAvgTurnDuration calculates the average time between turns.
func CalculateAvgTurnDuration(turns []Turn) float64 {
	if len(turns) < 2 {
		return 0
	}

	totalGap := turns[len(turns)-1].TsMs - turns[0].TsMs
	return float64(totalGap) / float64(len(turns)-1)
}

// FindLongestPause finds the longest gap between turns.
func FindLongestPause(turns []Turn) int64 {
	var longest int64

	for i := 1; i < len(turns); i++ {
		if gap := turns[i].TsMs - turns[i-1].TsMs; gap > longest {
			longest = gap
		}
	}

	return longest
}

// CountPausesOver counts gaps longer than thresholdMs.
func CountPausesOver(turns []Turn, thresholdMs int64) int {
	count := 0
	for i := 1; i < len(turns); i++ {
		if turns[i].TsMs-turns[i-1].TsMs > thresholdMs {
			count++
		}
	}
	return count
}

// MovementProfile describes which axes and layers were turned.
type MovementProfile struct {
	AxisCounts     map[string]int `json:"axis_counts"`
	LayerCounts    map[int]int    `json:"layer_counts"`
	ForwardCount   int            `json:"forward_count"`
	BackwardCount  int            `json:"backward_count"`
	MostUsedAxis   string         `json:"most_used_axis"`
	LongestAxisRun int            `json:"longest_axis_run"`
	AxisSequences  map[string]int `json:"axis_sequences"` // e.g. "xy" -> count
}

// AnalyzeMovementProfile counts axis, layer and direction usage.
func AnalyzeMovementProfile(moves []types.Move) *MovementProfile {
	profile := &MovementProfile{
		AxisCounts:    make(map[string]int),
		LayerCounts:   make(map[int]int),
		AxisSequences: make(map[string]int),
	}

	run := 0
	for i, m := range moves {
		profile.AxisCounts[m.Axis.String()]++
		profile.LayerCounts[m.Layer]++
		if m.Direction == types.Forward {
			profile.ForwardCount++
		} else {
			profile.BackwardCount++
		}

		if i > 0 {
			profile.AxisSequences[moves[i-1].Axis.String()+m.Axis.String()]++
		}

		if i > 0 && moves[i-1].Axis == m.Axis {
			run++
		} else {
			run = 1
		}
		if run > profile.LongestAxisRun {
			profile.LongestAxisRun = run
		}
	}

	// Ties go to the first axis in x, y, z order.
	maxCount := 0
	for _, axis := range types.Axes {
		if c := profile.AxisCounts[axis.String()]; c > maxCount {
			maxCount = c
			profile.MostUsedAxis = axis.String()
		}
	}

	return profile
}
