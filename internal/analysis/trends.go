package analysis

import (
	"math"
	"sort"
	"time"
)

// SessionData is the per-session input to trend analysis.
type SessionData struct {
	SessionID  string
	StartedAt  time.Time
	DurationMs int64
	TurnCount  int
}

// TrendReport summarizes turn rate and length across sessions.
type TrendReport struct {
	TotalSessions  int       `json:"total_sessions"`
	ActiveSessions int       `json:"active_sessions"`
	DateRange      DateRange `json:"date_range"`

	AvgTurns float64 `json:"avg_turns"`
	AvgTPS   float64 `json:"avg_tps"`

	Fastest SessionStats `json:"fastest"`
	Slowest SessionStats `json:"slowest"`

	// Change in TPS from the first quarter of sessions to the last, in percent.
	ImprovementPct   float64 `json:"improvement_pct"`
	ConsistencyScore float64 `json:"consistency_score"`

	// Rolling TPS averages over the most recent 5, 10, 25 and 50 sessions.
	RollingTPS map[int]float64 `json:"rolling_tps"`

	Sessions []SessionStats `json:"sessions"`
}

// DateRange represents a date range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SessionStats is one session in trend context.
type SessionStats struct {
	SessionID  string  `json:"session_id"`
	Timestamp  string  `json:"timestamp"`
	DurationMs int64   `json:"duration_ms"`
	TurnCount  int     `json:"turn_count"`
	TPS        float64 `json:"tps"`
}

// AnalyzeTrends analyzes sessions in start order. Sessions with fewer than
// two turns or no duration count toward TotalSessions only.
func AnalyzeTrends(sessions []SessionData) *TrendReport {
	report := &TrendReport{
		TotalSessions: len(sessions),
		RollingTPS:    make(map[int]float64),
		Sessions:      make([]SessionStats, 0, len(sessions)),
	}
	if len(sessions) == 0 {
		return report
	}

	sorted := make([]SessionData, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.Before(sorted[j].StartedAt)
	})

	report.DateRange = DateRange{
		Start: sorted[0].StartedAt.Format(time.RFC3339),
		End:   sorted[len(sorted)-1].StartedAt.Format(time.RFC3339),
	}

	var totalTurns int
	var totalTPS float64
	for _, s := range sorted {
		if s.TurnCount < 2 || s.DurationMs <= 0 {
			continue
		}
		st := SessionStats{
			SessionID:  s.SessionID,
			Timestamp:  s.StartedAt.Format(time.RFC3339),
			DurationMs: s.DurationMs,
			TurnCount:  s.TurnCount,
			TPS:        CalculateTPS(s.TurnCount, s.DurationMs),
		}
		report.Sessions = append(report.Sessions, st)
		totalTurns += st.TurnCount
		totalTPS += st.TPS

		if len(report.Sessions) == 1 || st.TPS > report.Fastest.TPS {
			report.Fastest = st
		}
		if len(report.Sessions) == 1 || st.TPS < report.Slowest.TPS {
			report.Slowest = st
		}
	}

	active := report.Sessions
	report.ActiveSessions = len(active)
	if len(active) == 0 {
		return report
	}

	report.AvgTurns = float64(totalTurns) / float64(len(active))
	report.AvgTPS = totalTPS / float64(len(active))
	report.ImprovementPct = calculateImprovement(active)
	report.ConsistencyScore = calculateConsistency(active)

	for _, n := range []int{5, 10, 25, 50} {
		if len(active) >= n {
			report.RollingTPS[n] = meanTPS(active[len(active)-n:])
		}
	}
	return report
}

func meanTPS(sessions []SessionStats) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sessions {
		sum += s.TPS
	}
	return sum / float64(len(sessions))
}

// calculateImprovement compares mean TPS of the first and last quarter.
func calculateImprovement(sessions []SessionStats) float64 {
	if len(sessions) < 4 {
		return 0
	}
	q := len(sessions) / 4
	first := meanTPS(sessions[:q])
	last := meanTPS(sessions[len(sessions)-q:])
	if first <= 0 {
		return 0
	}
	return (last - first) / first * 100
}

// calculateConsistency maps the coefficient of variation of TPS to 0-100,
// higher meaning more consistent.
func calculateConsistency(sessions []SessionStats) float64 {
	if len(sessions) < 2 {
		return 100
	}
	mean := meanTPS(sessions)
	if mean <= 0 {
		return 100
	}

	var sumSquares float64
	for _, s := range sessions {
		d := s.TPS - mean
		sumSquares += d * d
	}
	cv := math.Sqrt(sumSquares/float64(len(sessions))) / mean

	return math.Max(0, math.Min(100, 100-cv*100))
}
