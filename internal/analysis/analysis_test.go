package analysis

import (
	"testing"
	"time"

	"github.com/SeamusWaldron/twisty/pkg/types"
)

func mustParse(t *testing.T, s string) []types.Move {
	t.Helper()
	moves, err := types.ParseMoves(s)
	if err != nil {
		t.Fatalf("ParseMoves(%q): %v", s, err)
	}
	return moves
}

func TestOptimizeMoves(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"x0 x0'", ""},
		{"x0 x0 x0", "x0'"},
		{"x0 x0 x0 x0", ""},
		{"x0 x1 x0'", "x0 x1 x0'"},
		{"x0 y0 y0' x0'", ""},
		{"z2' z2'", "z2 z2"},
		{"y1 x0 x0 x0 y1", "y1 x0' y1"},
	}

	for _, tt := range tests {
		got := types.FormatMoves(OptimizeMoves(mustParse(t, tt.in)))
		if got != tt.want {
			t.Errorf("OptimizeMoves(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAnalyzeRepetitions(t *testing.T) {
	r := AnalyzeRepetitions(mustParse(t, "x0 x0' y1 y1 y1 z2"))

	if len(r.ImmediateCancellations) != 1 || r.ImmediateCancellations[0].Index1 != 0 {
		t.Errorf("cancellations = %+v", r.ImmediateCancellations)
	}
	if len(r.MergeOpportunities) != 1 || r.MergeOpportunities[0].MergedMove != "y1'" {
		t.Errorf("merges = %+v", r.MergeOpportunities)
	}
	if r.TotalWastedMoves != 4 {
		t.Errorf("TotalWastedMoves = %d, want 4", r.TotalWastedMoves)
	}
}

func TestBackAndForth(t *testing.T) {
	r := AnalyzeRepetitions(mustParse(t, "z0 x0 y1 x0 y1 x0 y1 z0"))
	if len(r.BackAndForthPatterns) != 1 {
		t.Fatalf("patterns = %+v", r.BackAndForthPatterns)
	}
	p := r.BackAndForthPatterns[0]
	if p.StartIndex != 1 || p.EndIndex != 6 || p.Count != 3 {
		t.Errorf("pattern = %+v", p)
	}
}

func TestMovementProfile(t *testing.T) {
	p := AnalyzeMovementProfile(mustParse(t, "x0 y1 y2 y0' z1 y1"))

	if p.AxisCounts["y"] != 4 || p.AxisCounts["x"] != 1 {
		t.Errorf("AxisCounts = %v", p.AxisCounts)
	}
	if p.MostUsedAxis != "y" {
		t.Errorf("MostUsedAxis = %q", p.MostUsedAxis)
	}
	if p.LongestAxisRun != 3 {
		t.Errorf("LongestAxisRun = %d, want 3", p.LongestAxisRun)
	}
	if p.BackwardCount != 1 || p.ForwardCount != 5 {
		t.Errorf("directions = %d/%d", p.ForwardCount, p.BackwardCount)
	}
	if p.AxisSequences["yy"] != 2 {
		t.Errorf("AxisSequences = %v", p.AxisSequences)
	}
}

func TestSummarize(t *testing.T) {
	moves := mustParse(t, "x0 x0' y1 z2")
	turns := make([]Turn, len(moves))
	for i, m := range moves {
		turns[i] = Turn{Move: m, TsMs: int64(1000 * i)}
	}
	turns[3].TsMs = 5000

	s := Summarize("abc", turns)
	if s.TotalTurns != 4 || s.OptimizedTurns != 2 {
		t.Errorf("turns = %d/%d", s.TotalTurns, s.OptimizedTurns)
	}
	if s.Efficiency != 0.5 {
		t.Errorf("Efficiency = %v", s.Efficiency)
	}
	if s.DurationMs != 5000 || s.TPSOverall != 0.8 {
		t.Errorf("duration %d, tps %v", s.DurationMs, s.TPSOverall)
	}
	if s.LongestPauseMs != 3000 || s.PauseCountOver != 1 {
		t.Errorf("pauses: longest %d, count %d", s.LongestPauseMs, s.PauseCountOver)
	}
	if len(AnalyzePauses(turns, 1000)) != 3 {
		t.Errorf("AnalyzePauses = %v", AnalyzePauses(turns, 1000))
	}
}

func TestTokenRoundTrip(t *testing.T) {
	for _, axis := range types.Axes {
		for layer := 0; layer < maxTokenLayers; layer++ {
			for _, dir := range []types.Direction{types.Forward, types.Backward} {
				m := types.Move{Axis: axis, Layer: layer, Direction: dir}
				if got := moveFromToken(token(m)); got != m {
					t.Fatalf("token round trip %v -> %v", m, got)
				}
			}
		}
	}
}

func TestMineNGrams(t *testing.T) {
	moves := mustParse(t, "x0 y1 z2 x0 y1 z2 x0 y1")
	r := MineNGrams(moves, 2, 3, 5)

	tri := r.TopNGrams[3]
	if len(tri) == 0 {
		t.Fatal("no 3-grams found")
	}
	if tri[0].Count != 2 || types.FormatMoves(mustParse(t, joinNotation(tri[0].Sequence))) != "x0 y1 z2" {
		t.Errorf("top 3-gram = %+v", tri[0])
	}

	bi := r.TopNGrams[2]
	if len(bi) == 0 || bi[0].Count != 3 {
		t.Errorf("top 2-gram = %+v", bi)
	}

	all := MineNGramsAcrossSessions(map[string]*NGramReport{"a": r, "b": r}, 2, 3, 5)
	if all.TopNGrams[2][0].Count != 6 {
		t.Errorf("aggregated 2-gram = %+v", all.TopNGrams[2][0])
	}
}

func joinNotation(seq []string) string {
	out := ""
	for i, s := range seq {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}

func TestRollingHashMatchesDirect(t *testing.T) {
	tokens := []uint8{4, 9, 4, 9, 4}
	rh := NewRollingHash(2)
	rh.Add(tokens[0])
	var hashes []uint64
	for _, tok := range tokens[1:] {
		rh.Roll(tok)
		hashes = append(hashes, rh.Hash())
	}
	if hashes[0] != hashes[2] || hashes[1] != hashes[3] || hashes[0] == hashes[1] {
		t.Errorf("hashes = %v", hashes)
	}
}

func TestAnalyzeTrends(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions := []SessionData{
		{SessionID: "d", StartedAt: base.Add(3 * time.Hour), DurationMs: 1000, TurnCount: 4},
		{SessionID: "a", StartedAt: base, DurationMs: 2000, TurnCount: 2},
		{SessionID: "b", StartedAt: base.Add(time.Hour), DurationMs: 1000, TurnCount: 1},
		{SessionID: "c", StartedAt: base.Add(2 * time.Hour), DurationMs: 1000, TurnCount: 2},
		{SessionID: "e", StartedAt: base.Add(4 * time.Hour), DurationMs: 1000, TurnCount: 4},
	}

	r := AnalyzeTrends(sessions)
	if r.TotalSessions != 5 || r.ActiveSessions != 4 {
		t.Fatalf("sessions = %d/%d, want 5/4", r.TotalSessions, r.ActiveSessions)
	}
	if r.Sessions[0].SessionID != "a" || r.Sessions[3].SessionID != "e" {
		t.Errorf("sessions not in start order: %+v", r.Sessions)
	}
	// TPS: a=1, c=2, d=4, e=4
	if r.AvgTPS != 2.75 {
		t.Errorf("AvgTPS = %v, want 2.75", r.AvgTPS)
	}
	if r.Fastest.SessionID != "d" || r.Slowest.SessionID != "a" {
		t.Errorf("fastest %s slowest %s, want d and a", r.Fastest.SessionID, r.Slowest.SessionID)
	}
	if r.ImprovementPct != 300 {
		t.Errorf("ImprovementPct = %v, want 300", r.ImprovementPct)
	}
	if r.ConsistencyScore <= 0 || r.ConsistencyScore >= 100 {
		t.Errorf("ConsistencyScore = %v, want strictly between 0 and 100", r.ConsistencyScore)
	}
	if len(r.RollingTPS) != 0 {
		t.Errorf("RollingTPS = %v, want empty below 5 sessions", r.RollingTPS)
	}
	if sessions[0].SessionID != "d" {
		t.Error("input slice should not be reordered")
	}
}

func TestAnalyzeTrendsEmpty(t *testing.T) {
	r := AnalyzeTrends(nil)
	if r.TotalSessions != 0 || r.AvgTPS != 0 {
		t.Errorf("empty report = %+v", r)
	}
}
