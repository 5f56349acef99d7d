package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/analysis"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

var (
	historyLimit   int
	historyID      string
	historyLast    bool
	historyFormat  string
	historyOutput  string
	historyNGramsN int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect journaled sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the turns and analysis of a session",
	Long: `Show the turn sequence of a session with a summary: turn rate, pauses,
cancellations, per-axis profile and the most repeated sequences.

Examples:
  twisty history show --last
  twisty history show --id <session_id>`,
	RunE: runHistoryShow,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the turns of a session",
	Long: `Export the turn sequence of a session as notation text, JSON, or
zstd-compressed JSON lines.

Examples:
  twisty history export --last
  twisty history export --id <session_id> --format json
  twisty history export --last --format jsonl.zst -o turns.jsonl.zst`,
	RunE: runHistoryExport,
}

var historyTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show turn rate trends across recent sessions",
	RunE:  runHistoryTrends,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyExportCmd, historyTrendsCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of sessions")
	historyTrendsCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "Number of sessions")

	for _, c := range []*cobra.Command{historyShowCmd, historyExportCmd} {
		c.Flags().StringVar(&historyID, "id", "", "Session ID")
		c.Flags().BoolVar(&historyLast, "last", false, "Use the most recent session")
	}
	historyShowCmd.Flags().IntVar(&historyNGramsN, "ngrams", 5, "Number of repeated sequences to show")
	historyExportCmd.Flags().StringVar(&historyFormat, "format", "txt", "Export format (txt, json, jsonl.zst)")
	historyExportCmd.Flags().StringVarP(&historyOutput, "output", "o", "", "Output file (default: stdout)")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}

	turns := storage.NewTurnRepository(db)
	fmt.Println(titleStyle.Render("Sessions"))
	for _, s := range sessions {
		count, err := turns.Count(s.SessionID)
		if err != nil {
			return fmt.Errorf("failed to count turns: %w", err)
		}
		notes := ""
		if s.Notes != nil {
			notes = *s.Notes
		}
		fmt.Printf("%s  %s  %d×%d×%d  %4d turns  %s\n",
			s.SessionID, s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.Size, s.Size, s.Size, count, statusStyle.Render(notes))
	}
	return nil
}

// resolveSession returns the session selected by --id or --last.
func resolveSession(db *storage.DB) (*storage.Session, error) {
	if historyID == "" && !historyLast {
		return nil, fmt.Errorf("specify --id or --last")
	}

	repo := storage.NewSessionRepository(db)
	var (
		s   *storage.Session
		err error
	)
	if historyLast {
		s, err = repo.GetLast()
	} else {
		s, err = repo.Get(historyID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("session not found")
	}
	return s, nil
}

func loadTurns(db *storage.DB, sessionID string) ([]storage.TurnRecord, []analysis.Turn, error) {
	records, err := storage.NewTurnRepository(db).GetBySession(sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get turns: %w", err)
	}
	turns := make([]analysis.Turn, 0, len(records))
	for _, r := range records {
		m, err := r.Move()
		if err != nil {
			return nil, nil, fmt.Errorf("turn %d: %w", r.TurnIndex, err)
		}
		turns = append(turns, analysis.Turn{Move: m, TsMs: r.TsMs})
	}
	return records, turns, nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := resolveSession(db)
	if err != nil {
		return err
	}
	_, turns, err := loadTurns(db, s.SessionID)
	if err != nil {
		return err
	}

	sum := analysis.Summarize(s.SessionID, turns)
	moves := analysis.Moves(turns)

	fmt.Println(titleStyle.Render("Session " + s.SessionID))
	fmt.Printf("Size: %d  Started: %s\n", s.Size, s.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Println()
	fmt.Println(moveStyle.Render(twisty.FormatMoves(moves)))
	fmt.Println()
	fmt.Printf("Turns:         %d (%d after merging, %.0f%% efficient)\n", sum.TotalTurns, sum.OptimizedTurns, sum.Efficiency*100)
	fmt.Printf("Duration:      %.1fs  (%.2f turns/s)\n", float64(sum.DurationMs)/1000, sum.TPSOverall)
	fmt.Printf("Longest pause: %dms  (%d over %dms)\n", sum.LongestPauseMs, sum.PauseCountOver, analysis.PauseThresholdMs)
	fmt.Printf("Cancellations: %d\n", len(sum.Repetitions.ImmediateCancellations))
	if p := sum.Profile; p != nil && len(moves) > 0 {
		fmt.Printf("Axes:          x %d  y %d  z %d  (most used %s, longest run %d)\n",
			p.AxisCounts["x"], p.AxisCounts["y"], p.AxisCounts["z"], p.MostUsedAxis, p.LongestAxisRun)
	}

	if historyNGramsN > 0 && len(moves) >= 2 {
		report := analysis.MineNGrams(moves, 2, 4, historyNGramsN)
		var lines []string
		for n := 2; n <= 4; n++ {
			for _, ng := range report.TopNGrams[n] {
				if ng.Count < 2 {
					continue
				}
				lines = append(lines, fmt.Sprintf("  %-16s ×%d", strings.Join(ng.Sequence, " "), ng.Count))
			}
		}
		if len(lines) > 0 {
			fmt.Println()
			fmt.Println("Repeated sequences:")
			fmt.Println(strings.Join(lines, "\n"))
		}
	}
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := resolveSession(db)
	if err != nil {
		return err
	}
	records, turns, err := loadTurns(db, s.SessionID)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if historyOutput != "" {
		f, err := os.Create(historyOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch historyFormat {
	case "txt":
		_, err = fmt.Fprintln(w, twisty.FormatMoves(analysis.Moves(turns)))
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(records)
	case "jsonl.zst":
		err = storage.ExportJSONLZstd(w, records)
	default:
		return fmt.Errorf("unknown format: %s", historyFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if historyOutput != "" {
		fmt.Fprintf(os.Stderr, "Exported %d turns to %s\n", len(records), historyOutput)
	}
	return nil
}

func runHistoryTrends(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	data := make([]analysis.SessionData, 0, len(sessions))
	for _, s := range sessions {
		_, turns, err := loadTurns(db, s.SessionID)
		if err != nil {
			return err
		}
		d := analysis.SessionData{SessionID: s.SessionID, StartedAt: s.StartedAt, TurnCount: len(turns)}
		if len(turns) > 1 {
			d.DurationMs = turns[len(turns)-1].TsMs - turns[0].TsMs
		}
		data = append(data, d)
	}

	r := analysis.AnalyzeTrends(data)
	fmt.Println(titleStyle.Render("Trends"))
	fmt.Printf("Sessions:    %d (%d with turns)\n", r.TotalSessions, r.ActiveSessions)
	if r.ActiveSessions == 0 {
		return nil
	}
	fmt.Printf("Average:     %.1f turns at %.2f turns/s\n", r.AvgTurns, r.AvgTPS)
	fmt.Printf("Fastest:     %s  %.2f turns/s\n", r.Fastest.SessionID, r.Fastest.TPS)
	fmt.Printf("Slowest:     %s  %.2f turns/s\n", r.Slowest.SessionID, r.Slowest.TPS)
	fmt.Printf("Improvement: %+.1f%%\n", r.ImprovementPct)
	fmt.Printf("Consistency: %.0f/100\n", r.ConsistencyScore)
	for _, n := range []int{5, 10, 25, 50} {
		if v, ok := r.RollingTPS[n]; ok {
			fmt.Printf("Last %-3d     %.2f turns/s\n", n, v)
		}
	}
	return nil
}
