// Package cli implements the command-line interface for twisty.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/config"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	cfgPath   string
	dbPath    string
	verbose   bool
	noJournal bool

	// Loaded in PersistentPreRunE
	cfg    config.Config
	logger *slog.Logger
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "twisty",
	Short: "N×N×N twisty puzzle",
	Long: `twisty - turn, shuffle and play an N×N×N twisty puzzle from the terminal.

Every turn goes through a queue that runs one turn at a time. Completed
turns are journaled to SQLite so sessions can be listed, analyzed and
exported later.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			c.DBPath = dbPath
		}
		cfg = c
		logger = newLogger(cfg)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Journal database path (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noJournal, "no-journal", false, "Do not record turns")
}

func newLogger(c config.Config) *slog.Logger {
	level := c.Level()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openDB opens the journal database from the loaded config.
func openDB() (*storage.DB, error) {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// newSession builds a puzzle from the loaded config and, unless journaling
// is disabled, a journal session it records into. The returned function
// ends the session and closes the database.
func newSession(notes string, extra ...twisty.Option) (*twisty.Puzzle, string, func(), error) {
	palette, err := cfg.Palette.Colors()
	if err != nil {
		return nil, "", nil, err
	}

	opts := []twisty.Option{
		twisty.WithSize(cfg.Size),
		twisty.WithSpacing(cfg.Spacing),
		twisty.WithPalette(palette),
		twisty.WithThreshold(cfg.Threshold),
		twisty.WithLogger(logger),
	}
	if cfg.Seed != 0 {
		opts = append(opts, twisty.WithSeed(cfg.Seed))
	}

	cleanup := func() {}
	sessionID := ""
	if !noJournal {
		db, err := openDB()
		if err != nil {
			return nil, "", nil, err
		}
		j, err := storage.NewJournal(db, cfg.Size, notes)
		if err != nil {
			db.Close()
			return nil, "", nil, fmt.Errorf("failed to start session: %w", err)
		}
		sessionID = j.SessionID()
		opts = append(opts, twisty.WithJournal(j))
		cleanup = func() {
			if err := j.Close(); err != nil {
				logger.Error("failed to end session", "session", sessionID, "error", err)
			}
			db.Close()
		}
	}

	p, err := twisty.New(append(opts, extra...)...)
	if err != nil {
		cleanup()
		return nil, "", nil, err
	}
	return p, sessionID, cleanup, nil
}
