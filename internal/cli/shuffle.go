package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
)

var (
	shuffleMoves int
	shuffleSeed  uint64
)

var shuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Shuffle a solved puzzle with random turns",
	Long: `Paint uniformly random quarter turns onto a solved puzzle and print the
sequence and the resulting faces. A seed makes the sequence repeatable.`,
	RunE: runShuffle,
}

func init() {
	rootCmd.AddCommand(shuffleCmd)
	shuffleCmd.Flags().IntVarP(&shuffleMoves, "moves", "n", 0, "Number of random turns (default from config)")
	shuffleCmd.Flags().Uint64Var(&shuffleSeed, "seed", 0, "Random seed (default from config, else random)")
}

func runShuffle(cmd *cobra.Command, args []string) error {
	n := shuffleMoves
	if n == 0 {
		n = cfg.ShuffleMoves
	}

	var extra []twisty.Option
	if shuffleSeed != 0 {
		extra = append(extra, twisty.WithSeed(shuffleSeed))
	}

	p, sessionID, cleanup, err := newSession("shuffle", extra...)
	if err != nil {
		return err
	}
	defer cleanup()

	moves, err := p.Shuffle(n)
	if err != nil {
		return fmt.Errorf("failed to shuffle: %w", err)
	}

	fmt.Println(titleStyle.Render("Shuffle"))
	fmt.Println(moveStyle.Render(twisty.FormatMoves(moves)))
	fmt.Println()
	fmt.Println(renderNet(p.Net()))
	fmt.Printf("Turns: %d  %s\n", len(moves), solvedLabel(p.IsSolved()))
	if sessionID != "" {
		fmt.Println(statusStyle.Render("Session: " + sessionID))
	}
	return nil
}
