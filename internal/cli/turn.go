package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var turnTimeout time.Duration

var turnCmd = &cobra.Command{
	Use:   "turn <moves>",
	Short: "Apply a move sequence and print the result",
	Long: `Apply a sequence of moves to a solved puzzle and print its faces.

A move is an axis letter, a layer index and an optional prime for the
backward direction.

Examples:
  twisty turn x0
  twisty turn "x0 y2' z1"
  twisty turn x0 x0 x0 x0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTurn,
}

func init() {
	rootCmd.AddCommand(turnCmd)
	turnCmd.Flags().DurationVar(&turnTimeout, "timeout", 10*time.Second, "Maximum time to wait for the queue")
}

func runTurn(cmd *cobra.Command, args []string) error {
	p, sessionID, cleanup, err := newSession("turn")
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), turnTimeout)
	defer cancel()

	if err := p.ApplyNotation(ctx, strings.Join(args, " ")); err != nil {
		return fmt.Errorf("failed to apply moves: %w", err)
	}

	fmt.Println(renderNet(p.Net()))
	fmt.Printf("Turns: %d  %s\n", p.Turns(), solvedLabel(p.IsSolved()))
	if sessionID != "" {
		fmt.Println(statusStyle.Render("Session: " + sessionID))
	}
	return nil
}
