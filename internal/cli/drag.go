package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/scene"
)

var (
	dragFrom   string
	dragTo     string
	dragWidth  float64
	dragHeight float64
	dragSetup  string
)

var dragCmd = &cobra.Command{
	Use:   "drag",
	Short: "Resolve a pointer drag on a headless scene",
	Long: `Cast a pointer drag against a headless camera looking at the puzzle and
print the turn it resolves to. Pixel coordinates have the origin at the top
left of the viewport.

Examples:
  twisty drag --from 300,260 --to 330,260
  twisty drag --setup "x0 y1" --from 300,260 --to 300,230`,
	RunE: runDrag,
}

func init() {
	rootCmd.AddCommand(dragCmd)
	dragCmd.Flags().StringVar(&dragFrom, "from", "", "Pointer-down position x,y")
	dragCmd.Flags().StringVar(&dragTo, "to", "", "Pointer-up position x,y")
	dragCmd.Flags().Float64Var(&dragWidth, "width", 640, "Viewport width in pixels")
	dragCmd.Flags().Float64Var(&dragHeight, "height", 480, "Viewport height in pixels")
	dragCmd.Flags().StringVar(&dragSetup, "setup", "", "Moves applied before the drag")
	_ = dragCmd.MarkFlagRequired("from")
	_ = dragCmd.MarkFlagRequired("to")
}

func parsePoint(s string) (twisty.Point, error) {
	x, y, ok := strings.Cut(s, ",")
	if !ok {
		return twisty.Point{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	px, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
	if err != nil {
		return twisty.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	py, err := strconv.ParseFloat(strings.TrimSpace(y), 64)
	if err != nil {
		return twisty.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return twisty.Point{X: px, Y: py}, nil
}

func runDrag(cmd *cobra.Command, args []string) error {
	from, err := parsePoint(dragFrom)
	if err != nil {
		return err
	}
	to, err := parsePoint(dragTo)
	if err != nil {
		return err
	}

	p, _, cleanup, err := newSession("drag")
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if dragSetup != "" {
		if err := p.ApplyNotation(ctx, dragSetup); err != nil {
			return fmt.Errorf("failed to apply setup: %w", err)
		}
	}

	cam := scene.DefaultCamera(dragWidth, dragHeight)
	hits := scene.NewHitTester(cam, p.State())
	r := p.NewGestureResolver(hits, cam)

	if !r.PointerDown(from) {
		fmt.Println(statusStyle.Render("No cube under the pointer; nothing to turn."))
		return nil
	}
	r.PointerMove(to)
	m, resolved := r.Resolution()
	if err := r.PointerUp(to); err != nil {
		return fmt.Errorf("failed to submit turn: %w", err)
	}
	if !resolved {
		fmt.Println(statusStyle.Render("Drag too short; nothing to turn."))
		return nil
	}

	if err := p.Wait(ctx); err != nil {
		return err
	}

	fmt.Printf("Resolved: %s\n", moveStyle.Render(m.Notation()))
	fmt.Println(renderNet(p.Net()))
	return nil
}
