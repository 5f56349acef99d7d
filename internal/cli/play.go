package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive puzzle in the terminal",
	Long: `Start an interactive TUI with animated turns.

Keyboard shortcuts:
  x/y/z     - Select the turn axis
  0-9       - Select the layer
  f/enter   - Turn the selected layer forward
  b/'       - Turn the selected layer backward
  u         - Undo the last turn
  s         - Shuffle with animated turns
  q/Esc     - Quit`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

// Messages
type frameMsg struct{ frame twisty.Frame }
type turnMsg struct{ move twisty.Move }
type solvedMsg struct{}

type playModel struct {
	puzzle    *twisty.Puzzle
	sessionID string

	frames chan twisty.Frame
	turns  chan twisty.Move
	solved chan struct{}

	// Selection
	axis  twisty.Axis
	layer int

	// Animation
	frame     *twisty.Frame
	lastMoves []twisty.Move
	solvedAt  time.Time

	err      error
	quitting bool
}

func newPlayModel() (*playModel, func(), error) {
	m := &playModel{
		frames: make(chan twisty.Frame, 64),
		turns:  make(chan twisty.Move, 64),
		solved: make(chan struct{}, 1),
		axis:   twisty.AxisX,
	}

	onFrame := func(f twisty.Frame) {
		select {
		case m.frames <- f:
		default:
		}
	}

	p, sessionID, cleanup, err := newSession("play", twisty.WithAnimation(cfg.TurnDuration, onFrame))
	if err != nil {
		return nil, nil, err
	}
	p.OnTurn(func(mv twisty.Move) {
		select {
		case m.turns <- mv:
		default:
		}
	})
	p.OnSolved(func() {
		select {
		case m.solved <- struct{}{}:
		default:
		}
	})

	m.puzzle = p
	m.sessionID = sessionID
	return m, cleanup, nil
}

func (m *playModel) Init() tea.Cmd {
	return tea.Batch(m.listenFrames(), m.listenTurns(), m.listenSolved())
}

func (m *playModel) listenFrames() tea.Cmd {
	return func() tea.Msg {
		return frameMsg{frame: <-m.frames}
	}
}

func (m *playModel) listenTurns() tea.Cmd {
	return func() tea.Msg {
		return turnMsg{move: <-m.turns}
	}
}

func (m *playModel) listenSolved() tea.Cmd {
	return func() tea.Msg {
		<-m.solved
		return solvedMsg{}
	}
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case frameMsg:
		f := msg.frame
		m.frame = &f
		if f.Progress >= 1 {
			m.frame = nil
		}
		return m, m.listenFrames()

	case turnMsg:
		m.lastMoves = append(m.lastMoves, msg.move)
		if len(m.lastMoves) > 12 {
			m.lastMoves = m.lastMoves[len(m.lastMoves)-12:]
		}
		return m, m.listenTurns()

	case solvedMsg:
		m.solvedAt = time.Now()
		return m, m.listenSolved()
	}
	return m, nil
}

func (m *playModel) handleKey(key string) (tea.Model, tea.Cmd) {
	m.err = nil

	switch key {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "x", "y", "z":
		m.axis, _ = twisty.ParseAxis(key)

	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		layer := int(key[0] - '0')
		if layer < m.puzzle.Size() {
			m.layer = layer
		}

	case "f", "enter":
		m.err = m.puzzle.Turn(m.axis, m.layer, twisty.Forward)

	case "b", "'":
		m.err = m.puzzle.Turn(m.axis, m.layer, twisty.Backward)

	case "u":
		moves := m.puzzle.Moves()
		if len(moves) > 0 && m.puzzle.Pending() == 0 {
			m.err = m.puzzle.Enqueue(moves[len(moves)-1].Inverse())
		}

	case "s":
		_, m.err = m.puzzle.ShuffleAnimated(cfg.ShuffleMoves)
	}
	return m, nil
}

func (m *playModel) View() string {
	if m.quitting {
		msg := "Goodbye!\n"
		if m.sessionID != "" {
			msg += fmt.Sprintf("Session saved: %s\n", m.sessionID)
		}
		return msg
	}

	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render(fmt.Sprintf("twisty %d×%d×%d", m.puzzle.Size(), m.puzzle.Size(), m.puzzle.Size())))
	b.WriteString("\n\n")

	b.WriteString(renderNet(m.puzzle.Net()))
	b.WriteString("\n\n")

	// Selection and animation
	b.WriteString(fmt.Sprintf("Selected: %s  ", moveStyle.Render(fmt.Sprintf("%s%d", m.axis, m.layer))))
	if m.frame != nil {
		b.WriteString(progressBar(m.frame.Progress, 20))
		b.WriteString(" " + m.frame.Move.Notation())
	}
	b.WriteString("\n")

	status := fmt.Sprintf("Turns: %d  Queued: %d  ", m.puzzle.Turns(), m.puzzle.Pending())
	b.WriteString(statusStyle.Render(status))
	b.WriteString(solvedLabel(m.puzzle.IsSolved()))
	if !m.solvedAt.IsZero() && time.Since(m.solvedAt) < 3*time.Second {
		b.WriteString("  " + titleStyle.Render("SOLVED!"))
	}
	b.WriteString("\n")

	if len(m.lastMoves) > 0 {
		b.WriteString("Recent: " + moveStyle.Render(twisty.FormatMoves(m.lastMoves)) + "\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("x/y/z axis • 0-9 layer • f forward • b backward • u undo • s shuffle • q quit"))
	return b.String()
}

func progressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func runPlay(cmd *cobra.Command, args []string) error {
	model, cleanup, err := newPlayModel()
	if err != nil {
		return err
	}
	defer cleanup()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Let queued turns reach the journal before the session ends.
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	return model.puzzle.Wait(ctx)
}
