package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/cube"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	faceStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

// renderNet draws the six outer faces side by side with colored stickers.
func renderNet(net [6]twisty.FaceGrid) string {
	faces := make([]string, 0, len(net))
	for _, f := range cube.Faces {
		var b strings.Builder
		b.WriteString(statusStyle.Render(f.String()))
		for _, row := range net[f] {
			b.WriteString("\n")
			for _, c := range row {
				b.WriteString(sticker(c))
			}
		}
		faces = append(faces, faceStyle.Render(b.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, faces...)
}

func sticker(c twisty.Color) string {
	if c == twisty.None {
		return "  "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██")
}

func solvedLabel(solved bool) string {
	if solved {
		return moveStyle.Render("solved")
	}
	return statusStyle.Render("scrambled")
}
