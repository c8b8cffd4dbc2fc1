package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Pane is a bordered dashboard section with its title set into the top edge.
type Pane struct {
	Title   string
	Content string
	Focused bool
}

func (p Pane) Render(width, height int) string {
	width = max(width, 6)
	height = max(height, 3)

	borderColor := ColorBorder
	if p.Focused {
		borderColor = ColorAccent
	}
	edge := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(ColorText).Bold(true)

	inner := width - 2
	text := ""
	if p.Title != "" {
		text = " " + ansi.Truncate(p.Title, max(inner-3, 1), "…") + " "
	}
	fill := max(inner-1-ansi.StringWidth(text), 0)
	if text == "" {
		fill = inner - 1
	}

	rows := make([]string, 0, height)
	rows = append(rows, edge.Render("╭─")+titleStyle.Render(text)+edge.Render(strings.Repeat("─", fill)+"╮"))

	body := strings.Split(p.Content, "\n")
	side := edge.Render("│")
	for i := 0; i < height-2; i++ {
		line := ""
		if i < len(body) {
			line = body[i]
		}
		rows = append(rows, side+" "+padCells(line, inner-2)+" "+side)
	}
	rows = append(rows, edge.Render("╰"+strings.Repeat("─", inner)+"╯"))
	return strings.Join(rows, "\n")
}
