package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Modal renders body as a titled card centred over base. The base is clipped
// or padded to exactly width x height cells first.
func Modal(base, title, body string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	canvas := canvasLines(base, width, height)

	content := body
	if title != "" {
		heading := lipgloss.NewStyle().Foreground(ColorText).Bold(true).Render(title)
		content = heading + "\n\n" + body
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(1, 2).
		Render(content)

	cardLines := strings.Split(card, "\n")
	cardWidth := 0
	for _, line := range cardLines {
		cardWidth = max(cardWidth, ansi.StringWidth(line))
	}
	x := max((width-cardWidth)/2, 0)
	y := max((height-len(cardLines))/2, 0)

	for i, line := range cardLines {
		row := y + i
		if row >= height {
			break
		}
		canvas[row] = splice(canvas[row], padCells(line, cardWidth), x, width)
	}
	return strings.Join(canvas, "\n")
}

// splice writes over onto line starting at column x, keeping whatever of line
// lies to either side.
func splice(line, over string, x, width int) string {
	left := padCells(ansi.Truncate(line, x, ""), x)
	end := x + ansi.StringWidth(over)
	right := ""
	if end < width {
		head := ansi.Truncate(line, end, "")
		right = strings.TrimPrefix(line, head)
	}
	return padCells(left+over+right, width)
}

func canvasLines(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padCells(lines[i], width)
	}
	return lines
}

// padCells clips or right-pads s to exactly width display cells.
func padCells(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
