package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	defaultExternalWidth  = 36
	defaultExternalHeight = 7

	extGlyph = "↗"
)

// External is an assistant card that links somewhere else.
type External struct {
	Label   string
	Title   string
	Content string
	// OnClick is optional; Click is a no-op without it.
	OnClick func()
	// ActionRequired draws the card with the action border.
	ActionRequired bool
	Width          int
	Height         int
	// Ext marks the card as leading outside the app.
	Ext bool
	// Hover highlights the card under the cursor.
	Hover bool
}

// Click invokes OnClick when set.
func (e External) Click() {
	if e.OnClick != nil {
		e.OnClick()
	}
}

func (e External) size() (int, int) {
	w, h := e.Width, e.Height
	if w <= 0 {
		w = defaultExternalWidth
	}
	if h <= 0 {
		h = defaultExternalHeight
	}
	if w < 8 {
		w = 8
	}
	if h < 4 {
		h = 4
	}
	return w, h
}

func (e External) Render() string {
	width, height := e.size()
	innerWidth := width - 4 // border + padding

	border := lipgloss.RoundedBorder()
	borderColor := ColorBorder
	if e.Hover {
		borderColor = ColorAccent
	}
	if e.ActionRequired {
		border = lipgloss.ThickBorder()
		borderColor = ColorAction
	}

	labelStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	titleStyle := lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	contentStyle := lipgloss.NewStyle().Foreground(ColorText)

	title := e.Title
	if e.Ext {
		title = ansi.Truncate(title, max(1, innerWidth-2), "…") + " " + extGlyph
	} else {
		title = ansi.Truncate(title, innerWidth, "…")
	}

	lines := []string{
		labelStyle.Render(ansi.Truncate(e.Label, innerWidth, "…")),
		titleStyle.Render(title),
	}
	bodyRows := height - 2 - len(lines)
	for i, line := range wrap(e.Content, innerWidth) {
		if i >= bodyRows {
			break
		}
		lines = append(lines, contentStyle.Render(line))
	}

	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}

// wrap breaks s into lines of at most width cells.
func wrap(s string, width int) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}
