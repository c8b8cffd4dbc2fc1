package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Footer is the Back / Submit row under a modal form.
type Footer struct {
	BackLabel  string
	Submitting bool
	Disabled   bool
	// Focus is 0 for Back, 1 for Submit.
	Focus int
}

func (f Footer) SubmitLabel() string {
	if f.Submitting {
		return "Submitting"
	}
	return "Submit"
}

func (f Footer) Render() string {
	back := f.BackLabel
	if back == "" {
		back = "Back"
	}
	button := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())

	backStyle := button.BorderForeground(ColorBorder).Foreground(ColorMuted)
	if f.Focus == 0 {
		backStyle = backStyle.BorderForeground(ColorAccent).Foreground(ColorText)
	}

	submitStyle := button.BorderForeground(ColorSuccess).Foreground(ColorSuccess).Bold(true)
	switch {
	case f.Disabled || f.Submitting:
		submitStyle = button.BorderForeground(ColorBorder).Foreground(ColorBorder)
	case f.Focus == 1:
		submitStyle = submitStyle.BorderForeground(ColorAccent)
	}

	label := f.SubmitLabel()
	if !f.Submitting {
		label = "↑ " + label
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		backStyle.Render("← "+back),
		strings.Repeat(" ", 2),
		submitStyle.Render(label),
	)
}
