package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/stakedash/internal/bond"
	"github.com/jask/stakedash/internal/tui/widgets"
	"github.com/jask/stakedash/internal/units"
)

type modalStatus int

const (
	modalClosed modalStatus = iota
	modalOpen
)

type bondSection int

const (
	sectionTasks bondSection = iota
	sectionUnbondSome
)

var bondTasks = []string{"Unbond Some"}

// updateBond is the Update Bond modal for one target.
type updateBond struct {
	status  modalStatus
	target  bond.Mode
	section bondSection
	cursor  int
	unbond  *unbondSome
}

func (m *updateBond) setStatus(s modalStatus) {
	m.status = s
}

func (m *updateBond) open() bool {
	return m != nil && m.status == modalOpen
}

func (m *updateBond) title() string {
	if m.target == bond.Pooling {
		return "Update Bond · Pool"
	}
	return "Update Bond"
}

func (m *updateBond) View() string {
	if m.section == sectionUnbondSome {
		return m.unbond.View()
	}
	d := m.unbond.form.Derived()
	muted := lipgloss.NewStyle().Foreground(widgets.ColorMuted)
	var b strings.Builder
	b.WriteString(muted.Render(fmt.Sprintf("Bonded: %s %s", units.FormatUnit(d.FreeToUnbond), m.unbond.network.Unit)))
	b.WriteString("\n\n")
	for i, task := range bondTasks {
		prefix := "  "
		if i == m.cursor {
			prefix = lipgloss.NewStyle().Foreground(widgets.ColorAccent).Render("▸ ")
		}
		b.WriteString(prefix + task + "\n")
	}
	b.WriteString("\n")
	b.WriteString(muted.Render("enter select · esc close"))
	return b.String()
}
