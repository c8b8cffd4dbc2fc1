package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/stakedash/internal/tui/widgets"
	"github.com/jask/stakedash/internal/units"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(widgets.ColorMuted)
	okStyle     = lipgloss.NewStyle().Foreground(widgets.ColorSuccess)
	errorStyle  = lipgloss.NewStyle().Foreground(widgets.ColorError)
	activeStyle = lipgloss.NewStyle().Foreground(widgets.ColorAccent).Bold(true)
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewAssistant:
		body = a.renderAssistant()
	case viewHistory:
		body = a.renderHistory()
	default:
		body = a.renderDashboard()
	}
	body = a.renderHeader() + "\n\n" + body + "\n\n" + a.renderStatus()

	if !a.modal.open() {
		return body
	}
	if a.width <= 0 || a.height <= 0 {
		return body + "\n\n" + titleStyle.Render(a.modal.title()) + "\n" + a.modal.View()
	}
	return widgets.Modal(body, a.modal.title(), a.modal.View(), a.width, a.height)
}

func (a *App) renderHeader() string {
	net := a.deps.Client.Network()
	conn := okStyle.Render("● connected")
	if !a.deps.Client.Connected() {
		conn = errorStyle.Render("○ offline")
	}
	account := "no account"
	if a.overview.Account.Address != "" {
		account = a.overview.Account.Label()
	}
	tabs := make([]string, 0, len(viewOrder))
	for _, v := range viewOrder {
		label := string(v)
		if v == a.state {
			label = activeStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		tabs = append(tabs, label)
	}
	return fmt.Sprintf("%s  %s  %s  %s\n%s",
		titleStyle.Render("stakedash"), net.Name, account, conn, strings.Join(tabs, " · "))
}

func (a *App) amount(p units.Planck) string {
	net := a.deps.Client.Network()
	return units.Format(p, net.Units, 4) + " " + net.Unit
}

func (a *App) paneWidth() int {
	if a.width > 0 {
		return a.width
	}
	return 72
}

func (a *App) renderDashboard() string {
	ov := a.overview
	width := a.paneWidth()

	var stake strings.Builder
	if ov.Account.Address == "" {
		stake.WriteString("No active account. Press a to pick one.")
	} else {
		fmt.Fprintf(&stake, "Account     %s\n", ov.Account.Address)
		fmt.Fprintf(&stake, "Free        %s\n", a.amount(ov.Account.FreeBalance))
		if ov.Controller == "" {
			stake.WriteString("Controller  not bonded\n")
		} else {
			fmt.Fprintf(&stake, "Controller  %s\n", ov.Controller)
		}
		fmt.Fprintf(&stake, "Bonded      %s\n", a.amount(ov.Stake.FreeToUnbond))
		fmt.Fprintf(&stake, "Unlocking   %s\n", a.amount(ov.Stake.TotalUnlocking))
		fmt.Fprintf(&stake, "Unlocked    %s", a.amount(ov.Stake.TotalUnlocked))
	}

	var pool strings.Builder
	if ov.Pool == nil {
		pool.WriteString("Not a pool member.")
	} else {
		fmt.Fprintf(&pool, "Pool        #%d %s\n", ov.Pool.ID, ov.Pool.Name)
		fmt.Fprintf(&pool, "Points      %s\n", a.amount(ov.PoolOptions.FreeToUnbond))
		fmt.Fprintf(&pool, "Unbonding   %s", a.amount(ov.PoolOptions.TotalUnlocking))
	}

	var accounts strings.Builder
	for _, acct := range ov.Accounts {
		marker := "  "
		if acct.Address == ov.Account.Address {
			marker = activeStyle.Render("▸ ")
		}
		imported := ""
		if acct.Imported {
			imported = mutedStyle.Render(" (imported)")
		}
		fmt.Fprintf(&accounts, "%s%s%s\n", marker, acct.Label(), imported)
	}

	return strings.Join([]string{
		widgets.Pane{Title: "Staking", Content: stake.String(), Focused: true}.Render(width, 8),
		widgets.Pane{Title: "Pool", Content: pool.String()}.Render(width, 5),
		widgets.Pane{Title: "Accounts", Content: strings.TrimRight(accounts.String(), "\n")}.Render(width, len(ov.Accounts)+2),
	}, "\n")
}

func (a *App) renderAssistant() string {
	var b strings.Builder
	i := 0
	for _, section := range a.sections {
		b.WriteString(titleStyle.Render(section.Heading))
		b.WriteString("\n")
		cards := make([]string, 0, len(section.Cards))
		for _, c := range section.Cards {
			card := c.External
			card.Hover = i == a.cardCursor
			cards = append(cards, card.Render())
			i++
		}
		b.WriteString(a.layoutCards(cards))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("←/→ move · enter open"))
	return b.String()
}

// layoutCards places cards side by side, wrapping to the terminal width.
func (a *App) layoutCards(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	width := a.paneWidth()
	var rows []string
	var row []string
	used := 0
	for _, c := range cards {
		w := lipgloss.Width(c)
		if len(row) > 0 && used+w+1 > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		if len(row) > 0 {
			row = append(row, " ")
			used++
		}
		row = append(row, c)
		used += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	return strings.Join(rows, "\n")
}

func (a *App) renderHistory() string {
	if len(a.history) == 0 {
		return widgets.Pane{Title: "Extrinsics", Content: "No extrinsics submitted yet."}.Render(a.paneWidth(), 3)
	}
	lines := make([]string, 0, len(a.history))
	for _, e := range a.history {
		lines = append(lines, fmt.Sprintf("#%-5d %-28s %-10s fee %s  %s",
			e.BlockNumber, e.Pallet+"."+e.Method, e.Status, a.amount(e.Fee), shortHash(e.Hash)))
	}
	return widgets.Pane{Title: "Extrinsics", Content: strings.Join(lines, "\n")}.Render(a.paneWidth(), len(lines)+2)
}

func (a *App) renderStatus() string {
	help := make([]string, 0, 8)
	for _, b := range a.keys.dashboardHelp() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	line := mutedStyle.Render(strings.Join(help, " · "))
	if a.status == "" {
		return line
	}
	style := okStyle
	if strings.HasPrefix(a.status, "error") {
		style = errorStyle
	}
	return style.Render(a.status) + "\n" + line
}
