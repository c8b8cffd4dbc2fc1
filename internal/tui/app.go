package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"

	"github.com/jask/stakedash/internal/bond"
	"github.com/jask/stakedash/internal/chain"
	"github.com/jask/stakedash/internal/database/repository"
	"github.com/jask/stakedash/internal/extrinsic"
	"github.com/jask/stakedash/internal/staking"
)

const historyLimit = 20

// App ties together views.
type App struct {
	ctx      context.Context
	deps     Deps
	keys     keyMap
	state    appState
	overview staking.Overview
	history  []repository.Extrinsic
	sections []assistantSection

	cardCursor int
	modal      *updateBond
	// clickCmd collects the command requested by a clicked card.
	clickCmd tea.Cmd
	openOn   *bond.Mode

	width  int
	height int
	status string
}

type Deps struct {
	Service    *staking.Service
	Client     chain.Client
	Extrinsics *repository.ExtrinsicRepo
	// OpenURL opens external links; defaults to the system browser.
	OpenURL func(string) error
}

// connectionToggler is implemented by clients whose connection can be
// switched from the UI.
type connectionToggler interface {
	SetConnected(bool)
}

type appState string

const (
	viewDashboard appState = "dashboard"
	viewAssistant appState = "assistant"
	viewHistory   appState = "history"
)

var viewOrder = []appState{viewDashboard, viewAssistant, viewHistory}

func New(ctx context.Context, deps Deps) *App {
	if deps.OpenURL == nil {
		deps.OpenURL = browser.OpenURL
	}
	a := &App{
		ctx:   ctx,
		deps:  deps,
		keys:  defaultKeys(),
		state: viewDashboard,
	}
	a.sections = a.assistantSections()
	return a
}

// OpenOnStart opens the Update Bond modal for mode once the app starts.
func (a *App) OpenOnStart(mode bond.Mode) {
	a.openOn = &mode
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadOverview(), a.loadHistory()}
	if a.openOn != nil {
		cmds = append(cmds, a.openUpdateBond(*a.openOn))
	}
	return tea.Batch(cmds...)
}

func (a *App) loadOverview() tea.Cmd {
	svc := a.deps.Service
	ctx := a.ctx
	return func() tea.Msg {
		ov, err := svc.Overview(ctx)
		if err != nil {
			return errMsg{err}
		}
		return overviewMsg(ov)
	}
}

func (a *App) loadHistory() tea.Cmd {
	repo := a.deps.Extrinsics
	ctx := a.ctx
	return func() tea.Msg {
		if repo == nil {
			return historyMsg(nil)
		}
		list, err := repo.List(ctx, historyLimit)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(list)
	}
}

func (a *App) loadSnapshot(mode bond.Mode) tea.Cmd {
	svc := a.deps.Service
	ctx := a.ctx
	return func() tea.Msg {
		in, err := svc.Snapshot(ctx, mode)
		if err != nil {
			return errMsg{err}
		}
		return snapshotMsg{Mode: mode, Inputs: in}
	}
}

func (a *App) reload() tea.Cmd {
	cmds := []tea.Cmd{a.loadOverview(), a.loadHistory()}
	if a.modal.open() {
		cmds = append(cmds, a.loadSnapshot(a.modal.target))
	}
	return tea.Batch(cmds...)
}

func (a *App) openUpdateBond(mode bond.Mode) tea.Cmd {
	a.modal = &updateBond{
		status: modalOpen,
		target: mode,
		unbond: newUnbondSome(a.deps.Client),
	}
	return a.loadSnapshot(mode)
}

func (a *App) closeModal() {
	if a.modal != nil {
		a.modal.setStatus(modalClosed)
	}
	a.modal = nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		if a.modal.open() {
			return a, a.handleModalKey(m)
		}
		return a.handleKey(m)
	case overviewMsg:
		a.overview = staking.Overview(m)
		a.sections = a.assistantSections()
		if n := len(a.assistantCards()); a.cardCursor >= n {
			a.cardCursor = max(n-1, 0)
		}
	case historyMsg:
		a.history = []repository.Extrinsic(m)
	case snapshotMsg:
		if a.modal.open() && a.modal.target == m.Mode {
			return a, a.modal.unbond.apply(a.ctx, m.Inputs)
		}
	case feeMsg:
		if m.Err != nil {
			log.Ctx(a.ctx).Warn().Err(m.Err).Msg("fee estimate failed")
		}
	case submitDoneMsg:
		return a, a.handleSubmitDone(m)
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.NextView):
		for i, s := range viewOrder {
			if s == a.state {
				a.state = viewOrder[(i+1)%len(viewOrder)]
				break
			}
		}
	case key.Matches(m, a.keys.UnbondStake):
		return a, a.openUpdateBond(bond.Staking)
	case key.Matches(m, a.keys.UnbondPool):
		return a, a.openUpdateBond(bond.Pooling)
	case key.Matches(m, a.keys.Account):
		return a, a.nextAccount()
	case key.Matches(m, a.keys.Connection):
		return a, a.toggleConnection()
	case key.Matches(m, a.keys.Reload):
		return a, a.reload()
	case a.state == viewAssistant && (key.Matches(m, a.keys.Down) || key.Matches(m, a.keys.Right)):
		if n := len(a.assistantCards()); n > 0 {
			a.cardCursor = (a.cardCursor + 1) % n
		}
	case a.state == viewAssistant && (key.Matches(m, a.keys.Up) || key.Matches(m, a.keys.Left)):
		if n := len(a.assistantCards()); n > 0 {
			a.cardCursor = (a.cardCursor + n - 1) % n
		}
	case a.state == viewAssistant && key.Matches(m, a.keys.Select):
		return a, a.clickCard()
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) tea.Cmd {
	if m.String() == "ctrl+c" {
		return tea.Quit
	}
	if a.modal.section == sectionTasks {
		switch {
		case key.Matches(m, a.keys.Back):
			a.closeModal()
		case key.Matches(m, a.keys.Up):
			a.modal.cursor = (a.modal.cursor + len(bondTasks) - 1) % len(bondTasks)
		case key.Matches(m, a.keys.Down):
			a.modal.cursor = (a.modal.cursor + 1) % len(bondTasks)
		case key.Matches(m, a.keys.Select):
			a.modal.section = sectionUnbondSome
			a.modal.unbond.setFocus(focusInput)
		}
		return nil
	}

	cmd, action := a.modal.unbond.handleKey(a.ctx, a.keys, m)
	switch action {
	case actionBack:
		a.modal.section = sectionTasks
	case actionSubmit:
		u := a.modal.unbond
		if !u.canSubmit() {
			a.status = "nothing to submit"
			return cmd
		}
		a.status = "submitting " + u.form.Tx().String()
		return tea.Batch(cmd, u.submitCmd(a.ctx))
	}
	return cmd
}

func (a *App) handleSubmitDone(m submitDoneMsg) tea.Cmd {
	closeRequested := a.modal != nil && a.modal.unbond.closeRequested.Swap(false)
	if m.Err != nil {
		if extrinsic.CodeOf(m.Err) == extrinsic.NotSubmittable {
			a.status = "nothing to submit"
		} else {
			a.status = fmt.Sprintf("error: %s: %s", extrinsic.CodeOf(m.Err), m.Err)
		}
		return a.reload()
	}
	a.status = fmt.Sprintf("submitted %s (%s, block #%d)", shortHash(m.Receipt.Hash), m.Receipt.Status, m.Receipt.BlockNumber)
	if closeRequested {
		a.closeModal()
	}
	return a.reload()
}

func (a *App) nextAccount() tea.Cmd {
	accounts := a.overview.Accounts
	if len(accounts) == 0 {
		a.status = "no accounts"
		return nil
	}
	current := a.deps.Service.ActiveAccount()
	next := 0
	for i, acct := range accounts {
		if acct.Address == current {
			next = (i + 1) % len(accounts)
			break
		}
	}
	a.deps.Service.SetActiveAccount(accounts[next].Address)
	a.status = "active account: " + accounts[next].Label()
	return a.reload()
}

func (a *App) toggleConnection() tea.Cmd {
	t, ok := a.deps.Client.(connectionToggler)
	if !ok {
		a.status = "connection is not switchable"
		return nil
	}
	connected := !a.deps.Client.Connected()
	t.SetConnected(connected)
	if connected {
		a.status = "connected to " + a.deps.Client.Network().Name
	} else {
		a.status = "disconnected"
	}
	return a.reload()
}

func shortHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:8] + "…" + h[len(h)-4:]
}
