package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/stakedash/internal/bond"
	"github.com/jask/stakedash/internal/chain"
	"github.com/jask/stakedash/internal/extrinsic"
	"github.com/jask/stakedash/internal/tui/widgets"
	"github.com/jask/stakedash/internal/units"
)

type formFocus int

const (
	focusInput formFocus = iota
	focusBack
	focusSubmit
)

type formAction int

const (
	actionNone formAction = iota
	actionBack
	actionSubmit
)

// unbondSome is the "Unbond Some" section of the Update Bond modal.
type unbondSome struct {
	form      *bond.UnbondForm
	input     textinput.Model
	submitter *extrinsic.Submitter
	network   chain.Network
	focus     formFocus
	resizes   int
	// closeRequested is set by the submit callback, which runs off the UI loop.
	closeRequested atomic.Bool
}

func newUnbondSome(client chain.Client) *unbondSome {
	u := &unbondSome{
		submitter: extrinsic.New(client),
		network:   client.Network(),
	}
	u.input = textinput.New()
	u.input.Prompt = ""
	u.input.CharLimit = 40
	u.input.Width = 20
	u.input.Cursor.SetMode(cursor.CursorStatic)
	u.input.Focus()
	u.form = bond.NewUnbondForm(u.resize)
	return u
}

// resize runs whenever the draft bond changes and keeps the text field in step
// with it.
func (u *unbondSome) resize() {
	u.resizes++
	if v := u.form.Input(); u.input.Value() != v {
		u.input.SetValue(v)
		u.input.CursorEnd()
	}
}

func (u *unbondSome) options() extrinsic.Options {
	return extrinsic.Options{
		Tx:              u.form.Tx(),
		From:            u.form.From(),
		ShouldSubmit:    u.form.BondValid(),
		CallbackSubmit:  func() { u.closeRequested.Store(true) },
		CallbackInBlock: func() {},
	}
}

// apply feeds fresh inputs to the form and re-arms the submitter.
func (u *unbondSome) apply(ctx context.Context, in bond.Inputs) tea.Cmd {
	u.form.Apply(in)
	return u.sync(ctx)
}

func (u *unbondSome) sync(ctx context.Context) tea.Cmd {
	u.submitter.Update(u.options())
	s := u.submitter
	return func() tea.Msg {
		fee, err := s.EstimateFee(ctx)
		return feeMsg{Fee: fee, Err: err}
	}
}

func (u *unbondSome) submitCmd(ctx context.Context) tea.Cmd {
	u.submitter.Update(u.options())
	s := u.submitter
	return func() tea.Msg {
		receipt, err := s.Submit(ctx)
		return submitDoneMsg{Receipt: receipt, Err: err}
	}
}

func (u *unbondSome) handleKey(ctx context.Context, k keyMap, m tea.KeyMsg) (tea.Cmd, formAction) {
	switch {
	case key.Matches(m, k.Back):
		return nil, actionBack
	case key.Matches(m, k.FocusNext):
		u.setFocus((u.focus + 1) % 3)
		return nil, actionNone
	case key.Matches(m, k.FocusPrev):
		u.setFocus((u.focus + 2) % 3)
		return nil, actionNone
	case key.Matches(m, k.Select):
		if u.focus == focusBack {
			return nil, actionBack
		}
		return nil, actionSubmit
	}
	if u.focus != focusInput {
		return nil, actionNone
	}
	before := u.input.Value()
	u.input, _ = u.input.Update(m)
	if u.input.Value() == before {
		return nil, actionNone
	}
	u.form.SetBondInput(u.input.Value())
	return u.sync(ctx), actionNone
}

func (u *unbondSome) setFocus(f formFocus) {
	u.focus = f
	if f == focusInput {
		u.input.Focus()
	} else {
		u.input.Blur()
	}
}

func (u *unbondSome) canSubmit() bool {
	return u.form.Tx() != nil && !u.submitter.Submitting()
}

func (u *unbondSome) View() string {
	d := u.form.Derived()
	muted := lipgloss.NewStyle().Foreground(widgets.ColorMuted)
	warn := lipgloss.NewStyle().Foreground(widgets.ColorError)

	var b strings.Builder
	heading := "Unbond"
	if u.form.Mode() == bond.Pooling {
		heading = "Unbond from pool"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(heading))
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("Unbondable: %s %s", units.FormatUnit(d.UpperBound), u.network.Unit)))
	b.WriteString("\n\n")

	field := u.input.View()
	if u.focus == focusInput {
		field = lipgloss.NewStyle().Foreground(widgets.ColorAccent).Render("▸ ") + field
	} else {
		field = "  " + field
	}
	b.WriteString(field + " " + u.network.Unit + "\n")
	if fb := u.form.Feedback(); fb != "" {
		b.WriteString(warn.Render(fb) + "\n")
	}
	for _, w := range u.warnings() {
		b.WriteString(warn.Render(w) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("Once unbonding, you must wait %d days for your funds to become available.", u.network.BondingDurationDays)))
	b.WriteString("\n")
	b.WriteString(muted.Render("Estimated Tx Fee: " + u.feeText()))
	b.WriteString("\n\n")

	footer := widgets.Footer{
		Submitting: u.submitter.Submitting(),
		Disabled:   !u.canSubmit(),
	}
	switch u.focus {
	case focusBack:
		footer.Focus = 0
	case focusSubmit:
		footer.Focus = 1
	default:
		footer.Focus = -1
	}
	b.WriteString(footer.Render())
	return b.String()
}

func (u *unbondSome) warnings() []string {
	in := u.form.Inputs()
	var out []string
	if !in.Connected {
		out = append(out, "Not connected to the network.")
	}
	if in.ActiveAccount == "" {
		out = append(out, "No active account.")
	}
	if in.Mode == bond.Staking && in.ControllerImported {
		out = append(out, "Unbond is unavailable while the controller account is imported.")
	}
	return out
}

func (u *unbondSome) feeText() string {
	fee := u.submitter.EstimatedFee()
	if fee == nil {
		return "..."
	}
	return units.Format(*fee, u.form.UnitsExp(), 6) + " " + u.network.Unit
}
