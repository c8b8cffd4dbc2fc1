package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	NextView    key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Select      key.Binding
	Account     key.Binding
	Connection  key.Binding
	UnbondStake key.Binding
	UnbondPool  key.Binding
	Reload      key.Binding
	Back        key.Binding
	FocusNext   key.Binding
	FocusPrev   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextView:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "view")),
		Up:          key.NewBinding(key.WithKeys("up", "k")),
		Down:        key.NewBinding(key.WithKeys("down", "j")),
		Left:        key.NewBinding(key.WithKeys("left", "h")),
		Right:       key.NewBinding(key.WithKeys("right", "l")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Account:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "account")),
		Connection:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect")),
		UnbondStake: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unbond stake")),
		UnbondPool:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "unbond pool")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		FocusNext:   key.NewBinding(key.WithKeys("tab")),
		FocusPrev:   key.NewBinding(key.WithKeys("shift+tab")),
	}
}

func (k keyMap) dashboardHelp() []key.Binding {
	return []key.Binding{k.NextView, k.Account, k.UnbondStake, k.UnbondPool, k.Connection, k.Reload, k.Quit}
}
