package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/stakedash/internal/bond"
	"github.com/jask/stakedash/internal/tui/widgets"
)

type assistantCard struct {
	widgets.External
	URL string
}

type assistantSection struct {
	Heading string
	Cards   []assistantCard
}

const (
	unbondingGuideURL = "https://wiki.polkadot.network/docs/learn-staking#unbonding-and-rebonding"
	poolsGuideURL     = "https://wiki.polkadot.network/docs/learn-nomination-pools"
	controllerDocURL  = "https://wiki.polkadot.network/docs/learn-controller"
)

// assistantSections builds the cards for the current overview. Clicking a
// card stores the command it wants run in a.clickCmd.
func (a *App) assistantSections() []assistantSection {
	open := func(url string) func() {
		return func() { a.clickCmd = a.openURLCmd(url) }
	}
	ov := a.overview

	staking := assistantSection{Heading: "Staking"}
	if !ov.Stake.FreeToUnbond.IsZero() {
		staking.Cards = append(staking.Cards, assistantCard{External: widgets.External{
			Label:   "Stake",
			Title:   "Unbond some",
			Content: "Move part of your active stake into unlocking.",
			OnClick: func() { a.clickCmd = a.openUpdateBond(bond.Staking) },
		}})
	}
	if !ov.Stake.TotalUnlocked.IsZero() {
		staking.Cards = append(staking.Cards, assistantCard{External: widgets.External{
			Label:          "Stake",
			Title:          "Funds unlocked",
			Content:        "Unbonded funds have passed the bonding duration and can be withdrawn.",
			ActionRequired: true,
		}})
	}
	staking.Cards = append(staking.Cards,
		assistantCard{URL: unbondingGuideURL, External: widgets.External{
			Label:   "Guide",
			Title:   "Unbonding and rebonding",
			Content: "How long unbonding takes and what happens to rewards meanwhile.",
			Ext:     true,
			OnClick: open(unbondingGuideURL),
		}},
		assistantCard{URL: controllerDocURL, External: widgets.External{
			Label:   "Guide",
			Title:   "Controller accounts",
			Content: "The controller signs staking calls on behalf of the stash.",
			Ext:     true,
			OnClick: open(controllerDocURL),
		}},
	)

	pools := assistantSection{Heading: "Pools"}
	if ov.Pool != nil && !ov.PoolOptions.FreeToUnbond.IsZero() {
		pools.Cards = append(pools.Cards, assistantCard{External: widgets.External{
			Label:   ov.Pool.Name,
			Title:   "Unbond from pool",
			Content: "Unbond part of your pool points.",
			OnClick: func() { a.clickCmd = a.openUpdateBond(bond.Pooling) },
		}})
	}
	pools.Cards = append(pools.Cards, assistantCard{URL: poolsGuideURL, External: widgets.External{
		Label:   "Guide",
		Title:   "Nomination pools",
		Content: "Pool members share rewards and unbond by points.",
		Ext:     true,
		OnClick: open(poolsGuideURL),
	}})

	return []assistantSection{staking, pools}
}

func (a *App) assistantCards() []assistantCard {
	var cards []assistantCard
	for _, s := range a.sections {
		cards = append(cards, s.Cards...)
	}
	return cards
}

func (a *App) clickCard() tea.Cmd {
	cards := a.assistantCards()
	if a.cardCursor < 0 || a.cardCursor >= len(cards) {
		return nil
	}
	a.clickCmd = nil
	cards[a.cardCursor].Click()
	cmd := a.clickCmd
	a.clickCmd = nil
	return cmd
}

func (a *App) openURLCmd(url string) tea.Cmd {
	opener := a.deps.OpenURL
	return func() tea.Msg {
		if err := opener(url); err != nil {
			return errMsg{err}
		}
		return statusMsg("opened " + url)
	}
}
