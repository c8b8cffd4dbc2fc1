package tui

import (
	"github.com/jask/stakedash/internal/bond"
	"github.com/jask/stakedash/internal/chain"
	"github.com/jask/stakedash/internal/database/repository"
	"github.com/jask/stakedash/internal/staking"
	"github.com/jask/stakedash/internal/units"
)

type overviewMsg staking.Overview

type historyMsg []repository.Extrinsic

type snapshotMsg struct {
	Mode   bond.Mode
	Inputs bond.Inputs
}

type feeMsg struct {
	Fee *units.Planck
	Err error
}

type submitDoneMsg struct {
	Receipt chain.Receipt
	Err     error
}

type statusMsg string

type errMsg struct{ error }
