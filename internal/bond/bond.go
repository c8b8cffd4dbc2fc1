// Package bond holds the bounded-amount logic behind the "unbond some" form:
// selecting the bond options for a mode, deriving the unbond ceiling, gating
// validity and building the unbond call.
package bond

import (
	"math"

	"github.com/jask/stakedash/internal/chain"
	"github.com/jask/stakedash/internal/units"
)

// Mode selects which bond the form operates on.
type Mode int

const (
	Staking Mode = iota
	Pooling
)

func (m Mode) String() string {
	switch m {
	case Pooling:
		return "pool"
	default:
		return "stake"
	}
}

// ParseMode accepts the config/target spelling of a mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "stake", "staking":
		return Staking, true
	case "pool", "pooling":
		return Pooling, true
	}
	return Staking, false
}

// Options is a per-account bond snapshot in planck.
type Options struct {
	FreeToBond        units.Planck
	FreeToUnbond      units.Planck
	TotalUnlocking    units.Planck
	TotalUnlocked     units.Planck
	TotalPossibleBond units.Planck
}

// Thresholds are the protocol minimums in planck.
type Thresholds struct {
	MinNominatorBond units.Planck
	MinJoinBond      units.Planck
}

// Inputs is everything the form reads from the outside world.
type Inputs struct {
	Mode               Mode
	Connected          bool
	ActiveAccount      string
	Controller         string
	ControllerImported bool
	StakeOptions       Options
	PoolOptions        Options
	Thresholds         Thresholds
	Units              uint8
}

// Derived holds the values computed from Inputs.
type Derived struct {
	FreeToUnbond float64
	Threshold    float64
	UpperBound   float64
	IsValid      bool
	// From is the account paying for and signing the call.
	From string
}

// Options returns the bond options that apply to the mode.
func (in Inputs) Options() Options {
	if in.Mode == Pooling {
		return in.PoolOptions
	}
	return in.StakeOptions
}

// Threshold returns the minimum that must stay bonded for the mode.
func (in Inputs) Threshold() units.Planck {
	if in.Mode == Pooling {
		return in.Thresholds.MinJoinBond
	}
	return in.Thresholds.MinNominatorBond
}

// Derive computes the unbond ceiling and validity for in. It has no side effects.
func Derive(in Inputs) Derived {
	free := units.ToUnit(in.Options().FreeToUnbond, in.Units)
	threshold := units.ToUnit(in.Threshold(), in.Units)

	d := Derived{
		FreeToUnbond: free,
		Threshold:    threshold,
		UpperBound:   UpperBound(free, threshold),
	}
	if in.Mode == Pooling {
		d.IsValid = true
		d.From = in.ActiveAccount
	} else {
		// staking unbond through this form requires the controller to not be
		// imported separately into the wallet
		d.IsValid = !in.ControllerImported
		d.From = in.Controller
	}
	return d
}

// UpperBound is max(free - threshold, 0).
func UpperBound(free, threshold float64) float64 {
	return math.Max(free-threshold, 0)
}

// BuildTx returns the unbond call for amount (display units) or nil when the
// call cannot be submitted yet.
func BuildTx(in Inputs, amount float64, bondValid bool) *chain.Call {
	if !bondValid || !in.Connected || in.ActiveAccount == "" {
		return nil
	}
	if in.Mode == Staking && in.ControllerImported {
		return nil
	}
	// the float round trip can overshoot the bound by a few planck at high
	// exponents; never ask for more than keeps the minimum bonded
	value := units.FromUnit(amount, in.Units).Min(in.Options().FreeToUnbond.Sub(in.Threshold()))
	if in.Mode == Pooling {
		c := chain.PoolUnbond(in.ActiveAccount, value)
		return &c
	}
	c := chain.StakingUnbond(value)
	return &c
}
