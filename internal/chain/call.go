// Package chain defines the calls this client builds and the collaborator that
// estimates fees for and submits them.
package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/jask/stakedash/internal/units"
)

const (
	PalletStaking = "staking"
	PalletPools   = "nominationPools"

	MethodUnbond = "unbond"
)

// Call is an unsigned extrinsic call.
type Call struct {
	Pallet string
	Method string
	Args   []any
}

// StakingUnbond schedules value of the signer's stake for unbonding.
func StakingUnbond(value units.Planck) Call {
	return Call{Pallet: PalletStaking, Method: MethodUnbond, Args: []any{value}}
}

// PoolUnbond schedules value of member's pool points for unbonding.
func PoolUnbond(member string, value units.Planck) Call {
	return Call{Pallet: PalletPools, Method: MethodUnbond, Args: []any{member, value}}
}

// Name is "pallet.method".
func (c Call) Name() string { return c.Pallet + "." + c.Method }

func (c Call) String() string {
	return c.Name() + "(" + c.ArgString() + ")"
}

// ArgString renders the arguments comma separated.
func (c Call) ArgString() string {
	parts := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, ", ")
}

// Network is the metadata of the connected network.
type Network struct {
	Name string
	Unit string
	// Units is the display exponent: 1 Unit = 10^Units planck.
	Units               uint8
	BondingDurationDays int
}

// Status is the lifecycle stage of a submitted extrinsic.
type Status string

const (
	StatusReady     Status = "ready"
	StatusInBlock   Status = "in_block"
	StatusFinalized Status = "finalized"
)

// Receipt describes an accepted submission.
type Receipt struct {
	Hash        string
	Status      Status
	BlockNumber uint64
	Fee         units.Planck
}

// Client is the chain connection the dashboard talks to.
type Client interface {
	Connected() bool
	Network() Network
	EstimateFee(ctx context.Context, call Call, from string) (units.Planck, error)
	Submit(ctx context.Context, call Call, from string) (Receipt, error)
}
