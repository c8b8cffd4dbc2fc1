package chain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jask/stakedash/internal/database"
	"github.com/jask/stakedash/internal/database/repository"
	"github.com/jask/stakedash/internal/units"
)

var (
	ErrDisconnected = errors.New("chain: not connected")
	ErrUnknownCall  = errors.New("chain: unknown call")
	ErrBadArgs      = errors.New("chain: bad call arguments")
)

// DispatchError is a call the runtime refused.
type DispatchError struct {
	Call   string
	Reason string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Call, e.Reason)
}

// LocalClient is a development chain kept in the sqlite store. It applies
// staking and pool unbond calls to the stored ledgers and records every
// accepted extrinsic.
type LocalClient struct {
	db        *sql.DB
	network   Network
	connected atomic.Bool
}

func NewLocalClient(db *sql.DB, network Network, connected bool) *LocalClient {
	c := &LocalClient{db: db, network: network}
	c.connected.Store(connected)
	return c
}

func (c *LocalClient) Connected() bool { return c.connected.Load() }

func (c *LocalClient) SetConnected(v bool) { c.connected.Store(v) }

func (c *LocalClient) Network() Network { return c.network }

// EstimateFee is a flat base fee plus a length fee over the encoded call.
func (c *LocalClient) EstimateFee(ctx context.Context, call Call, from string) (units.Planck, error) {
	if !c.Connected() {
		return units.Planck{}, ErrDisconnected
	}
	if err := validate(call); err != nil {
		return units.Planck{}, err
	}
	return c.fee(call, from), nil
}

func (c *LocalClient) fee(call Call, from string) units.Planck {
	// 0.01 unit base, 1/10^6 unit per encoded byte
	base := units.MustParse("1" + strings.Repeat("0", max(int(c.network.Units)-2, 0)))
	perByte := units.MustParse("1" + strings.Repeat("0", max(int(c.network.Units)-6, 0)))
	length := uint64(len(call.String()) + len(from))
	return base.Add(perByte.MulUint64(length))
}

func (c *LocalClient) Submit(ctx context.Context, call Call, from string) (Receipt, error) {
	if !c.Connected() {
		return Receipt{}, ErrDisconnected
	}
	if err := validate(call); err != nil {
		return Receipt{}, err
	}
	fee := c.fee(call, from)
	var receipt Receipt
	err := database.WithTx(ctx, c.db, func(tx *sql.Tx) error {
		params, err := repository.NewParamsRepo(tx).Get(ctx)
		if err != nil {
			return err
		}
		if err := chargeFee(ctx, tx, call, from, fee); err != nil {
			return err
		}
		switch call.Name() {
		case PalletStaking + "." + MethodUnbond:
			err = applyStakingUnbond(ctx, tx, params, call, from)
		case PalletPools + "." + MethodUnbond:
			err = applyPoolUnbond(ctx, tx, params, call, from)
		}
		if err != nil {
			return err
		}
		extrinsics := repository.NewExtrinsicRepo(tx)
		height, err := extrinsics.BlockHeight(ctx)
		if err != nil {
			return err
		}
		receipt = Receipt{
			Hash:        "0x" + strings.ReplaceAll(uuid.NewString(), "-", ""),
			Status:      StatusInBlock,
			BlockNumber: height + 1,
			Fee:         fee,
		}
		return extrinsics.Insert(ctx, repository.Extrinsic{
			Hash:        receipt.Hash,
			Pallet:      call.Pallet,
			Method:      call.Method,
			Args:        call.ArgString(),
			Signer:      from,
			Fee:         fee,
			Status:      string(receipt.Status),
			BlockNumber: receipt.BlockNumber,
		})
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("call", call.Name()).Str("from", from).Msg("extrinsic rejected")
		return Receipt{}, err
	}
	log.Ctx(ctx).Info().Str("call", call.String()).Str("from", from).Str("hash", receipt.Hash).
		Uint64("block", receipt.BlockNumber).Msg("extrinsic included")
	return receipt, nil
}

func validate(call Call) error {
	switch call.Name() {
	case PalletStaking + "." + MethodUnbond:
		if len(call.Args) != 1 {
			return fmt.Errorf("%w: %s takes 1 argument", ErrBadArgs, call.Name())
		}
		if _, ok := call.Args[0].(units.Planck); !ok {
			return fmt.Errorf("%w: %s value must be an amount", ErrBadArgs, call.Name())
		}
	case PalletPools + "." + MethodUnbond:
		if len(call.Args) != 2 {
			return fmt.Errorf("%w: %s takes 2 arguments", ErrBadArgs, call.Name())
		}
		if _, ok := call.Args[0].(string); !ok {
			return fmt.Errorf("%w: %s member must be an address", ErrBadArgs, call.Name())
		}
		if _, ok := call.Args[1].(units.Planck); !ok {
			return fmt.Errorf("%w: %s value must be an amount", ErrBadArgs, call.Name())
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCall, call.Name())
	}
	return nil
}

func chargeFee(ctx context.Context, tx *sql.Tx, call Call, from string, fee units.Planck) error {
	accounts := repository.NewAccountRepo(tx)
	acct, err := accounts.Get(ctx, from)
	if err != nil {
		return err
	}
	if acct == nil || acct.FreeBalance.Cmp(fee) < 0 {
		return &DispatchError{Call: call.Name(), Reason: "insufficient balance to pay fees"}
	}
	return accounts.SetFreeBalance(ctx, from, acct.FreeBalance.Sub(fee))
}

func applyStakingUnbond(ctx context.Context, tx *sql.Tx, params repository.NetworkParams, call Call, from string) error {
	value := call.Args[0].(units.Planck)
	ledgers := repository.NewLedgerRepo(tx)
	ledger, err := ledgers.ByController(ctx, from)
	if err != nil {
		return err
	}
	if ledger == nil {
		return &DispatchError{Call: call.Name(), Reason: "not a controller"}
	}
	remove := value.Min(ledger.Active)
	if remove.IsZero() {
		return &DispatchError{Call: call.Name(), Reason: "nothing to unbond"}
	}
	remaining := ledger.Active.Sub(remove)
	if !remaining.IsZero() && remaining.Cmp(params.MinNominatorBond) < 0 {
		return &DispatchError{Call: call.Name(), Reason: "insufficient bond: remaining stake below minimum nominator bond"}
	}
	if err := ledgers.SetActive(ctx, ledger.Stash, remaining); err != nil {
		return err
	}
	return ledgers.AddUnlocking(ctx, ledger.Stash, remove, params.CurrentEra+params.BondingDurationEras)
}

func applyPoolUnbond(ctx context.Context, tx *sql.Tx, params repository.NetworkParams, call Call, from string) error {
	member := call.Args[0].(string)
	value := call.Args[1].(units.Planck)
	if member != from {
		return &DispatchError{Call: call.Name(), Reason: "only the member can unbond its own points"}
	}
	pools := repository.NewPoolRepo(tx)
	m, err := pools.Member(ctx, member)
	if err != nil {
		return err
	}
	if m == nil {
		return &DispatchError{Call: call.Name(), Reason: "not a pool member"}
	}
	remove := value.Min(m.Points)
	if remove.IsZero() {
		return &DispatchError{Call: call.Name(), Reason: "nothing to unbond"}
	}
	remaining := m.Points.Sub(remove)
	if !remaining.IsZero() && remaining.Cmp(params.MinJoinBond) < 0 {
		return &DispatchError{Call: call.Name(), Reason: "minimum bond not met: remaining points below minimum join bond"}
	}
	if err := pools.SetPoints(ctx, member, remaining); err != nil {
		return err
	}
	return pools.AddUnbonding(ctx, member, remove, params.CurrentEra+params.BondingDurationEras)
}
