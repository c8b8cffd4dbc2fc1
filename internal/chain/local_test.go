package chain

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/stakedash/internal/database"
	"github.com/jask/stakedash/internal/database/repository"
	"github.com/jask/stakedash/internal/units"
)

func newDevChain(t *testing.T) (*LocalClient, *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db, 10))

	return NewLocalClient(db, Network{Name: "Dev", Unit: "DOT", Units: 10, BondingDurationDays: 28}, true), db
}

func dot(n uint64) units.Planck {
	return units.MustParse("1" + strings.Repeat("0", 10)).MulUint64(n)
}

func TestStakingUnbondMovesActiveToUnlocking(t *testing.T) {
	ctx := context.Background()
	client, db := newDevChain(t)

	receipt, err := client.Submit(ctx, StakingUnbond(dot(40)), database.DevDave)
	require.NoError(t, err)
	require.Equal(t, StatusInBlock, receipt.Status)
	require.EqualValues(t, 1, receipt.BlockNumber)
	require.True(t, strings.HasPrefix(receipt.Hash, "0x"))

	ledgers := repository.NewLedgerRepo(db)
	l, err := ledgers.ByStash(ctx, database.DevBob)
	require.NoError(t, err)
	require.Equal(t, dot(210), l.Active)

	chunks, err := ledgers.Unlocking(ctx, database.DevBob)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, dot(40), chunks[0].Value)
	require.EqualValues(t, 29, chunks[0].Era)

	// the controller paid the fee
	dave, err := repository.NewAccountRepo(db).Get(ctx, database.DevDave)
	require.NoError(t, err)
	require.Equal(t, dot(10).Sub(receipt.Fee), dave.FreeBalance)

	rec, err := repository.NewExtrinsicRepo(db).Get(ctx, receipt.Hash)
	require.NoError(t, err)
	require.Equal(t, "staking", rec.Pallet)
	require.Equal(t, database.DevDave, rec.Signer)
	require.Equal(t, "400000000000", rec.Args)
}

func TestStakingUnbondRejections(t *testing.T) {
	ctx := context.Background()
	client, _ := newDevChain(t)

	_, err := client.Submit(ctx, StakingUnbond(dot(1)), database.DevCharlie)
	var dispatch *DispatchError
	require.ErrorAs(t, err, &dispatch)
	require.Equal(t, "not a controller", dispatch.Reason)

	// leaving 5 behind would drop below the 10 DOT minimum
	_, err = client.Submit(ctx, StakingUnbond(dot(95)), database.DevAlice)
	require.ErrorAs(t, err, &dispatch)
	require.Contains(t, dispatch.Reason, "minimum nominator bond")

	_, err = client.Submit(ctx, StakingUnbond(units.Zero()), database.DevAlice)
	require.ErrorAs(t, err, &dispatch)

	// unbonding everything is allowed
	_, err = client.Submit(ctx, StakingUnbond(dot(100)), database.DevAlice)
	require.NoError(t, err)
}

func TestPoolUnbond(t *testing.T) {
	ctx := context.Background()
	client, db := newDevChain(t)

	_, err := client.Submit(ctx, PoolUnbond(database.DevCharlie, dot(20)), database.DevAlice)
	var dispatch *DispatchError
	require.ErrorAs(t, err, &dispatch)

	_, err = client.Submit(ctx, PoolUnbond(database.DevCharlie, dot(20)), database.DevCharlie)
	require.NoError(t, err)

	pools := repository.NewPoolRepo(db)
	m, err := pools.Member(ctx, database.DevCharlie)
	require.NoError(t, err)
	require.Equal(t, dot(30), m.Points)
	chunks, err := pools.Unbonding(ctx, database.DevCharlie)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

func TestRejectedSubmissionLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	client, db := newDevChain(t)

	_, err := client.Submit(ctx, StakingUnbond(dot(95)), database.DevAlice)
	require.Error(t, err)

	alice, err := repository.NewAccountRepo(db).Get(ctx, database.DevAlice)
	require.NoError(t, err)
	require.Equal(t, dot(1000), alice.FreeBalance)
	list, err := repository.NewExtrinsicRepo(db).List(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestDisconnectedAndUnknownCalls(t *testing.T) {
	ctx := context.Background()
	client, _ := newDevChain(t)

	_, err := client.EstimateFee(ctx, Call{Pallet: "balances", Method: "transfer"}, database.DevAlice)
	require.True(t, errors.Is(err, ErrUnknownCall))

	_, err = client.Submit(ctx, Call{Pallet: PalletStaking, Method: MethodUnbond, Args: []any{"ten"}}, database.DevAlice)
	require.True(t, errors.Is(err, ErrBadArgs))

	client.SetConnected(false)
	_, err = client.EstimateFee(ctx, StakingUnbond(dot(1)), database.DevAlice)
	require.ErrorIs(t, err, ErrDisconnected)
	_, err = client.Submit(ctx, StakingUnbond(dot(1)), database.DevAlice)
	require.ErrorIs(t, err, ErrDisconnected)
}

func TestEstimateFeeIsDeterministic(t *testing.T) {
	ctx := context.Background()
	client, _ := newDevChain(t)

	a, err := client.EstimateFee(ctx, StakingUnbond(dot(1)), database.DevAlice)
	require.NoError(t, err)
	b, err := client.EstimateFee(ctx, StakingUnbond(dot(1)), database.DevAlice)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.True(t, a.Cmp(dot(1)) < 0)
	require.False(t, a.IsZero())
}
