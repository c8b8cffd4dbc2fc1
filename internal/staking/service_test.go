package staking

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/stakedash/internal/bond"
	"github.com/jask/stakedash/internal/chain"
	"github.com/jask/stakedash/internal/database"
	"github.com/jask/stakedash/internal/database/repository"
	"github.com/jask/stakedash/internal/units"
)

func newService(t *testing.T) (*Service, *chain.LocalClient) {
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

	client := chain.NewLocalClient(db, chain.Network{Name: "Dev", Unit: "DOT", Units: 10, BondingDurationDays: 28}, true)
	return &Service{
		Accounts: repository.NewAccountRepo(db),
		Ledgers:  repository.NewLedgerRepo(db),
		Pools:    repository.NewPoolRepo(db),
		Params:   repository.NewParamsRepo(db),
		Client:   client,
	}, client
}

func dot(n uint64) units.Planck {
	return units.MustParse("1" + strings.Repeat("0", 10)).MulUint64(n)
}

func TestResolveAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, err := svc.ResolveAccount(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, database.DevAlice, a.Address)

	a, err = svc.ResolveAccount(ctx, database.DevBob)
	require.NoError(t, err)
	require.Equal(t, "Bob", a.Name)

	_, err = svc.ResolveAccount(ctx, "Charly")
	require.ErrorContains(t, err, `did you mean "Charlie"`)

	_, err = svc.ResolveAccount(ctx, "zzzzzzzzzzzz")
	require.Error(t, err)
	require.NotContains(t, err.Error(), "did you mean")
}

func TestControllerLookups(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	ctrl, err := svc.BondedAccount(ctx, database.DevBob)
	require.NoError(t, err)
	require.Equal(t, database.DevDave, ctrl)

	imported, err := svc.ControllerImported(ctx, ctrl)
	require.NoError(t, err)
	require.False(t, imported)

	imported, err = svc.ControllerImported(ctx, database.DevAlice)
	require.NoError(t, err)
	require.True(t, imported)

	imported, err = svc.ControllerImported(ctx, "")
	require.NoError(t, err)
	require.False(t, imported)

	ctrl, err = svc.BondedAccount(ctx, database.DevCharlie)
	require.NoError(t, err)
	require.Empty(t, ctrl)
}

func TestBondOptionsAfterUnbond(t *testing.T) {
	ctx := context.Background()
	svc, client := newService(t)

	before, err := svc.BondOptions(ctx, database.DevBob)
	require.NoError(t, err)
	require.Equal(t, dot(250), before.FreeToUnbond)
	require.Equal(t, dot(250), before.FreeToBond)
	require.Equal(t, dot(500), before.TotalPossibleBond)

	_, err = client.Submit(ctx, chain.StakingUnbond(dot(50)), database.DevDave)
	require.NoError(t, err)

	after, err := svc.BondOptions(ctx, database.DevBob)
	require.NoError(t, err)
	require.Equal(t, dot(200), after.FreeToUnbond)
	require.Equal(t, dot(50), after.TotalUnlocking)
	require.True(t, after.TotalUnlocked.IsZero())
}

func TestPoolBondOptions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	opts, err := svc.PoolBondOptions(ctx, database.DevCharlie)
	require.NoError(t, err)
	require.Equal(t, dot(50), opts.FreeToUnbond)
	require.Equal(t, dot(150), opts.FreeToBond)

	none, err := svc.PoolBondOptions(ctx, database.DevBob)
	require.NoError(t, err)
	require.True(t, none.FreeToUnbond.IsZero())
}

func TestSnapshotFeedsUnbondForm(t *testing.T) {
	ctx := context.Background()
	svc, client := newService(t)
	svc.SetActiveAccount(database.DevBob)

	in, err := svc.Snapshot(ctx, bond.Staking)
	require.NoError(t, err)
	require.True(t, in.Connected)
	require.Equal(t, database.DevDave, in.Controller)
	require.False(t, in.ControllerImported)
	require.EqualValues(t, 10, in.Units)

	d := bond.Derive(in)
	require.Equal(t, 240.0, d.UpperBound)
	require.True(t, d.IsValid)
	require.Equal(t, database.DevDave, d.From)

	client.SetConnected(false)
	in, err = svc.Snapshot(ctx, bond.Staking)
	require.NoError(t, err)
	require.False(t, in.Connected)
	require.Nil(t, bond.BuildTx(in, d.UpperBound, true))
}

func TestSnapshotWithoutActiveAccount(t *testing.T) {
	svc, _ := newService(t)
	in, err := svc.Snapshot(context.Background(), bond.Pooling)
	require.NoError(t, err)
	require.Empty(t, in.ActiveAccount)
	require.Equal(t, 0.0, bond.Derive(in).UpperBound)
	require.Nil(t, bond.BuildTx(in, 0, true))
}

func TestOverview(t *testing.T) {
	svc, _ := newService(t)
	svc.SetActiveAccount(database.DevCharlie)
	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, ov.Accounts, 4)
	require.Equal(t, "Charlie", ov.Account.Name)
	require.NotNil(t, ov.Pool)
	require.Equal(t, "Dev Pool", ov.Pool.Name)
	require.EqualValues(t, 28, ov.BondingEras)
}
