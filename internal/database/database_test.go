package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/stakedash/internal/database/repository"
)

func openSeeded(t *testing.T, migrations string) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "dev.db")
	require.NoError(t, RunMigrations(dbPath, migrations))
	// a second run is a no-op
	require.NoError(t, RunMigrations(dbPath, migrations))
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, SeedDefaults(context.Background(), db, 10))
	return db
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openSeeded(t, "")
	require.NoError(t, SeedDefaults(ctx, db, 10))

	accounts, err := repository.NewAccountRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 4)

	ledger, err := repository.NewLedgerRepo(db).ByController(ctx, DevDave)
	require.NoError(t, err)
	require.Equal(t, DevBob, ledger.Stash)
	require.Equal(t, "2500000000000", ledger.Active.String())
}

func TestMigrationsFromDirectory(t *testing.T) {
	migrations, err := filepath.Abs("migrations")
	require.NoError(t, err)
	db := openSeeded(t, migrations)

	params, err := repository.NewParamsRepo(db).Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint32(28), params.BondingDurationEras)
}

func TestResetRestoresDevChain(t *testing.T) {
	ctx := context.Background()
	db := openSeeded(t, "")
	ledgers := repository.NewLedgerRepo(db)

	require.NoError(t, WithTx(ctx, db, func(tx *sql.Tx) error {
		return repository.NewLedgerRepo(tx).SetActive(ctx, DevBob, whole(1, 10))
	}))
	require.NoError(t, Reset(ctx, db, 10))

	ledger, err := ledgers.ByStash(ctx, DevBob)
	require.NoError(t, err)
	require.Equal(t, whole(250, 10).String(), ledger.Active.String())
}
