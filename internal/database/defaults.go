package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jask/stakedash/internal/database/repository"
	"github.com/jask/stakedash/internal/units"
)

// Well-known development accounts.
const (
	DevAlice   = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	DevBob     = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"
	DevCharlie = "5FLSigC9HGRKVhB9FiEo4Y3koPsNmBmLJbpXg2mp1hXcS59Y"
	DevDave    = "5DAAnrj7VHTznn2AWBemMuyBwZWs6FNFjdyVXUeYum3PTXFy"
)

// SeedDefaults installs a small development network when the store is empty.
// It is idempotent and safe to run on every startup.
//
//   - Alice bonds as her own controller, which is imported into the wallet.
//   - Bob bonds with Dave as controller; Dave is known but not imported.
//   - Charlie is a member of pool 1.
func SeedDefaults(ctx context.Context, db *sql.DB, exp uint8) error {
	existing, err := repository.NewAccountRepo(db).List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		accounts := repository.NewAccountRepo(tx)
		ledgers := repository.NewLedgerRepo(tx)
		pools := repository.NewPoolRepo(tx)
		params := repository.NewParamsRepo(tx)

		for _, a := range []repository.Account{
			{Address: DevAlice, Name: "Alice", Imported: true, FreeBalance: whole(1000, exp)},
			{Address: DevBob, Name: "Bob", Imported: true, FreeBalance: whole(500, exp)},
			{Address: DevCharlie, Name: "Charlie", Imported: true, FreeBalance: whole(200, exp)},
			{Address: DevDave, Name: "Dave", Imported: false, FreeBalance: whole(10, exp)},
		} {
			if err := accounts.Upsert(ctx, a); err != nil {
				return err
			}
		}
		if err := ledgers.Upsert(ctx, repository.Ledger{Stash: DevAlice, Controller: DevAlice, Active: whole(100, exp)}); err != nil {
			return err
		}
		if err := ledgers.Upsert(ctx, repository.Ledger{Stash: DevBob, Controller: DevDave, Active: whole(250, exp)}); err != nil {
			return err
		}
		if err := pools.UpsertPool(ctx, repository.Pool{ID: 1, Name: "Dev Pool", State: "open"}); err != nil {
			return err
		}
		if err := pools.UpsertMember(ctx, repository.PoolMember{Address: DevCharlie, PoolID: 1, Points: whole(50, exp)}); err != nil {
			return err
		}
		return params.Upsert(ctx, repository.NetworkParams{
			MinNominatorBond:    whole(10, exp),
			MinJoinBond:         whole(1, exp),
			CurrentEra:          1,
			BondingDurationEras: 28,
		})
	})
}

func whole(n uint64, exp uint8) units.Planck {
	return units.MustParse("1" + strings.Repeat("0", int(exp))).MulUint64(n)
}
