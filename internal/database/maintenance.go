package database

import (
	"context"
	"database/sql"
	"fmt"
)

// devTables lists the chain tables children first so foreign keys hold while
// deleting.
var devTables = []string{
	"extrinsics",
	"pool_unbonding",
	"pool_members",
	"pools",
	"unlocking_chunks",
	"ledgers",
	"network_params",
	"accounts",
}

// Reset wipes the dev chain and seeds it again. The schema is kept so a running
// dashboard can carry on.
func Reset(ctx context.Context, db *sql.DB, exp uint8) error {
	if db == nil {
		return fmt.Errorf("reset: db not configured")
	}
	if err := WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, t := range devTables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = db.ExecContext(ctx, "VACUUM")
	return SeedDefaults(ctx, db, exp)
}
