package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/stakedash/internal/units"
)

// ParamsRepo handles the single network_params row.
type ParamsRepo struct {
	db DBTX
}

func NewParamsRepo(db DBTX) *ParamsRepo { return &ParamsRepo{db: db} }

func (r *ParamsRepo) Upsert(ctx context.Context, p NetworkParams) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO network_params(id, min_nominator_bond, min_join_bond, current_era, bonding_duration_eras)
	VALUES (1, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 min_nominator_bond=excluded.min_nominator_bond,
	 min_join_bond=excluded.min_join_bond,
	 current_era=excluded.current_era,
	 bonding_duration_eras=excluded.bonding_duration_eras;
	`, p.MinNominatorBond.String(), p.MinJoinBond.String(), p.CurrentEra, p.BondingDurationEras)
	return err
}

// Get returns zero params when none have been stored.
func (r *ParamsRepo) Get(ctx context.Context) (NetworkParams, error) {
	var p NetworkParams
	var minNom, minJoin string
	err := r.db.QueryRowContext(ctx, `SELECT min_nominator_bond, min_join_bond, current_era, bonding_duration_eras FROM network_params WHERE id = 1`).
		Scan(&minNom, &minJoin, &p.CurrentEra, &p.BondingDurationEras)
	if errors.Is(err, sql.ErrNoRows) {
		return NetworkParams{}, nil
	}
	if err != nil {
		return NetworkParams{}, err
	}
	if p.MinNominatorBond, err = units.Parse(minNom); err != nil {
		return NetworkParams{}, err
	}
	if p.MinJoinBond, err = units.Parse(minJoin); err != nil {
		return NetworkParams{}, err
	}
	return p, nil
}
