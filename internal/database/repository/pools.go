package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/jask/stakedash/internal/units"
)

// PoolRepo handles nomination pools, their members and member unbonding.
type PoolRepo struct {
	db DBTX
}

func NewPoolRepo(db DBTX) *PoolRepo { return &PoolRepo{db: db} }

func (r *PoolRepo) UpsertPool(ctx context.Context, p Pool) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO pools(id, name, state) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name, state=excluded.state;
	`, p.ID, p.Name, p.State)
	return err
}

func (r *PoolRepo) UpsertMember(ctx context.Context, m PoolMember) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO pool_members(address, pool_id, points) VALUES (?, ?, ?)
	ON CONFLICT(address) DO UPDATE SET pool_id=excluded.pool_id, points=excluded.points;
	`, m.Address, m.PoolID, m.Points.String())
	return err
}

// Member returns nil when address is not in a pool.
func (r *PoolRepo) Member(ctx context.Context, address string) (*PoolMember, error) {
	var m PoolMember
	var points string
	err := r.db.QueryRowContext(ctx, `SELECT address, pool_id, points FROM pool_members WHERE address = ?`, address).
		Scan(&m.Address, &m.PoolID, &points)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if m.Points, err = units.Parse(points); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PoolRepo) Pool(ctx context.Context, id int64) (*Pool, error) {
	var p Pool
	err := r.db.QueryRowContext(ctx, `SELECT id, name, state FROM pools WHERE id = ?`, id).Scan(&p.ID, &p.Name, &p.State)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PoolRepo) SetPoints(ctx context.Context, address string, points units.Planck) error {
	_, err := r.db.ExecContext(ctx, `UPDATE pool_members SET points = ? WHERE address = ?`, points.String(), address)
	return err
}

func (r *PoolRepo) AddUnbonding(ctx context.Context, address string, value units.Planck, era uint32) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO pool_unbonding(id, address, value, era) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), address, value.String(), era)
	return err
}

func (r *PoolRepo) Unbonding(ctx context.Context, address string) ([]UnlockChunk, error) {
	return listChunks(ctx, r.db, `SELECT id, value, era FROM pool_unbonding WHERE address = ? ORDER BY era`, address)
}
