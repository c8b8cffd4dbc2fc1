package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/stakedash/internal/units"
)

// ExtrinsicRepo records submitted calls.
type ExtrinsicRepo struct {
	db DBTX
}

func NewExtrinsicRepo(db DBTX) *ExtrinsicRepo { return &ExtrinsicRepo{db: db} }

func (r *ExtrinsicRepo) Insert(ctx context.Context, e Extrinsic) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO extrinsics(hash, pallet, method, args, signer, fee, status, block_number, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, e.Hash, e.Pallet, e.Method, e.Args, e.Signer, e.Fee.String(), e.Status, e.BlockNumber)
	return err
}

// BlockHeight is the highest recorded block number.
func (r *ExtrinsicRepo) BlockHeight(ctx context.Context) (uint64, error) {
	var n sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(block_number) FROM extrinsics`).Scan(&n); err != nil {
		return 0, err
	}
	return uint64(n.Int64), nil
}

func (r *ExtrinsicRepo) Get(ctx context.Context, hash string) (*Extrinsic, error) {
	row := r.db.QueryRowContext(ctx, `SELECT hash, pallet, method, args, signer, fee, status, block_number, created_at FROM extrinsics WHERE hash = ?`, hash)
	e, err := scanExtrinsic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns the newest extrinsics first. limit <= 0 means no limit.
func (r *ExtrinsicRepo) List(ctx context.Context, limit int) ([]Extrinsic, error) {
	query := `SELECT hash, pallet, method, args, signer, fee, status, block_number, created_at FROM extrinsics ORDER BY block_number DESC, created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Extrinsic
	for rows.Next() {
		e, err := scanExtrinsic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExtrinsic(s scanner) (Extrinsic, error) {
	var e Extrinsic
	var fee string
	if err := s.Scan(&e.Hash, &e.Pallet, &e.Method, &e.Args, &e.Signer, &fee, &e.Status, &e.BlockNumber, &e.CreatedAt); err != nil {
		return Extrinsic{}, err
	}
	p, err := units.Parse(fee)
	if err != nil {
		return Extrinsic{}, err
	}
	e.Fee = p
	return e, nil
}
