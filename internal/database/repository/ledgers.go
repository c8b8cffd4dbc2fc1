package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/jask/stakedash/internal/units"
)

// LedgerRepo handles staking ledgers and their unlocking chunks.
type LedgerRepo struct {
	db DBTX
}

func NewLedgerRepo(db DBTX) *LedgerRepo { return &LedgerRepo{db: db} }

func (r *LedgerRepo) Upsert(ctx context.Context, l Ledger) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO ledgers(stash, controller, active, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(stash) DO UPDATE SET
	 controller=excluded.controller,
	 active=excluded.active,
	 updated_at=CURRENT_TIMESTAMP;
	`, l.Stash, l.Controller, l.Active.String())
	return err
}

// ByStash returns nil when the stash is not bonded.
func (r *LedgerRepo) ByStash(ctx context.Context, stash string) (*Ledger, error) {
	return r.one(ctx, `SELECT stash, controller, active, updated_at FROM ledgers WHERE stash = ?`, stash)
}

// ByController returns nil when no ledger is controlled by controller.
func (r *LedgerRepo) ByController(ctx context.Context, controller string) (*Ledger, error) {
	return r.one(ctx, `SELECT stash, controller, active, updated_at FROM ledgers WHERE controller = ?`, controller)
}

func (r *LedgerRepo) one(ctx context.Context, query, arg string) (*Ledger, error) {
	var l Ledger
	var active string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&l.Stash, &l.Controller, &active, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if l.Active, err = units.Parse(active); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LedgerRepo) SetActive(ctx context.Context, stash string, active units.Planck) error {
	_, err := r.db.ExecContext(ctx, `UPDATE ledgers SET active = ?, updated_at=CURRENT_TIMESTAMP WHERE stash = ?`, active.String(), stash)
	return err
}

func (r *LedgerRepo) AddUnlocking(ctx context.Context, stash string, value units.Planck, era uint32) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO unlocking_chunks(id, stash, value, era) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), stash, value.String(), era)
	return err
}

func (r *LedgerRepo) Unlocking(ctx context.Context, stash string) ([]UnlockChunk, error) {
	return listChunks(ctx, r.db, `SELECT id, value, era FROM unlocking_chunks WHERE stash = ? ORDER BY era`, stash)
}

func listChunks(ctx context.Context, db DBTX, query, arg string) ([]UnlockChunk, error) {
	rows, err := db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UnlockChunk
	for rows.Next() {
		var c UnlockChunk
		var value string
		if err := rows.Scan(&c.ID, &value, &c.Era); err != nil {
			return nil, err
		}
		if c.Value, err = units.Parse(value); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
