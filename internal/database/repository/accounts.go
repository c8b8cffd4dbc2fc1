package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/stakedash/internal/units"
)

// AccountRepo handles accounts.
type AccountRepo struct {
	db DBTX
}

func NewAccountRepo(db DBTX) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Upsert(ctx context.Context, a Account) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(address, name, imported, free_balance, created_at, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(address) DO UPDATE SET
	 name=excluded.name,
	 imported=excluded.imported,
	 free_balance=excluded.free_balance,
	 updated_at=CURRENT_TIMESTAMP;
	`, a.Address, a.Name, a.Imported, a.FreeBalance.String())
	return err
}

func (r *AccountRepo) SetImported(ctx context.Context, address string, imported bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE accounts SET imported = ?, updated_at=CURRENT_TIMESTAMP WHERE address = ?`, imported, address)
	return err
}

func (r *AccountRepo) SetFreeBalance(ctx context.Context, address string, free units.Planck) error {
	_, err := r.db.ExecContext(ctx, `UPDATE accounts SET free_balance = ?, updated_at=CURRENT_TIMESTAMP WHERE address = ?`, free.String(), address)
	return err
}

// Get returns nil when the account is unknown.
func (r *AccountRepo) Get(ctx context.Context, address string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT address, name, imported, free_balance, created_at, updated_at FROM accounts WHERE address = ?`, address)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT address, name, imported, free_balance, created_at, updated_at FROM accounts ORDER BY name, address`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (Account, error) {
	var a Account
	var free string
	if err := s.Scan(&a.Address, &a.Name, &a.Imported, &free, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Account{}, err
	}
	p, err := units.Parse(free)
	if err != nil {
		return Account{}, err
	}
	a.FreeBalance = p
	return a, nil
}
