package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jask/stakedash/internal/units"
)

// DBTX is satisfied by *sql.DB and *sql.Tx so repos can run inside WithTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Account represents an account row.
type Account struct {
	Address     string
	Name        string
	Imported    bool
	FreeBalance units.Planck
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Label is the name when set, else the address.
func (a Account) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Address
}

// Ledger is the staking ledger of a stash.
type Ledger struct {
	Stash      string
	Controller string
	Active     units.Planck
	UpdatedAt  time.Time
}

// UnlockChunk is a value leaving a ledger or pool at Era.
type UnlockChunk struct {
	ID    string
	Value units.Planck
	Era   uint32
}

// Pool represents a nomination pool.
type Pool struct {
	ID    int64
	Name  string
	State string
}

// PoolMember represents an account's membership in a pool.
type PoolMember struct {
	Address string
	PoolID  int64
	Points  units.Planck
}

// NetworkParams holds protocol-level staking parameters.
type NetworkParams struct {
	MinNominatorBond    units.Planck
	MinJoinBond         units.Planck
	CurrentEra          uint32
	BondingDurationEras uint32
}

// Extrinsic is a submitted call as recorded by the local chain.
type Extrinsic struct {
	Hash        string
	Pallet      string
	Method      string
	Args        string
	Signer      string
	Fee         units.Planck
	Status      string
	BlockNumber uint64
	CreatedAt   time.Time
}
