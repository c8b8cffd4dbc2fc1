// Package staking assembles read-only views of wallet, ledger and pool state
// for the forms.
package staking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/jask/stakedash/internal/bond"
	"github.com/jask/stakedash/internal/chain"
	"github.com/jask/stakedash/internal/database/repository"
	"github.com/jask/stakedash/internal/units"
)

// Service serves the wallet, balances, staking and pool lookups.
type Service struct {
	Accounts *repository.AccountRepo
	Ledgers  *repository.LedgerRepo
	Pools    *repository.PoolRepo
	Params   *repository.ParamsRepo
	Client   chain.Client

	mu     sync.RWMutex
	active string
}

// ActiveAccount is the selected wallet account, "" when none.
func (s *Service) ActiveAccount() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Service) SetActiveAccount(address string) {
	s.mu.Lock()
	s.active = address
	s.mu.Unlock()
}

// ResolveAccount finds an account by address or case-insensitive name. When
// nothing matches the error suggests the closest name.
func (s *Service) ResolveAccount(ctx context.Context, query string) (repository.Account, error) {
	query = strings.TrimSpace(query)
	accounts, err := s.Accounts.List(ctx)
	if err != nil {
		return repository.Account{}, err
	}
	for _, a := range accounts {
		if a.Address == query || strings.EqualFold(a.Name, query) {
			return a, nil
		}
	}
	if best, ok := closestName(query, accounts); ok {
		return repository.Account{}, fmt.Errorf("unknown account %q (did you mean %q?)", query, best)
	}
	return repository.Account{}, fmt.Errorf("unknown account %q", query)
}

func closestName(query string, accounts []repository.Account) (string, bool) {
	q := strings.ToLower(query)
	best, bestDist := "", -1
	for _, a := range accounts {
		if a.Name == "" {
			continue
		}
		d := levenshtein.ComputeDistance(q, strings.ToLower(a.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = a.Name, d
		}
	}
	if bestDist < 0 || bestDist > max(len(q)/2, 2) {
		return "", false
	}
	return best, true
}

// BondedAccount returns the controller of stash, "" when stash is not bonded.
func (s *Service) BondedAccount(ctx context.Context, stash string) (string, error) {
	if stash == "" {
		return "", nil
	}
	l, err := s.Ledgers.ByStash(ctx, stash)
	if err != nil || l == nil {
		return "", err
	}
	return l.Controller, nil
}

// ControllerImported reports whether controller is an account imported into
// the wallet. An empty controller is never imported.
func (s *Service) ControllerImported(ctx context.Context, controller string) (bool, error) {
	if controller == "" {
		return false, nil
	}
	a, err := s.Accounts.Get(ctx, controller)
	if err != nil || a == nil {
		return false, err
	}
	return a.Imported, nil
}

func (s *Service) Thresholds(ctx context.Context) (bond.Thresholds, error) {
	p, err := s.Params.Get(ctx)
	if err != nil {
		return bond.Thresholds{}, err
	}
	return bond.Thresholds{MinNominatorBond: p.MinNominatorBond, MinJoinBond: p.MinJoinBond}, nil
}

// BondOptions returns the direct staking options of account.
func (s *Service) BondOptions(ctx context.Context, account string) (bond.Options, error) {
	if account == "" {
		return bond.Options{}, nil
	}
	params, err := s.Params.Get(ctx)
	if err != nil {
		return bond.Options{}, err
	}
	free, err := s.freeBalance(ctx, account)
	if err != nil {
		return bond.Options{}, err
	}
	l, err := s.Ledgers.ByStash(ctx, account)
	if err != nil {
		return bond.Options{}, err
	}
	if l == nil {
		return bond.Options{FreeToBond: free, TotalPossibleBond: free}, nil
	}
	chunks, err := s.Ledgers.Unlocking(ctx, account)
	if err != nil {
		return bond.Options{}, err
	}
	unlocking, unlocked := splitChunks(chunks, params.CurrentEra)
	freeToBond := free.Sub(l.Active).Sub(unlocking).Sub(unlocked)
	return bond.Options{
		FreeToBond:        freeToBond,
		FreeToUnbond:      l.Active,
		TotalUnlocking:    unlocking,
		TotalUnlocked:     unlocked,
		TotalPossibleBond: l.Active.Add(freeToBond),
	}, nil
}

// PoolBondOptions returns the pool membership options of account.
func (s *Service) PoolBondOptions(ctx context.Context, account string) (bond.Options, error) {
	if account == "" {
		return bond.Options{}, nil
	}
	params, err := s.Params.Get(ctx)
	if err != nil {
		return bond.Options{}, err
	}
	free, err := s.freeBalance(ctx, account)
	if err != nil {
		return bond.Options{}, err
	}
	if l, err := s.Ledgers.ByStash(ctx, account); err != nil {
		return bond.Options{}, err
	} else if l != nil {
		free = free.Sub(l.Active)
	}
	m, err := s.Pools.Member(ctx, account)
	if err != nil {
		return bond.Options{}, err
	}
	if m == nil {
		return bond.Options{FreeToBond: free, TotalPossibleBond: free}, nil
	}
	chunks, err := s.Pools.Unbonding(ctx, account)
	if err != nil {
		return bond.Options{}, err
	}
	unlocking, unlocked := splitChunks(chunks, params.CurrentEra)
	freeToBond := free.Sub(m.Points).Sub(unlocking).Sub(unlocked)
	return bond.Options{
		FreeToBond:        freeToBond,
		FreeToUnbond:      m.Points,
		TotalUnlocking:    unlocking,
		TotalUnlocked:     unlocked,
		TotalPossibleBond: m.Points.Add(freeToBond),
	}, nil
}

func (s *Service) freeBalance(ctx context.Context, account string) (units.Planck, error) {
	a, err := s.Accounts.Get(ctx, account)
	if err != nil || a == nil {
		return units.Planck{}, err
	}
	return a.FreeBalance, nil
}

// splitChunks sums chunks still unlocking after era and those already unlocked.
func splitChunks(chunks []repository.UnlockChunk, era uint32) (unlocking, unlocked units.Planck) {
	for _, c := range chunks {
		if c.Era > era {
			unlocking = unlocking.Add(c.Value)
		} else {
			unlocked = unlocked.Add(c.Value)
		}
	}
	return unlocking, unlocked
}

// Snapshot collects the unbond form inputs for the active account.
func (s *Service) Snapshot(ctx context.Context, mode bond.Mode) (bond.Inputs, error) {
	active := s.ActiveAccount()
	in := bond.Inputs{
		Mode:          mode,
		ActiveAccount: active,
		Connected:     s.Client != nil && s.Client.Connected(),
	}
	if s.Client != nil {
		in.Units = s.Client.Network().Units
	}
	var err error
	if in.Controller, err = s.BondedAccount(ctx, active); err != nil {
		return bond.Inputs{}, fmt.Errorf("bonded account: %w", err)
	}
	if in.ControllerImported, err = s.ControllerImported(ctx, in.Controller); err != nil {
		return bond.Inputs{}, fmt.Errorf("controller lookup: %w", err)
	}
	if in.StakeOptions, err = s.BondOptions(ctx, active); err != nil {
		return bond.Inputs{}, fmt.Errorf("bond options: %w", err)
	}
	if in.PoolOptions, err = s.PoolBondOptions(ctx, active); err != nil {
		return bond.Inputs{}, fmt.Errorf("pool bond options: %w", err)
	}
	if in.Thresholds, err = s.Thresholds(ctx); err != nil {
		return bond.Inputs{}, fmt.Errorf("thresholds: %w", err)
	}
	return in, nil
}

// Overview is the per-account summary shown on the dashboard.
type Overview struct {
	Account     repository.Account
	Controller  string
	Stake       bond.Options
	Pool        *repository.Pool
	PoolOptions bond.Options
	BondingEras uint32
	CurrentEra  uint32
	Accounts    []repository.Account
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var ov Overview
	accounts, err := s.Accounts.List(ctx)
	if err != nil {
		return ov, err
	}
	sort.SliceStable(accounts, func(i, j int) bool { return accounts[i].Label() < accounts[j].Label() })
	ov.Accounts = accounts
	active := s.ActiveAccount()
	if active == "" {
		return ov, nil
	}
	if a, err := s.Accounts.Get(ctx, active); err != nil {
		return ov, err
	} else if a != nil {
		ov.Account = *a
	}
	params, err := s.Params.Get(ctx)
	if err != nil {
		return ov, err
	}
	ov.BondingEras, ov.CurrentEra = params.BondingDurationEras, params.CurrentEra
	if ov.Controller, err = s.BondedAccount(ctx, active); err != nil {
		return ov, err
	}
	if ov.Stake, err = s.BondOptions(ctx, active); err != nil {
		return ov, err
	}
	if ov.PoolOptions, err = s.PoolBondOptions(ctx, active); err != nil {
		return ov, err
	}
	m, err := s.Pools.Member(ctx, active)
	if err != nil {
		return ov, err
	}
	if m != nil {
		if ov.Pool, err = s.Pools.Pool(ctx, m.PoolID); err != nil {
			return ov, err
		}
	}
	return ov, nil
}
