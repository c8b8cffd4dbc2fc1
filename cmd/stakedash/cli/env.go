package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/jask/stakedash/internal/chain"
	"github.com/jask/stakedash/internal/config"
	"github.com/jask/stakedash/internal/database"
	"github.com/jask/stakedash/internal/database/repository"
	"github.com/jask/stakedash/internal/logging"
	"github.com/jask/stakedash/internal/metrics"
	"github.com/jask/stakedash/internal/staking"
)

// env is everything a command needs once config, logging and storage are up.
type env struct {
	ctx        context.Context
	cfg        config.Config
	db         *sql.DB
	client     *chain.LocalClient
	svc        *staking.Service
	extrinsics *repository.ExtrinsicRepo
	logCloser  io.Closer
}

func bootstrap(ctx context.Context) (*env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	ctx = logger.WithContext(ctx)

	metrics.Init(cfg.Metrics.Port)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path, cfg.Database.Migrations); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db, cfg.Network.Units); err != nil {
		_ = db.Close()
		_ = closer.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	client := chain.NewLocalClient(db, chain.Network{
		Name:                cfg.Network.Name,
		Unit:                cfg.Network.Unit,
		Units:               cfg.Network.Units,
		BondingDurationDays: cfg.Network.BondingDurationDays,
	}, cfg.Network.Connected)

	e := &env{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		client: client,
		svc: &staking.Service{
			Accounts: repository.NewAccountRepo(db),
			Ledgers:  repository.NewLedgerRepo(db),
			Pools:    repository.NewPoolRepo(db),
			Params:   repository.NewParamsRepo(db),
			Client:   client,
		},
		extrinsics: repository.NewExtrinsicRepo(db),
		logCloser:  closer,
	}
	if err := e.selectAccount(); err != nil {
		e.Close()
		return nil, err
	}
	log.Ctx(ctx).Info().
		Str("network", cfg.Network.Name).
		Str("db", cfg.Database.Path).
		Str("account", e.svc.ActiveAccount()).
		Msg("stakedash started")
	return e, nil
}

// selectAccount applies --account, then the configured account, then the
// first imported account.
func (e *env) selectAccount() error {
	query := account
	if query == "" {
		query = e.cfg.Wallet.ActiveAccount
	}
	if query != "" {
		acct, err := e.svc.ResolveAccount(e.ctx, query)
		if err != nil {
			return err
		}
		e.svc.SetActiveAccount(acct.Address)
		return nil
	}
	accounts, err := e.svc.Accounts.List(e.ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	for _, a := range accounts {
		if a.Imported {
			e.svc.SetActiveAccount(a.Address)
			break
		}
	}
	return nil
}

func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		log.Ctx(e.ctx).Warn().Err(err).Msg("close db")
	}
	_ = e.logCloser.Close()
}
