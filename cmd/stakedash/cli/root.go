package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jask/stakedash/internal/bond"
	"github.com/jask/stakedash/internal/config"
	"github.com/jask/stakedash/internal/tui"
)

var (
	cfgPath  string
	account  string
	openPool bool

	rootCmd = &cobra.Command{
		Use:           "stakedash",
		Short:         "Terminal staking dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboard,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", fmt.Sprintf("config file (default %s)", config.Path()))
	rootCmd.PersistentFlags().StringVar(&account, "account", "", "active account name or address")
	rootCmd.Flags().BoolVar(&openPool, "pool", false, "open the pool Update Bond modal on start")
	rootCmd.AddCommand(historyCmd, unbondCmd, resetCmd)
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	e, err := bootstrap(commandContext(cmd))
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.New(e.ctx, tui.Deps{
		Service:    e.svc,
		Client:     e.client,
		Extrinsics: e.extrinsics,
	})
	if openPool {
		app.OpenOnStart(bond.Pooling)
	}
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(e.ctx)).Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}

	// remember the account picked in the dashboard
	if active := e.svc.ActiveAccount(); active != e.cfg.Wallet.ActiveAccount {
		e.cfg.Wallet.ActiveAccount = active
		if err := config.Save(e.cfg, cfgPath); err != nil {
			log.Ctx(e.ctx).Warn().Err(err).Msg("failed to save active account")
		}
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
