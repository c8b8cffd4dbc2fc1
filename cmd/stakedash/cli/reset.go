package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/stakedash/internal/database"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the dev chain and seed it again",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := bootstrap(commandContext(cmd))
		if err != nil {
			return err
		}
		defer e.Close()
		if err := database.Reset(e.ctx, e.db, e.cfg.Network.Units); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "dev chain reset")
		return nil
	},
}
