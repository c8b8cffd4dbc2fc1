package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jask/stakedash/internal/units"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List submitted extrinsics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := bootstrap(commandContext(cmd))
		if err != nil {
			return err
		}
		defer e.Close()

		list, err := e.extrinsics.List(e.ctx, historyLimit)
		if err != nil {
			return fmt.Errorf("list extrinsics: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "no extrinsics submitted")
			return nil
		}

		net := e.client.Network()
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Block", "Call", "Signer", "Fee", "Status", "Hash"})
		table.SetAutoWrapText(false)
		table.SetBorder(false)
		for _, x := range list {
			table.Append([]string{
				strconv.FormatUint(x.BlockNumber, 10),
				fmt.Sprintf("%s.%s(%s)", x.Pallet, x.Method, x.Args),
				x.Signer,
				units.Format(x.Fee, net.Units, 6) + " " + net.Unit,
				x.Status,
				x.Hash,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum rows to show")
}
