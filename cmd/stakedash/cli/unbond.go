package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/stakedash/internal/bond"
	"github.com/jask/stakedash/internal/extrinsic"
	"github.com/jask/stakedash/internal/units"
)

var (
	unbondMode   string
	unbondAmount string
)

var unbondCmd = &cobra.Command{
	Use:   "unbond",
	Short: "Unbond some of the active account's bond without the dashboard",
	Long: "Unbond some of the active account's bond. Without --amount the largest\n" +
		"amount that keeps the minimum bond is used.",
	RunE: runUnbond,
}

func init() {
	unbondCmd.Flags().StringVar(&unbondMode, "mode", "staking", "staking or pooling")
	unbondCmd.Flags().StringVar(&unbondAmount, "amount", "", "amount in display units")
}

func runUnbond(cmd *cobra.Command, _ []string) error {
	mode, ok := bond.ParseMode(unbondMode)
	if !ok {
		return fmt.Errorf("unknown mode %q (use staking or pooling)", unbondMode)
	}
	e, err := bootstrap(commandContext(cmd))
	if err != nil {
		return err
	}
	defer e.Close()
	out := cmd.OutOrStdout()

	in, err := e.svc.Snapshot(e.ctx, mode)
	if err != nil {
		return err
	}
	form := bond.NewUnbondForm(nil)
	form.Apply(in)
	if unbondAmount != "" {
		form.SetBondInput(unbondAmount)
		if fb := form.Feedback(); fb != "" {
			return errors.New(fb)
		}
	}
	if form.Tx() == nil {
		return fmt.Errorf("nothing to submit: %s", blockedReason(in))
	}

	sub := extrinsic.New(e.client)
	sub.Update(extrinsic.Options{
		Tx:              form.Tx(),
		From:            form.From(),
		ShouldSubmit:    form.BondValid(),
		CallbackSubmit:  func() { fmt.Fprintln(out, "accepted") },
		CallbackInBlock: func() { fmt.Fprintln(out, "included in block") },
	})

	net := e.client.Network()
	if fee, err := sub.EstimateFee(e.ctx); err == nil && fee != nil {
		fmt.Fprintf(out, "estimated fee: %s %s\n", units.Format(*fee, net.Units, 6), net.Unit)
	}
	fmt.Fprintf(out, "submitting %s from %s\n", form.Tx(), form.From())

	receipt, err := sub.Submit(e.ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", extrinsic.CodeOf(err), err)
	}
	fmt.Fprintf(out, "hash %s\nblock #%d\nfee %s %s\n",
		receipt.Hash, receipt.BlockNumber, units.Format(receipt.Fee, net.Units, 6), net.Unit)
	return nil
}

func blockedReason(in bond.Inputs) string {
	switch {
	case !in.Connected:
		return "not connected"
	case in.ActiveAccount == "":
		return "no active account"
	case in.Mode == bond.Staking && in.ControllerImported:
		return "controller account is imported"
	default:
		return "nothing bonded above the minimum"
	}
}
