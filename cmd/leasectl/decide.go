package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blockberries/leaseberry/tracker"
	"github.com/blockberries/leaseberry/types"
)

var decideReturn bool

var decideCmd = &cobra.Command{
	Use:   "decide <landlord|tenant> <agreement-id>",
	Short: "Record a deposit decision for a completed agreement",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := args[0]
		if role != "landlord" && role != "tenant" {
			return fmt.Errorf("role must be landlord or tenant, got %q", role)
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid agreement id %q", args[1])
		}

		c, _, stop, err := newClient()
		if err != nil {
			return err
		}
		defer stop()

		var handle tracker.Handle
		if role == "landlord" {
			handle, err = c.LandlordDecision(cmd.Context(), types.AgreementID(id), decideReturn)
		} else {
			handle, err = c.TenantDecision(cmd.Context(), types.AgreementID(id), decideReturn)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Submitted: tx %s\n", handle.TxHash)

		agreement, err := c.Reconcile(cmd.Context(), handle)
		if err != nil {
			return err
		}
		if agreement != nil {
			fmt.Printf("Status: %s\n", agreement.Status)
		}

		decision, err := c.GetDepositDecision(cmd.Context(), types.AgreementID(id))
		if err != nil {
			return err
		}
		if decision != nil {
			printDecision(decision)
		}
		return nil
	},
}

func printDecision(d *types.DepositDecision) {
	fmt.Printf("Landlord decided: %t (wants return: %t)\n", d.LandlordDecided, d.LandlordWantsReturn)
	fmt.Printf("Tenant decided:   %t (wants return: %t)\n", d.TenantDecided, d.TenantWantsReturn)
	if d.Disagreement() {
		fmt.Println("Parties disagree: the agreement is headed for dispute.")
	}
}

func init() {
	decideCmd.Flags().BoolVar(&decideReturn, "return-deposit", false, "vote to return the deposit to the tenant")
}
