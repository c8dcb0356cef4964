package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blockberries/leaseberry/types"
)

var statusCmd = &cobra.Command{
	Use:   "status <agreement-id>",
	Short: "Show the current state of an agreement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid agreement id %q", args[0])
		}

		c, _, stop, err := newClient()
		if err != nil {
			return err
		}
		defer stop()

		agreement, err := c.GetAgreement(cmd.Context(), types.AgreementID(id))
		if err != nil {
			return err
		}
		if agreement == nil {
			fmt.Println("Agreement not found or not yet readable.")
			return nil
		}

		fmt.Printf("Agreement %d\n", agreement.ID)
		fmt.Printf("  Landlord:  %s\n", agreement.Landlord)
		fmt.Printf("  Tenant:    %s\n", agreement.Tenant)
		fmt.Printf("  Deposit:   %s\n", agreement.Deposit)
		fmt.Printf("  Rent:      %s/month for %d months\n", agreement.MonthlyRent, agreement.DurationMonths)
		fmt.Printf("  Reference: %s\n", agreement.Reference)
		fmt.Printf("  Payments:  %d/%d\n", agreement.PaymentsMade, agreement.TotalPaymentsExpected)
		fmt.Printf("  Status:    %s\n", agreement.Status)

		if agreement.Status == types.StatusCompleted || agreement.Status == types.StatusInDispute {
			decision, err := c.GetDepositDecision(cmd.Context(), types.AgreementID(id))
			if err != nil {
				return err
			}
			if decision != nil {
				printDecision(decision)
			}
		}

		if actions := c.AvailableActions(agreement); len(actions) > 0 {
			fmt.Printf("  Actions:   ")
			for i, a := range actions {
				if i > 0 {
					fmt.Print(", ")
				}
				fmt.Print(a)
			}
			fmt.Println()
		}
		return nil
	},
}
