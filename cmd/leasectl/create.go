package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/blockberries/leaseberry/types"
)

var (
	createTenant    string
	createDeposit   string
	createRent      string
	createDuration  uint64
	createReference string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new lease agreement",
	Long: `Create submits a new lease agreement. The caller becomes the
landlord; the agreement starts Pending until the tenant accepts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deposit, ok := new(big.Int).SetString(createDeposit, 10)
		if !ok {
			return fmt.Errorf("invalid deposit amount %q", createDeposit)
		}
		rent, ok := new(big.Int).SetString(createRent, 10)
		if !ok {
			return fmt.Errorf("invalid rent amount %q", createRent)
		}

		c, _, stop, err := newClient()
		if err != nil {
			return err
		}
		defer stop()

		handle, err := c.Create(cmd.Context(), types.CreateParams{
			Tenant:         types.Address(createTenant),
			Deposit:        deposit,
			MonthlyRent:    rent,
			DurationMonths: createDuration,
			Reference:      createReference,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Submitted: tx %s\n", handle.TxHash)
		if _, err := c.Reconcile(cmd.Context(), handle); err != nil {
			return err
		}
		fmt.Println("Settled. Find the new agreement ID with: leasectl list", callerAddr)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createTenant, "tenant", "", "tenant address")
	createCmd.Flags().StringVar(&createDeposit, "deposit", "", "deposit in base units")
	createCmd.Flags().StringVar(&createRent, "rent", "", "monthly rent in base units")
	createCmd.Flags().Uint64Var(&createDuration, "months", 0, "duration in months")
	createCmd.Flags().StringVar(&createReference, "reference", "", "free-text reference")
	_ = createCmd.MarkFlagRequired("tenant")
	_ = createCmd.MarkFlagRequired("deposit")
	_ = createCmd.MarkFlagRequired("rent")
	_ = createCmd.MarkFlagRequired("months")
}
