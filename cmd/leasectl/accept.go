package main

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blockberries/leaseberry/types"
)

var acceptDeposit string

var acceptCmd = &cobra.Command{
	Use:   "accept <agreement-id>",
	Short: "Accept an agreement and pay the deposit",
	Long: `Accept submits the tenant's acceptance. The attached deposit must
equal the agreement's on-chain deposit or the ledger rejects the call.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid agreement id %q", args[0])
		}
		deposit, ok := new(big.Int).SetString(acceptDeposit, 10)
		if !ok {
			return fmt.Errorf("invalid deposit amount %q", acceptDeposit)
		}

		c, _, stop, err := newClient()
		if err != nil {
			return err
		}
		defer stop()

		handle, err := c.Accept(cmd.Context(), types.AgreementID(id), deposit)
		if err != nil {
			return err
		}
		fmt.Printf("Submitted: tx %s\n", handle.TxHash)

		agreement, err := c.Reconcile(cmd.Context(), handle)
		if err != nil {
			return err
		}
		if agreement != nil {
			fmt.Printf("Agreement %d is now %s\n", id, agreement.Status)
		}
		return nil
	},
}

func init() {
	acceptCmd.Flags().StringVar(&acceptDeposit, "deposit", "", "deposit in base units")
	_ = acceptCmd.MarkFlagRequired("deposit")
}
