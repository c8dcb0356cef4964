package main

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blockberries/leaseberry/types"
)

var payRent string

var payCmd = &cobra.Command{
	Use:   "pay <agreement-id>",
	Short: "Pay one month's rent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid agreement id %q", args[0])
		}
		rent, ok := new(big.Int).SetString(payRent, 10)
		if !ok {
			return fmt.Errorf("invalid rent amount %q", payRent)
		}

		c, _, stop, err := newClient()
		if err != nil {
			return err
		}
		defer stop()

		handle, err := c.Pay(cmd.Context(), types.AgreementID(id), rent)
		if err != nil {
			return err
		}
		fmt.Printf("Submitted: tx %s\n", handle.TxHash)

		agreement, err := c.Reconcile(cmd.Context(), handle)
		if err != nil {
			return err
		}
		if agreement != nil {
			fmt.Printf("Payments: %d/%d (%s)\n",
				agreement.PaymentsMade, agreement.TotalPaymentsExpected, agreement.Status)
		}
		return nil
	},
}

func init() {
	payCmd.Flags().StringVar(&payRent, "rent", "", "monthly rent in base units")
	_ = payCmd.MarkFlagRequired("rent")
}
