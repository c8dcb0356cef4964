package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockberries/leaseberry/types"
)

var listRole string

var listCmd = &cobra.Command{
	Use:   "list <address>",
	Short: "List agreement ids an address participates in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := types.Address(args[0])

		c, _, stop, err := newClient()
		if err != nil {
			return err
		}
		defer stop()

		var ids []types.AgreementID
		switch listRole {
		case "landlord":
			ids, err = c.ListByLandlord(cmd.Context(), addr)
		case "tenant":
			ids, err = c.ListByTenant(cmd.Context(), addr)
		case "any":
			ids, err = c.ListByParticipant(cmd.Context(), addr)
		default:
			return fmt.Errorf("role must be landlord, tenant, or any, got %q", listRole)
		}
		if err != nil {
			return err
		}

		if len(ids) == 0 {
			fmt.Println("No agreements found.")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listRole, "role", "any", "filter by role: landlord, tenant, or any")
}
