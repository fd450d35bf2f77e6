package main

import (
	"errors"
	"fmt"
	"strings"

	"parcheggiml/client"

	"github.com/spf13/cobra"
)

func newUpdateCmd(opts *options) *cobra.Command {
	var (
		covered     bool
		paid        bool
		capacity    int
		pricingInfo string
	)
	cmd := &cobra.Command{
		Use:   "update PARKING_ID",
		Short: "Fill in the unknown attributes of a parking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req client.UpdateRequest
			if cmd.Flags().Changed("covered") {
				req.Covered = &covered
			}
			if cmd.Flags().Changed("paid") {
				req.Paid = &paid
			}
			if cmd.Flags().Changed("capacity") {
				req.Capacity = &capacity
			}
			if cmd.Flags().Changed("pricing-info") {
				req.PricingInfo = &pricingInfo
			}
			if req == (client.UpdateRequest{}) {
				return errors.New("set at least one of --covered, --paid, --capacity, --pricing-info")
			}

			missing, err := opts.client().UpdateParking(cmd.Context(), args[0], req)
			if err != nil {
				return fmt.Errorf("update: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ Parking %s updated\n", args[0])
			if len(missing) > 0 {
				fmt.Fprintf(out, "Still missing: %s\n", strings.Join(missing, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&covered, "covered", false, "covered parking")
	cmd.Flags().BoolVar(&paid, "paid", false, "paid parking")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "approximate capacity")
	cmd.Flags().StringVar(&pricingInfo, "pricing-info", "", "free-text pricing notes")
	return cmd
}
