package main

import (
	"fmt"

	"parcheggiml/client"

	"github.com/spf13/cobra"
)

func newRegisterCmd(opts *options) *cobra.Command {
	var (
		req         client.RegisterRequest
		covered     bool
		paid        bool
		capacity    int
		pricingInfo string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new parking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// flags left unset stay unknown on the server
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

			id, err := opts.client().RegisterParking(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Parking registered with ID: %s\n", id)
			return nil
		},
	}
	cmd.Flags().Float64Var(&req.Latitude, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&req.Longitude, "lng", 0, "longitude")
	cmd.Flags().StringVar(&req.Address, "address", "", "full address")
	cmd.Flags().BoolVar(&covered, "covered", false, "covered parking")
	cmd.Flags().BoolVar(&paid, "paid", false, "paid parking")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "approximate capacity")
	cmd.Flags().StringVar(&pricingInfo, "pricing-info", "", "free-text pricing notes")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}
