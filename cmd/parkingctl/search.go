package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search ADDRESS",
		Short: "Find parking near an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.client().FindParking(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nYour location: %.5f, %.5f\n", res.UserLocation.Lat, res.UserLocation.Lng)
			fmt.Fprintln(out, "\nBest parkings:")
			printRanked(out, res.TopParkings)
			fmt.Fprintln(out, "\nAll parkings:")
			printSummary(out, res.AllParkings)
			return nil
		},
	}
}
