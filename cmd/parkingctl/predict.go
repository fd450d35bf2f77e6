package main

import (
	"fmt"
	"time"

	"parcheggiml/utils"

	"github.com/spf13/cobra"
)

func newPredictCmd(opts *options) *cobra.Command {
	var (
		when     string
		zone     string
		duration int
	)
	cmd := &cobra.Command{
		Use:   "predict ADDRESS",
		Short: "Predict parking availability near an address at a future time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := utils.LoadReferenceZone(zone)
			if err != nil {
				return err
			}
			target, err := utils.ParseReferenceTime(when, loc)
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}

			parkings, err := opts.client().PredictFutureParking(cmd.Context(), args[0], target, duration)
			if err != nil {
				return fmt.Errorf("predict: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nBest parkings for %s:\n", target.Format(time.RFC3339))
			printRanked(out, parkings)
			return nil
		},
	}
	cmd.Flags().StringVar(&when, "at", "", "target time, RFC 3339 or YYYY-MM-DDThh:mm in --tz")
	cmd.Flags().StringVar(&zone, "tz", "Europe/Rome", "timezone for target times without an offset")
	cmd.Flags().IntVar(&duration, "duration", 60, "expected stay in minutes")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}
