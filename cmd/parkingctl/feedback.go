package main

import (
	"fmt"

	"parcheggiml/client"

	"github.com/spf13/cobra"
)

func newFeedbackCmd(opts *options) *cobra.Command {
	var (
		req                             client.FeedbackRequest
		weather, eventContext, photoURL string
	)
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Report whether you found a free spot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("weather") {
				req.Weather = &weather
			}
			if cmd.Flags().Changed("event-context") {
				req.EventContext = &eventContext
			}
			if cmd.Flags().Changed("photo-url") {
				req.PhotoURL = &photoURL
			}

			if err := opts.client().SubmitFeedback(cmd.Context(), req); err != nil {
				return fmt.Errorf("feedback: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Feedback sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&req.ParkingID, "parking-id", "", "parking id")
	cmd.Flags().IntVar(&req.FreeSpots, "free-spots", 0, "free spots seen nearby")
	cmd.Flags().BoolVar(&req.ParkedSuccess, "parked", false, "parked successfully")
	cmd.Flags().StringVar(&weather, "weather", "", "weather conditions")
	cmd.Flags().StringVar(&eventContext, "event-context", "", "nearby event")
	cmd.Flags().StringVar(&photoURL, "photo-url", "", "photo of the spot")
	_ = cmd.MarkFlagRequired("parking-id")
	_ = cmd.MarkFlagRequired("free-spots")
	_ = cmd.MarkFlagRequired("parked")
	return cmd
}
