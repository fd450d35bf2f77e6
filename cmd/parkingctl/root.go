package main

import (
	"time"

	"parcheggiml/client"

	"github.com/spf13/cobra"
)

type options struct {
	server  string
	timeout time.Duration
}

func (o *options) client() *client.Client {
	return client.New(o.server, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "parkingctl",
		Short:        "Search parking availability and report feedback",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", client.DefaultServer, "server base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "request timeout")

	root.AddCommand(
		newSearchCmd(opts),
		newPredictCmd(opts),
		newRegisterCmd(opts),
		newFeedbackCmd(opts),
		newMissingCmd(opts),
		newUpdateCmd(opts),
	)
	return root
}
