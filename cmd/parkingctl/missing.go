package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newMissingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "missing PARKING_ID",
		Short: "List the unknown attributes of a parking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := opts.client().MissingInfo(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("missing: %w", err)
			}
			if len(fields) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing missing")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Missing: %s\n", strings.Join(fields, ", "))
			return nil
		},
	}
}
