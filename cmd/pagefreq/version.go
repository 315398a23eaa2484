package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/pagefreq/internal/app"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pagefreq version %s\n", app.VersionString())
		},
	}
}
