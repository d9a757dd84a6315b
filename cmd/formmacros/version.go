package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information of formmacros",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "formmacros version %s\n", version)
			if builddate != "" {
				fmt.Fprintf(out, "Built at %s\n", builddate)
			}
			if githash != "" {
				fmt.Fprintf(out, "Version control hash: %s\n", githash)
			}
		},
	}
}
