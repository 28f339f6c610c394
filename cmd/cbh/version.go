package main

import (
	"fmt"
	"strings"

	humanoid "github.com/natsuneko-laboratory/constraint-by-humanoid"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/cli"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cbh",
		Args:  cobra.NoArgs,
		// Skip config loading; version must work anywhere.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			version := strings.TrimSpace(humanoid.Version)
			out := cmd.OutOrStdout()
			if cli.IsTerminal(out) {
				tui.PrintBanner(out, version)
				return
			}
			fmt.Fprintf(out, "cbh version %s\n", version)
		},
	}
}
