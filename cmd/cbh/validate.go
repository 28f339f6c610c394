package main

import (
	"fmt"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/spf13/cobra"
)

func newValidateCmd(g *globalFlags) *cobra.Command {
	var source, destination string

	cmd := &cobra.Command{
		Use:   "validate <scene>",
		Short: "Check that two nodes can act as source and destination skeletons",
		Long: `Runs the precondition checks of apply without binding anything.
Every problem is printed on its own line and the command exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := g.newApp(nil)
			if err != nil {
				return err
			}
			defer app.Close()

			ref, err := app.LoadScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			msgs := app.Engine.Validate(ref.Scene, domain.NodeID(source), domain.NodeID(destination))
			if len(msgs) > 0 {
				return &domain.PreconditionError{Messages: msgs}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Scene is valid! ✅")
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "Node ID of the source avatar root")
	cmd.Flags().StringVarP(&destination, "destination", "d", "", "Node ID of the destination avatar root")
	return cmd
}
