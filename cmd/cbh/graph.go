package main

import (
	"fmt"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd(g *globalFlags) *cobra.Command {
	var b bindFlags

	cmd := &cobra.Command{
		Use:   "graph <scene>",
		Short: "Export a binding plan as a Mermaid diagram",
		Long: `Plans the binding and prints a Mermaid flowchart (graph LR): source bones on
the left, destination bones on the right, one arrow per constraint that apply
would attach. Duplicates and excluded nodes are styled separately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := b.request()
			if err != nil {
				return err
			}

			app, err := g.newApp(nil)
			if err != nil {
				return err
			}
			defer app.Close()

			ref, err := app.LoadScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report, err := app.Engine.Plan(cmd.Context(), ref.Scene, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(ref.Scene, report, &graph.GraphOverlay{Excluded: req.Exclude}))
			return nil
		},
	}
	b.register(cmd)
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}
