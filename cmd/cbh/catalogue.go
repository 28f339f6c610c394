package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/spf13/cobra"
)

func newRolesCmd(g *globalFlags) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "roles [scene]",
		Short: "List the humanoid roles, or how a skeleton binds them",
		Long: `Without arguments, lists the roles every binding pass visits, in visit order.
With a scene and --root, prints the node each role resolves to on that skeleton.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := g.newApp(nil)
			if err != nil {
				return err
			}
			defer app.Close()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, role := range app.Engine.Roles() {
					fmt.Fprintln(out, role)
				}
				return nil
			}
			if root == "" {
				return fmt.Errorf("--root is required when a scene is given")
			}

			ref, err := app.LoadScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			binding := app.Engine.Resolve(ref.Scene, domain.NodeID(root))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, role := range app.Engine.Roles() {
				if id, ok := binding.Get(role); ok {
					fmt.Fprintf(w, "%s\t%s\n", role, id)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d of %d roles bound\n", binding.Len(), len(app.Engine.Roles()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&root, "root", "r", "", "Node ID of the skeleton root to resolve")
	return cmd
}

func newKindsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the constraint kinds and their component types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := g.newApp(nil)
			if err != nil {
				return err
			}
			defer app.Close()

			family := app.Engine.Family()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tCOMPONENT\tNAME")
			for _, k := range domain.ConstraintKinds() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", k, family.TypeName(k), k.DisplayName())
			}
			return w.Flush()
		},
	}
}
