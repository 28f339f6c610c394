package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newLibraryCmd(g *globalFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "library",
		Short: "List the scenes of the configured library",
		Long: `Lists the scene IDs in the library directory (--library or library.dir).
With --watch, prints the ID of every changed scene until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := g.newApp(nil)
			if err != nil {
				return err
			}
			defer app.Close()

			lib, err := app.Library()
			if err != nil {
				return err
			}
			if lib == nil {
				return errors.New("no library configured; pass --library or set library.dir")
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			ids, err := lib.List(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			if !watch {
				return nil
			}

			changes, err := lib.Watch(ctx)
			if err != nil {
				return err
			}
			app.Logger.Info("Watching library", "dir", app.Config.Library.Dir)
			for id := range changes {
				fmt.Fprintf(out, "changed: %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and report changed scenes")
	return cmd
}
