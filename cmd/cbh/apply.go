package main

import (
	"errors"
	"fmt"

	humanoid "github.com/natsuneko-laboratory/constraint-by-humanoid"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/cli"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/spf13/cobra"
)

// bindFlags are shared by apply, plan and graph.
type bindFlags struct {
	source      string
	destination string
	kind        string
	exclude     []string
	format      string
}

func (b *bindFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&b.source, "source", "s", "", "Node ID of the source avatar root")
	cmd.Flags().StringVarP(&b.destination, "destination", "d", "", "Node ID of the destination avatar root")
	cmd.Flags().StringVarP(&b.kind, "kind", "k", "", "Constraint kind (aim, look-at, parent, position, rotation, scale)")
	cmd.Flags().StringSliceVarP(&b.exclude, "exclude", "x", nil, "Node IDs (source or destination) to leave untouched (repeatable)")
}

func (b *bindFlags) request() (humanoid.ApplyRequest, error) {
	return humanoid.ParseApplyRequest(b.source, b.destination, b.exclude, b.kind)
}

func newApplyCmd(g *globalFlags) *cobra.Command {
	var (
		b       bindFlags
		inPlace bool
		output  string
		stored  bool
	)

	cmd := &cobra.Command{
		Use:   "apply <scene>",
		Short: "Attach one constraint per humanoid bone",
		Long: `Loads a scene (a file path or a library scene ID), attaches one constraint of
the requested kind to every destination bone that has a counterpart in the
source, and prints the report.

With --stored the scene is a stored scene ID and the result is saved to the
configured store under a lock. Otherwise use --in-place or --output to write
the modified scene.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := b.request()
			if err != nil {
				return err
			}
			format, err := cli.ParseFormat(b.format)
			if err != nil {
				return err
			}
			if inPlace && output != "" {
				return errors.New("--in-place and --output are mutually exclusive")
			}

			app, err := g.newApp(nil)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := cmd.Context()

			if stored {
				report, applyErr := app.Scenes.Apply(ctx, args[0], req)
				if report == nil {
					return applyErr
				}
				scene, _ := app.Scenes.Load(ctx, args[0])
				if err := cli.WriteReport(cmd.OutOrStdout(), scene, report, format); err != nil {
					return err
				}
				return applyErr
			}

			ref, err := app.LoadScene(ctx, args[0])
			if err != nil {
				return err
			}
			report, applyErr := app.Engine.Apply(ctx, ref.Scene, req)
			if report == nil {
				return applyErr
			}
			if err := cli.WriteReport(cmd.OutOrStdout(), ref.Scene, report, format); err != nil {
				return err
			}
			if (inPlace || output != "") && len(report.Applied) > 0 {
				if err := cli.SaveScene(ref, output); err != nil {
					return errors.Join(applyErr, err)
				}
				app.Logger.Info("Scene written", "path", firstNonEmpty(output, ref.Path))
			}
			return applyErr
		},
	}
	b.register(cmd)
	cmd.Flags().StringVarP(&b.format, "format", "f", "text", fmt.Sprintf("Report format %v", cli.Formats))
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "Write the modified scene back to its file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the modified scene to this path (.yaml or .json)")
	cmd.Flags().BoolVar(&stored, "stored", false, "Treat <scene> as a stored scene ID and save the result")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newPlanCmd(g *globalFlags) *cobra.Command {
	var (
		b      bindFlags
		stored bool
	)

	cmd := &cobra.Command{
		Use:   "plan <scene>",
		Short: "Report what apply would do without changing the scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := b.request()
			if err != nil {
				return err
			}
			format, err := cli.ParseFormat(b.format)
			if err != nil {
				return err
			}

			app, err := g.newApp(nil)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := cmd.Context()

			var (
				scene  *domain.Scene
				report *domain.Report
			)
			if stored {
				if scene, err = app.Scenes.Load(ctx, args[0]); err != nil {
					return err
				}
			} else {
				ref, err := app.LoadScene(ctx, args[0])
				if err != nil {
					return err
				}
				scene = ref.Scene
			}
			if report, err = app.Engine.Plan(ctx, scene, req); err != nil {
				return err
			}
			return cli.WriteReport(cmd.OutOrStdout(), scene, report, format)
		},
	}
	b.register(cmd)
	cmd.Flags().StringVarP(&b.format, "format", "f", "text", fmt.Sprintf("Report format %v", cli.Formats))
	cmd.Flags().BoolVar(&stored, "stored", false, "Treat <scene> as a stored scene ID")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
