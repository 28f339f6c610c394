package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/cli"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	debug      bool
	family     string
	library    string
	store      string

	cfg *config.Config
}

// newApp wires an application for one command run. The caller must Close it.
func (g *globalFlags) newApp(reg prometheus.Registerer) (*cli.App, error) {
	return cli.NewApp(g.cfg, cli.Options{Debug: g.debug, Registry: reg})
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "cbh",
		Short: "Constraint by Humanoid binds one avatar skeleton to another",
		Long: `cbh walks the canonical humanoid bones of a source and a destination avatar
and attaches one constraint per bone on the destination, sourced from the
matching source bone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cmd.Flags().Changed("family") {
				v.Set("engine.family", g.family)
			}
			if cmd.Flags().Changed("library") {
				v.Set("library.dir", g.library)
			}
			if cmd.Flags().Changed("store") {
				v.Set("store.backend", g.store)
			}
			cfg, err := config.Load(v, g.configPath)
			if err != nil {
				return err
			}
			g.cfg = cfg
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "config file (default is ./cbh.yaml)")
	flags.BoolVar(&g.debug, "debug", false, "Enable verbose logging of every bound, warned and skipped role")
	flags.StringVar(&g.family, "family", "", "Constraint component family (vrchat, unity)")
	flags.StringVar(&g.library, "library", "", "Directory of scene documents addressable by ID")
	flags.StringVar(&g.store, "store", "", "Scene store backend (memory, file, redis)")

	rootCmd.AddCommand(
		newApplyCmd(g),
		newPlanCmd(g),
		newValidateCmd(g),
		newRolesCmd(g),
		newKindsCmd(g),
		newGraphCmd(g),
		newLibraryCmd(g),
		newServeCmd(g),
		newMCPCmd(g),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.PrintError(rootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}
