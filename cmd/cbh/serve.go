package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Serves the binding engine as a JSON API: stateless validate, plan and apply,
a scene workspace backed by the configured store, server-sent events and,
unless disabled, Prometheus metrics on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("address") {
				g.cfg.Server.Address = address
			}

			var (
				reg  *prometheus.Registry
				opts []httpAdapter.Option
			)
			if g.cfg.Server.Metrics {
				reg = prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				opts = append(opts, httpAdapter.WithGatherer(reg))
			}

			var registerer prometheus.Registerer
			if reg != nil {
				registerer = reg
			}
			app, err := g.newApp(registerer)
			if err != nil {
				return err
			}
			defer app.Close()

			opts = append(opts, httpAdapter.WithLogger(app.Logger))
			if app.Metrics != nil {
				opts = append(opts, httpAdapter.WithMetrics(app.Metrics))
			}
			lib, err := app.Library()
			if err != nil {
				return err
			}
			if lib != nil {
				opts = append(opts, httpAdapter.WithWatcher(lib))
			}

			srv := &http.Server{
				Addr:              g.cfg.Server.Address,
				Handler:           httpAdapter.NewHandler(app.Scenes, opts...),
				ReadHeaderTimeout: 10 * time.Second,
			}

			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.Go(func() error {
				app.Logger.Info("Starting HTTP server", "address", srv.Addr, "family", app.Engine.Family(), "store", g.cfg.Store.Backend)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			eg.Go(func() error {
				<-ctx.Done()
				timeout := g.cfg.Server.ShutdownTimeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
				defer cancel()

				app.Logger.Info("Shutting down HTTP server", "timeout", timeout)
				if err := srv.Shutdown(shutdownCtx); err != nil {
					_ = srv.Close()
					return fmt.Errorf("graceful shutdown did not complete in %v: %w", timeout, err)
				}
				return nil
			})
			if err := eg.Wait(); err != nil {
				return err
			}
			app.Logger.Info("HTTP server stopped gracefully")
			return nil
		},
	}
	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (default from server.address, :8080)")
	return cmd
}
