package main

import (
	"fmt"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(g *globalFlags) *cobra.Command {
	var (
		transport string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the binding engine as MCP tools so AI agents can validate, plan and
apply constraint bindings.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("transport") {
				g.cfg.MCP.Transport = transport
			}
			if cmd.Flags().Changed("port") {
				g.cfg.MCP.Port = port
			}

			app, err := g.newApp(nil)
			if err != nil {
				return err
			}
			defer app.Close()

			srv := mcp.NewServer(app.Scenes, app.Logger)

			switch g.cfg.MCP.Transport {
			case "stdio":
				// Logs go to Stderr; Stdout carries JSON-RPC.
				app.Logger.Info("Starting MCP Server (Stdio)")
				return srv.ServeStdio()
			case "sse":
				app.Logger.Info("Starting MCP Server (SSE)", "port", g.cfg.MCP.Port)
				if err := srv.ServeSSE(cmd.Context(), g.cfg.MCP.Port); err != nil {
					return err
				}
				app.Logger.Info("MCP Server stopped gracefully")
				return nil
			}
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", g.cfg.MCP.Transport)
		},
	}
	cmd.Flags().StringVarP(&transport, "transport", "t", "stdio", "Transport type (stdio, sse)")
	cmd.Flags().IntVarP(&port, "port", "p", 8081, "Port for SSE transport")
	return cmd
}
