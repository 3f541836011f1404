// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server, optionally exposing Prometheus metrics over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/healthlife/internal/mcp"
	"github.com/harperreed/healthlife/internal/metrics"
	"github.com/spf13/cobra"
)

var mcpMetricsAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "healthlife": {
        "command": "healthlife",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  hydration_today       Cups drunk on a day
  hydration_add_cup     One more cup
  hydration_remove_cup  One cup less
  hydration_set         Set cups and cup size
  gym_today             Muscle groups trained on a day
  gym_toggle            Toggle one muscle group
  gym_set               Replace the muscle groups of a day
  measurements_today    Body measurements for a day
  measurements_save     Save all seven body measurements
  list_history          Recorded days per tracker
  delete_record         Delete a record by ID prefix

AVAILABLE RESOURCES:

  healthlife://today    Everything recorded today
  healthlife://history  Recent days per tracker

Use --metrics-addr :9090 to serve Prometheus metrics at /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(app)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		if mcpMetricsAddr != "" {
			srv := &http.Server{
				Addr:              mcpMetricsAddr,
				Handler:           metrics.SetupMetricsRoute(registry),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server failed", "addr", mcpMetricsAddr, "error", err)
				}
			}()
			defer func() {
				shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
				defer done()
				_ = srv.Shutdown(shutdownCtx)
			}()
			logger.Info("serving metrics", "addr", mcpMetricsAddr)
		}

		return server.Serve(ctx)
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "address for the Prometheus /metrics endpoint")
	rootCmd.AddCommand(mcpCmd)
}
