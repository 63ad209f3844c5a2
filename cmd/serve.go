package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"n8nmcp/internal/app"
)

// serveDebug enables debug logging regardless of logLevel.
var serveDebug bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Starts the MCP server on the configured transport.

With the stdio transport (default) the process is meant to be spawned by an
MCP client; stdout carries the protocol and logs go to stderr. With the
streamable-http transport it listens on server.host:server.port.

Configuration:
  config.yaml is read from --config-path (default $HOME/.config/n8nmcp).
  N8N_API_URL, N8NMCP_MASTER_KEY, N8NMCP_REDIS_ADDR and N8NMCP_LOG_LEVEL
  override the corresponding settings.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	application, err := app.NewApplication(app.NewConfig(serveDebug, path, GetVersion()))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
}
