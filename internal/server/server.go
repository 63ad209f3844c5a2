package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"n8nmcp/internal/api"
	"n8nmcp/internal/config"
	"n8nmcp/pkg/logging"
)

const shutdownTimeout = 5 * time.Second

// Options configure a Server.
type Options struct {
	Name       string
	Version    string
	ToolPrefix string
	Transport  string
	Host       string
	Port       int
}

// OptionsFromConfig maps the loaded configuration onto server options.
func OptionsFromConfig(cfg config.Config, version string) Options {
	return Options{
		Name:       cfg.Server.Name,
		Version:    version,
		ToolPrefix: cfg.API.ToolPrefix,
		Transport:  cfg.Server.Transport,
		Host:       cfg.Server.Host,
		Port:       cfg.Server.Port,
	}
}

// Server exposes a ToolProvider's tools over MCP.
type Server struct {
	opts      Options
	mcpServer *mcpserver.MCPServer
}

// New registers every tool of provider on a fresh MCP server.
func New(provider api.ToolProvider, opts Options) *Server {
	if opts.Name == "" {
		opts.Name = config.DefaultServerName
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := mcpserver.NewMCPServer(
		opts.Name,
		opts.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	tools := createTools(provider, opts.ToolPrefix)
	s.AddTools(tools...)
	logging.Info("Server", "Registered %d tools with prefix %q", len(tools), opts.ToolPrefix)

	return &Server{opts: opts, mcpServer: s}
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// Serve runs the configured transport until ctx is cancelled or the
// transport fails.
func (s *Server) Serve(ctx context.Context) error {
	switch s.opts.Transport {
	case config.TransportStreamableHTTP:
		return s.serveStreamableHTTP(ctx)
	case config.TransportStdio, "":
		return s.serveStdio(ctx)
	default:
		return fmt.Errorf("unsupported transport %q", s.opts.Transport)
	}
}

func (s *Server) serveStdio(ctx context.Context) error {
	logging.Info("Server", "Serving MCP over stdio")
	stdio := mcpserver.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func (s *Server) serveStreamableHTTP(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	logging.Info("Server", "Serving MCP over streamable-http on %s", addr)

	httpServer := mcpserver.NewStreamableHTTPServer(s.mcpServer)
	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("streamable HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("Server", "Stopping streamable-http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server", err, "Error shutting down streamable HTTP server")
		return err
	}
	return nil
}
