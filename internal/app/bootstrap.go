package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"n8nmcp/internal/config"
	"n8nmcp/pkg/logging"
)

// Application holds the bootstrapped services.
//
// Example usage:
//
//	cfg := app.NewConfig(false, "", version)
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication configures logging, loads the configuration (unless
// cfg.N8NConfig is already set) and initializes all services.
func NewApplication(cfg *Config) (*Application, error) {
	var logOutput io.Writer = os.Stderr
	if cfg.LogOutput != nil {
		logOutput = cfg.LogOutput
	}
	logging.Init(logLevel(cfg.Debug, ""), logOutput)

	if cfg.N8NConfig == nil {
		configPath := cfg.ConfigPath
		if configPath == "" {
			var err error
			configPath, err = config.GetDefaultConfigPath()
			if err != nil {
				return nil, err
			}
		}

		n8nCfg, err := config.LoadConfig(configPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from %s", configPath)
			return nil, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
		}
		cfg.N8NConfig = &n8nCfg
	}

	// The configured level only applies once the file has been read.
	logging.Init(logLevel(cfg.Debug, cfg.N8NConfig.LogLevel), logOutput)

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Run serves MCP until ctx is cancelled or the transport fails.
func (a *Application) Run(ctx context.Context) error {
	logging.Info("Bootstrap", "Starting %s %s (transport %s)",
		a.config.N8NConfig.Server.Name, a.config.Version, a.config.N8NConfig.Server.Transport)
	return a.services.Server.Serve(ctx)
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

func logLevel(debug bool, configured string) logging.LogLevel {
	if debug {
		return logging.LevelDebug
	}
	return logging.ParseLevel(configured)
}
