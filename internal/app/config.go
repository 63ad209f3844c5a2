package app

import (
	"io"

	"n8nmcp/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of logLevel
	Debug bool

	// ConfigPath is the directory holding config.yaml and, for the file
	// store, users.yaml. Empty means ~/.config/n8nmcp.
	ConfigPath string

	// Version is reported to MCP clients
	Version string

	// LogOutput receives log lines (default: os.Stderr)
	LogOutput io.Writer

	// Loaded configuration; set by NewApplication when nil
	N8NConfig *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath, version string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
		Version:    version,
	}
}
