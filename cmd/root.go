package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"n8nmcp/internal/app"
	"n8nmcp/internal/config"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfigInvalid indicates the configuration could not be used.
	ExitCodeConfigInvalid = 2
)

// configPath is the directory holding config.yaml and users.yaml.
var configPath string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "n8nmcp",
	Short: "Expose the n8n REST API to AI assistants over MCP",
	Long: `n8nmcp serves the n8n REST API as MCP tools. Assistants can list,
create, update, activate and execute workflows, inspect executions,
credentials and tags, and search the public node and template catalog.

Each tool call carries a user id. The user's n8n API key is stored
encrypted and provisioned with 'n8nmcp users set'.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code matching the error.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "n8nmcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var validationErrs config.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ExitCodeConfigInvalid
	}
	if errors.Is(err, app.ErrMasterKeyNotSet) {
		return ExitCodeConfigInvalid
	}
	return ExitCodeError
}

// resolveConfigPath returns --config-path or the default directory.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetDefaultConfigPath()
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "", "Configuration directory (default is $HOME/.config/n8nmcp)")
}
