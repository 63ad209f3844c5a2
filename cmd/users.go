package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"n8nmcp/internal/app"
	"n8nmcp/internal/config"
	"n8nmcp/internal/credentials"
	"n8nmcp/pkg/logging"
)

var (
	usersUserID     string
	usersAPIKey     string
	usersAPIBaseURL string
)

func newUsersCmd() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage stored n8n API keys",
		Long: `Provision and remove per-user n8n API keys.

Keys are encrypted with the master key (N8NMCP_MASTER_KEY or
store.masterKey) before they are written to the configured store.`,
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Store the n8n API key for a user",
		Long: `Encrypts and stores the n8n API key for a user, replacing any previous key.
Pass --api-key - to read the key from stdin.`,
		Args: cobra.NoArgs,
		RunE: runUsersSet,
	}
	setCmd.Flags().StringVar(&usersUserID, "user-id", "", "User id passed by the assistant as user_id")
	setCmd.Flags().StringVar(&usersAPIKey, "api-key", "", "n8n API key, or - to read it from stdin")
	setCmd.Flags().StringVar(&usersAPIBaseURL, "api-base-url", "", "n8n API base URL for this user (default: api.baseURL)")
	_ = setCmd.MarkFlagRequired("user-id")
	_ = setCmd.MarkFlagRequired("api-key")

	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored n8n API key for a user",
		Args:  cobra.NoArgs,
		RunE:  runUsersRemove,
	}
	removeCmd.Flags().StringVar(&usersUserID, "user-id", "", "User id to remove")
	_ = removeCmd.MarkFlagRequired("user-id")

	usersCmd.AddCommand(setCmd, removeCmd)
	return usersCmd
}

// loadUsersConfig reads the configuration quietly; only warnings reach stderr.
func loadUsersConfig(cmd *cobra.Command) (config.Config, error) {
	logging.Init(logging.LevelWarn, cmd.ErrOrStderr())
	path, err := resolveConfigPath()
	if err != nil {
		return config.Config{}, err
	}
	return config.LoadConfig(path)
}

func runUsersSet(cmd *cobra.Command, args []string) error {
	userID := strings.TrimSpace(usersUserID)
	if userID == "" {
		return errors.New("--user-id must not be empty")
	}
	apiKey, err := readAPIKey(usersAPIKey, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, err := loadUsersConfig(cmd)
	if err != nil {
		return err
	}
	vault, err := app.NewVault(cfg.Store)
	if err != nil {
		return err
	}
	store, err := app.NewStore(cfg.Store)
	if err != nil {
		return err
	}

	encrypted, err := vault.EncryptString(apiKey)
	if err != nil {
		return err
	}
	rec := credentials.UserRecord{
		ID: userID,
		N8N: &credentials.Integration{
			EncryptedAPIKey: encrypted,
			APIBaseURL:      strings.TrimSpace(usersAPIBaseURL),
		},
	}
	if err := store.PutUser(commandContext(cmd), rec); err != nil {
		return fmt.Errorf("failed to store user %s: %w", userID, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored n8n API key for user %s\n", userID)
	return nil
}

func runUsersRemove(cmd *cobra.Command, args []string) error {
	userID := strings.TrimSpace(usersUserID)
	if userID == "" {
		return errors.New("--user-id must not be empty")
	}

	cfg, err := loadUsersConfig(cmd)
	if err != nil {
		return err
	}
	store, err := app.NewStore(cfg.Store)
	if err != nil {
		return err
	}

	if err := store.DeleteUser(commandContext(cmd), userID); err != nil {
		if errors.Is(err, credentials.ErrUserNotFound) {
			return fmt.Errorf("user %s has no stored key", userID)
		}
		return fmt.Errorf("failed to remove user %s: %w", userID, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed n8n API key for user %s\n", userID)
	return nil
}

// readAPIKey returns flagValue, or the first line of in when flagValue is "-".
func readAPIKey(flagValue string, in io.Reader) (string, error) {
	key := flagValue
	if key == "-" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read API key from stdin: %w", err)
		}
		key = line
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("API key must not be empty")
	}
	return key, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.AddCommand(newUsersCmd())
}
