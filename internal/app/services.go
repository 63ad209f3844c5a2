package app

import (
	"errors"
	"fmt"
	"strings"

	"n8nmcp/internal/config"
	"n8nmcp/internal/credentials"
	"n8nmcp/internal/n8n"
	"n8nmcp/internal/server"
	"n8nmcp/internal/tools"
	"n8nmcp/pkg/logging"
)

// ErrMasterKeyNotSet is returned by NewVault when no master key is configured.
var ErrMasterKeyNotSet = fmt.Errorf("master key is not set (use %s or store.masterKey)", config.EnvMasterKey)

// UserStore is a credential store the CLI can also write to.
type UserStore interface {
	credentials.Store
	credentials.Writer
}

// Services holds every component the server needs.
type Services struct {
	Store    UserStore
	Vault    *credentials.Vault
	Resolver *credentials.Resolver
	Client   *n8n.Client
	Catalog  *n8n.Catalog
	Provider *tools.Provider
	Server   *server.Server
}

// InitializeServices builds the services from the loaded configuration.
//
// A missing master key is not fatal: the server still starts, catalog and
// validation tools work, and every tool that needs an API key reports it as
// not found.
func InitializeServices(cfg *Config) (*Services, error) {
	n8nCfg := cfg.N8NConfig
	if n8nCfg == nil {
		return nil, errors.New("configuration not loaded")
	}

	store, err := NewStore(n8nCfg.Store)
	if err != nil {
		return nil, err
	}

	var decrypter credentials.Decrypter
	vault, err := NewVault(n8nCfg.Store)
	switch {
	case err == nil:
		decrypter = vault
	case errors.Is(err, ErrMasterKeyNotSet):
		logging.Warn("Bootstrap", "No master key configured; stored API keys cannot be decrypted")
	default:
		return nil, err
	}

	client := n8n.NewClient(n8n.WithBaseURL(n8nCfg.API.BaseURL))
	catalog := n8n.NewCatalog(client, n8nCfg.API.CatalogURL)
	resolver := credentials.NewResolver(store, decrypter)
	provider := tools.NewProvider(client, catalog, resolver)

	return &Services{
		Store:    store,
		Vault:    vault,
		Resolver: resolver,
		Client:   client,
		Catalog:  catalog,
		Provider: provider,
		Server:   server.New(provider, server.OptionsFromConfig(*n8nCfg, cfg.Version)),
	}, nil
}

// NewStore opens the configured credential store.
func NewStore(cfg config.StoreConfig) (UserStore, error) {
	switch cfg.Type {
	case config.StoreTypeFile, "":
		logging.Debug("Bootstrap", "Using file store in %s", cfg.Path)
		return credentials.NewFileStore(cfg.Path), nil
	case config.StoreTypeRedis:
		logging.Debug("Bootstrap", "Using redis store at %s (namespace %q)", cfg.RedisAddr, cfg.RedisNamespace)
		return credentials.NewRedisStore(credentials.RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			Namespace: cfg.RedisNamespace,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported store type %q", cfg.Type)
	}
}

// NewVault builds the vault from the configured master key.
func NewVault(cfg config.StoreConfig) (*credentials.Vault, error) {
	if strings.TrimSpace(cfg.MasterKey) == "" {
		return nil, ErrMasterKeyNotSet
	}
	return credentials.NewVaultFromHex(cfg.MasterKey)
}
