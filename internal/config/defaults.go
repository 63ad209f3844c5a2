package config

const (
	// DefaultAPIBaseURL is used when neither the user record, the config file
	// nor N8N_API_URL provide a base URL.
	DefaultAPIBaseURL = "https://api.n8n.io/v1"

	// DefaultCatalogURL serves the public node and template catalog.
	DefaultCatalogURL = "https://api.n8n.io/api"

	DefaultToolPrefix     = "n8n"
	DefaultServerName     = "n8nmcp"
	DefaultServerHost     = "localhost"
	DefaultServerPort     = 8091
	DefaultRedisNamespace = "n8nmcp"
)

// Environment variables that override file configuration.
const (
	EnvAPIBaseURL = "N8N_API_URL"
	EnvMasterKey  = "N8NMCP_MASTER_KEY"
	EnvRedisAddr  = "N8NMCP_REDIS_ADDR"
	EnvLogLevel   = "N8NMCP_LOG_LEVEL"
)

// GetDefaultConfig returns the default configuration. The store path is left
// empty and resolved against the config directory by LoadConfig.
func GetDefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:    DefaultAPIBaseURL,
			CatalogURL: DefaultCatalogURL,
			ToolPrefix: DefaultToolPrefix,
		},
		Store: StoreConfig{
			Type:           StoreTypeFile,
			RedisNamespace: DefaultRedisNamespace,
		},
		Server: ServerConfig{
			Name:      DefaultServerName,
			Transport: TransportStdio,
			Host:      DefaultServerHost,
			Port:      DefaultServerPort,
		},
		LogLevel: "info",
	}
}
