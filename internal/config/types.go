package config

// Config is the top-level configuration structure for n8nmcp.
type Config struct {
	API    APIConfig    `yaml:"api" mapstructure:"api"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	// LogLevel is one of debug, info, warn, error (default: info)
	LogLevel string `yaml:"logLevel,omitempty" mapstructure:"logLevel"`
}

// StoreType selects the backend holding per-user integration records.
type StoreType string

const (
	StoreTypeFile  StoreType = "file"
	StoreTypeRedis StoreType = "redis"
)

const (
	// TransportStdio serves MCP over stdin/stdout.
	TransportStdio = "stdio"
	// TransportStreamableHTTP serves MCP over the streamable HTTP transport.
	TransportStreamableHTTP = "streamable-http"
)

// APIConfig defines how the n8n REST API and the public catalog are reached.
type APIConfig struct {
	BaseURL    string `yaml:"baseURL,omitempty" mapstructure:"baseURL"`       // Default n8n API base URL (default: https://api.n8n.io/v1)
	CatalogURL string `yaml:"catalogURL,omitempty" mapstructure:"catalogURL"` // Public nodes/templates API (default: https://api.n8n.io/api)
	ToolPrefix string `yaml:"toolPrefix,omitempty" mapstructure:"toolPrefix"` // Prefix for exposed tool names (default: "n8n")
}

// StoreConfig defines where encrypted user records live.
type StoreConfig struct {
	Type           StoreType `yaml:"type,omitempty" mapstructure:"type"`                     // file or redis (default: file)
	Path           string    `yaml:"path,omitempty" mapstructure:"path"`                     // Directory holding users.yaml (default: config dir)
	RedisAddr      string    `yaml:"redisAddr,omitempty" mapstructure:"redisAddr"`           // host:port for the redis store
	RedisPassword  string    `yaml:"redisPassword,omitempty" mapstructure:"redisPassword"`   // optional redis password
	RedisNamespace string    `yaml:"redisNamespace,omitempty" mapstructure:"redisNamespace"` // key prefix (default: n8nmcp)
	MasterKey      string    `yaml:"masterKey,omitempty" mapstructure:"masterKey"`           // hex-encoded 32 byte key; prefer N8NMCP_MASTER_KEY
}

// ServerConfig defines how the MCP server is exposed.
type ServerConfig struct {
	Name      string `yaml:"name,omitempty" mapstructure:"name"`           // Server name reported to MCP clients
	Transport string `yaml:"transport,omitempty" mapstructure:"transport"` // stdio or streamable-http (default: stdio)
	Host      string `yaml:"host,omitempty" mapstructure:"host"`           // Bind host for streamable-http (default: localhost)
	Port      int    `yaml:"port,omitempty" mapstructure:"port"`           // Bind port for streamable-http (default: 8091)
}
