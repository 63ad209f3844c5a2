package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"n8nmcp/pkg/logging"

	"github.com/spf13/viper"
)

const (
	userConfigDir  = ".config/n8nmcp"
	configFileName = "config.yaml"
)

// GetDefaultConfigPath returns ~/.config/n8nmcp.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from configPath, overlays the environment
// variables listed in defaults.go and validates the result. A missing
// config.yaml is not an error; defaults are used.
func LoadConfig(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v, GetDefaultConfig())

	for key, env := range map[string]string{
		"api.baseURL":     EnvAPIBaseURL,
		"store.masterKey": EnvMasterKey,
		"store.redisAddr": EnvRedisAddr,
		"logLevel":        EnvLogLevel,
	} {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	configFilePath := filepath.Join(configPath, configFileName)
	v.SetConfigFile(configFilePath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
		} else {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
	} else {
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config from %s: %w", configFilePath, err)
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = configPath
	}

	if errs := Validate(cfg); errs.HasErrors() {
		return Config{}, errs
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("api.baseURL", d.API.BaseURL)
	v.SetDefault("api.catalogURL", d.API.CatalogURL)
	v.SetDefault("api.toolPrefix", d.API.ToolPrefix)
	v.SetDefault("store.type", string(d.Store.Type))
	v.SetDefault("store.redisNamespace", d.Store.RedisNamespace)
	v.SetDefault("server.name", d.Server.Name)
	v.SetDefault("server.transport", d.Server.Transport)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("logLevel", d.LogLevel)
}
