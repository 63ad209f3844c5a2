package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"n8nmcp/internal/config"
	"n8nmcp/internal/credentials"
	"n8nmcp/pkg/logging"
)

const testMasterKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func newTestApplication(t *testing.T, dir string) (*Application, error) {
	t.Helper()
	t.Setenv(config.EnvMasterKey, "")
	t.Setenv(config.EnvAPIBaseURL, "")
	cfg := NewConfig(false, dir, "1.0.0-test")
	cfg.LogOutput = io.Discard
	return NewApplication(cfg)
}

func TestNewApplication_Defaults(t *testing.T) {
	app, err := newTestApplication(t, t.TempDir())
	require.NoError(t, err)

	s := app.Services()
	require.NotNil(t, s)
	assert.Nil(t, s.Vault)
	assert.NotNil(t, s.Store)
	assert.NotNil(t, s.Provider)
	assert.NotNil(t, s.Server)
	assert.Equal(t, config.DefaultAPIBaseURL, s.Client.BaseURL(""))
	assert.Equal(t, config.TransportStdio, app.config.N8NConfig.Server.Transport)

	// Without a vault every user resolves to nothing.
	_, ok := s.Resolver.Resolve(context.Background(), "u1")
	assert.False(t, ok)
}

func TestNewApplication_ProvisionedUserResolves(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, strings.Join([]string{
		"api:",
		"  baseURL: https://n8n.example.com/api/v1",
		"  toolPrefix: flows",
		"store:",
		"  masterKey: " + testMasterKey,
		"logLevel: debug",
	}, "\n"))

	app, err := newTestApplication(t, dir)
	require.NoError(t, err)
	s := app.Services()
	require.NotNil(t, s.Vault)

	ciphertext, err := s.Vault.EncryptString("secret-key")
	require.NoError(t, err)
	require.NoError(t, s.Store.PutUser(context.Background(), credentials.UserRecord{
		ID:  "u1",
		N8N: &credentials.Integration{EncryptedAPIKey: ciphertext},
	}))

	creds, ok := s.Resolver.Resolve(context.Background(), "u1")
	require.True(t, ok)
	assert.Equal(t, "secret-key", creds.AccessToken.Value())
	assert.Equal(t, "https://n8n.example.com/api/v1", s.Client.BaseURL(creds.APIBaseURL))

	assert.FileExists(t, filepath.Join(dir, "users.yaml"))
	assert.Equal(t, "flows", app.config.N8NConfig.API.ToolPrefix)
}

func TestNewApplication_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{name: "invalid master key", config: "store:\n  masterKey: not-hex\n"},
		{name: "short master key", config: "store:\n  masterKey: abcd\n"},
		{name: "unknown store type", config: "store:\n  type: etcd\n"},
		{name: "malformed yaml", config: "api: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.config)
			app, err := newTestApplication(t, dir)
			assert.Error(t, err)
			assert.Nil(t, app)
		})
	}
}

func TestInitializeServices_RequiresConfig(t *testing.T) {
	_, err := InitializeServices(&Config{})
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(config.StoreConfig{Type: config.StoreTypeFile, Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &credentials.FileStore{}, store)

	store, err = NewStore(config.StoreConfig{Type: config.StoreTypeRedis, RedisAddr: "localhost:6379"})
	require.NoError(t, err)
	assert.IsType(t, &credentials.RedisStore{}, store)

	_, err = NewStore(config.StoreConfig{Type: "etcd"})
	assert.Error(t, err)
}

func TestNewVault(t *testing.T) {
	_, err := NewVault(config.StoreConfig{})
	assert.ErrorIs(t, err, ErrMasterKeyNotSet)

	v, err := NewVault(config.StoreConfig{MasterKey: testMasterKey})
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logging.LevelDebug, logLevel(true, "error"))
	assert.Equal(t, logging.LevelWarn, logLevel(false, "warn"))
	assert.Equal(t, logging.LevelInfo, logLevel(false, ""))
}
