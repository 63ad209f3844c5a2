package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"n8nmcp/internal/app"
	"n8nmcp/internal/config"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "n8nmcp", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-path"))
}

func TestSetVersion(t *testing.T) {
	original := GetVersion()
	defer SetVersion(original)

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", GetVersion())
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{Use: "test", Version: "1.0.0"}
	testCmd.SetVersionTemplate(`{{printf "n8nmcp version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	require.NoError(t, testCmd.Execute())
	assert.Equal(t, "n8nmcp version 1.0.0\n", buf.String())
}

func TestSubcommands(t *testing.T) {
	found := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"version", "serve", "users"} {
		assert.True(t, found[name], "missing subcommand %s", name)
	}
}

func TestGetExitCode(t *testing.T) {
	var validation config.ValidationErrors
	validation.Add("store.type", "must be one of file, redis")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "generic", err: errors.New("boom"), want: ExitCodeError},
		{name: "validation", err: validation, want: ExitCodeConfigInvalid},
		{name: "wrapped validation", err: fmt.Errorf("load: %w", validation), want: ExitCodeConfigInvalid},
		{name: "missing master key", err: fmt.Errorf("init: %w", app.ErrMasterKeyNotSet), want: ExitCodeConfigInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	original := configPath
	defer func() { configPath = original }()

	configPath = "/tmp/n8nmcp-test"
	path, err := resolveConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/n8nmcp-test", path)

	configPath = ""
	path, err = resolveConfigPath()
	require.NoError(t, err)
	assert.Contains(t, path, "n8nmcp")
}
