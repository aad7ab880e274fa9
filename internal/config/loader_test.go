package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, DefaultLimit, cfg.DefaultLimit)
	assert.Equal(t, DefaultPreviewCap, cfg.PreviewCap)
	assert.Equal(t, DefaultMaxGroups, cfg.MaxGroups)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.False(t, cfg.Verbose)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finq.yaml")
	content := "database: /tmp/other.db\ndefault_limit: 250\nverbose: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.DatabasePath)
	assert.Equal(t, 250, cfg.DefaultLimit)
	assert.True(t, cfg.Verbose)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultPreviewCap, cfg.PreviewCap)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_limit: 250\n"), 0o644))

	t.Setenv("FINQ_DEFAULT_LIMIT", "100")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.DefaultLimit)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("FINQ_DATABASE", "/env/finances.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("database", "", "")
	flags.Int("default-limit", 0, "")
	require.NoError(t, flags.Parse([]string{"--database", "/flag/finances.db", "--default-limit", "42"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "/flag/finances.db", cfg.DatabasePath)
	assert.Equal(t, 42, cfg.DefaultLimit)
}

func TestLoad_UnsetFlagsIgnored(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("database", "/default/from/flag.db", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath, "flag default must not override config default")
}

func TestAPIKey(t *testing.T) {
	t.Setenv("FINQ_TEST_TOKEN", "secret")

	cfg := Default()
	cfg.APIKeyEnv = "FINQ_TEST_TOKEN"
	assert.Equal(t, "secret", cfg.APIKey())

	cfg.APIKeyEnv = ""
	assert.Empty(t, cfg.APIKey())
}
