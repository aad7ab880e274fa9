package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

var configFileUsed string

// findConfigFile finds the config file to use.
// Priority: explicit path > finq.yaml > finq.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"finq.yaml", "finq.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// GetConfigFileUsed returns the config file path used by the last Load.
func GetConfigFileUsed() string {
	return configFileUsed
}

// Load resolves the configuration from defaults, an optional config file,
// FINQ_ environment variables, and explicitly-set CLI flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"database":        DefaultDatabasePath,
		"schema_snapshot": DefaultSchemaSnapshot,
		"audit_log":       DefaultAuditLog,
		"default_limit":   DefaultLimit,
		"preview_cap":     DefaultPreviewCap,
		"max_groups":      DefaultMaxGroups,
		"max_detail_rows": DefaultMaxDetailRows,
		"sample_limit":    DefaultSampleLimit,
		"max_retries":     DefaultMaxRetries,
		"model":           DefaultModel,
		"base_url":        DefaultBaseURL,
		"api_key_env":     DefaultAPIKeyEnv,
		"verbose":         false,
		"output":          DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file.
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: FINQ_DEFAULT_LIMIT -> default_limit.
	if err := k.Load(env.Provider("FINQ_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "FINQ_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// APIKey reads the generator API key from the configured environment
// variable. An empty result is valid for local endpoints.
func (c *Config) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}
