// Package config provides configuration management for the finq CLI.
// Values are resolved from defaults, a finq.yaml file, FINQ_ environment
// variables, and command-line flags, in increasing order of precedence.
package config

// Config holds all CLI configuration options.
type Config struct {
	DatabasePath   string `koanf:"database"`
	SchemaSnapshot string `koanf:"schema_snapshot"`
	AuditLog       string `koanf:"audit_log"`

	DefaultLimit  int `koanf:"default_limit"`
	PreviewCap    int `koanf:"preview_cap"`
	MaxGroups     int `koanf:"max_groups"`
	MaxDetailRows int `koanf:"max_detail_rows"`
	SampleLimit   int `koanf:"sample_limit"`
	MaxRetries    int `koanf:"max_retries"`

	Model     string `koanf:"model"`
	BaseURL   string `koanf:"base_url"`
	APIKeyEnv string `koanf:"api_key_env"`

	Verbose bool   `koanf:"verbose"`
	Output  string `koanf:"output"`
}

// Default configuration values.
const (
	DefaultDatabasePath   = "data/finances.db"
	DefaultSchemaSnapshot = "data/schema_snapshot.json"
	DefaultAuditLog       = "logs/sql_calls.csv"

	DefaultLimit         = 500
	DefaultPreviewCap    = 1000
	DefaultMaxGroups     = 20
	DefaultMaxDetailRows = 20
	DefaultSampleLimit   = 5
	DefaultMaxRetries    = 2

	DefaultModel     = "openai/gpt-oss-20b"
	DefaultBaseURL   = "https://router.huggingface.co/v1"
	DefaultAPIKeyEnv = "HF_TOKEN"

	DefaultOutput = "table"
)

// Default returns a Config populated with the package defaults.
func Default() *Config {
	return &Config{
		DatabasePath:   DefaultDatabasePath,
		SchemaSnapshot: DefaultSchemaSnapshot,
		AuditLog:       DefaultAuditLog,
		DefaultLimit:   DefaultLimit,
		PreviewCap:     DefaultPreviewCap,
		MaxGroups:      DefaultMaxGroups,
		MaxDetailRows:  DefaultMaxDetailRows,
		SampleLimit:    DefaultSampleLimit,
		MaxRetries:     DefaultMaxRetries,
		Model:          DefaultModel,
		BaseURL:        DefaultBaseURL,
		APIKeyEnv:      DefaultAPIKeyEnv,
		Output:         DefaultOutput,
	}
}
