package commands

import (
	"context"

	"github.com/finqlabs/finq/internal/config"
)

// configKey is used to store the loaded config in the command context.
type configKey struct{}

// WithConfig returns a context carrying cfg for the command tree.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the config from the context, falling back to the
// package defaults when none was stored (tests, direct invocation).
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.Default()
}
