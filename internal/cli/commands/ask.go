package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/finqlabs/finq/internal/auditlog"
	"github.com/finqlabs/finq/internal/config"
	"github.com/finqlabs/finq/internal/genai"
	"github.com/finqlabs/finq/internal/pipeline"
	"github.com/finqlabs/finq/internal/schema"
	"github.com/finqlabs/finq/internal/store"
	"github.com/spf13/cobra"
)

// NewAskCommand creates the ask command.
func NewAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a natural-language question about your finances",
		Long: `Ask a question in plain language. A language model turns it into a
single read-only SQL query, which is validated, capped, executed, and
summarized back into prose.

When invoked without arguments on a terminal, enters interactive mode.`,
		Example: `  finq ask "How much did I spend last month?"
  finq ask "Show me the top 3 categories by spend"
  finq ask`,
		RunE: runAsk,
	}
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig(cmd.Context())

	p, schemaJSON, err := buildPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if isTerminal(os.Stdin) {
			return runAskREPL(cmd, cfg, p, schemaJSON)
		}
		return fmt.Errorf("no question given")
	}

	question := strings.Join(args, " ")
	ans, err := p.Ask(cmd.Context(), question, schemaJSON)
	if err != nil {
		return err
	}
	return renderAnswer(cmd.OutOrStdout(), ans, cfg.Output)
}

// buildPipeline assembles the full pipeline plus the schema JSON handed
// to the generator. The cached snapshot file is used when present;
// otherwise the schema is captured from the live database.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, string, error) {
	client := genai.NewClient(cfg.BaseURL, cfg.Model, cfg.APIKey())
	audit := auditlog.New(cfg.AuditLog, slog.Default())

	p := pipeline.New(client, client, audit, slog.Default(), pipeline.Options{
		DBPath:        cfg.DatabasePath,
		DefaultLimit:  cfg.DefaultLimit,
		PreviewCap:    cfg.PreviewCap,
		MaxGroups:     cfg.MaxGroups,
		MaxDetailRows: cfg.MaxDetailRows,
		MaxRetries:    cfg.MaxRetries,
	})

	schemaJSON, err := loadSchemaJSON(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	return p, schemaJSON, nil
}

func loadSchemaJSON(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.SchemaSnapshot != "" {
		if snap, err := schema.LoadFile(cfg.SchemaSnapshot); err == nil {
			return snap.JSON()
		}
	}

	s, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return "", fmt.Errorf("failed to open database for schema capture: %w", err)
	}
	defer func() { _ = s.Close() }()

	snap, err := schema.Capture(ctx, s.DB(), cfg.SampleLimit)
	if err != nil {
		return "", fmt.Errorf("failed to capture schema: %w", err)
	}
	return snap.JSON()
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
