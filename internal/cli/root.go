// Package cli provides the command-line interface for finq.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/finqlabs/finq/internal/cli/commands"
	"github.com/finqlabs/finq/internal/config"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "finq",
		Short: "finq - ask your finances questions in plain language",
		Long: `finq answers natural-language questions about personal finance data.

A question is turned into a single read-only SQL query by a language
model, validated by a safety guard, executed against a local SQLite
database, and summarized back into plain language.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			cmd.SetContext(commands.WithConfig(cmd.Context(), cfg))

			if cfg.Verbose {
				if used := config.GetConfigFileUsed(); used != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./finq.yaml)")
	rootCmd.PersistentFlags().String("database", "", "Path to the SQLite finance database")
	rootCmd.PersistentFlags().String("schema-snapshot", "", "Path to the cached schema snapshot JSON")
	rootCmd.PersistentFlags().String("audit-log", "", "Path to the audit CSV log (empty to disable)")
	rootCmd.PersistentFlags().Int("default-limit", 0, "Row limit appended to uncapped detail queries")
	rootCmd.PersistentFlags().Int("preview-cap", 0, "Hard cap on detail rows kept in memory")
	rootCmd.PersistentFlags().Int("max-groups", 0, "Maximum groups shown for grouped aggregates")
	rootCmd.PersistentFlags().Int("max-detail-rows", 0, "Maximum preview rows shown for detail results")
	rootCmd.PersistentFlags().String("model", "", "Language model for generation and summaries")
	rootCmd.PersistentFlags().String("base-url", "", "OpenAI-compatible API base URL")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|json|csv|md)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "csv", "md"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewAskCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
