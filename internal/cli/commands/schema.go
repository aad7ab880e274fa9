package commands

import (
	"fmt"

	"github.com/finqlabs/finq/internal/schema"
	"github.com/finqlabs/finq/internal/store"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Capture the database schema snapshot",
		Long: `Capture tables, columns, and a bounded sample of rows per table.
The snapshot feeds the SQL generator's prompt; --write caches it to the
configured snapshot path so later questions skip the capture.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())

			s, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			snap, err := schema.Capture(cmd.Context(), s.DB(), cfg.SampleLimit)
			if err != nil {
				return err
			}

			if write {
				if err := snap.WriteFile(cfg.SchemaSnapshot); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Schema snapshot written to %s\n", cfg.SchemaSnapshot)
				return nil
			}

			return renderJSON(cmd.OutOrStdout(), snap)
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write the snapshot to the configured path")
	return cmd
}
