package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/finqlabs/finq/internal/store"
	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <dir>",
		Short: "Load CSV files into the finance database",
		Long: `Create or migrate the database schema, then load every CSV file in
the given directory. Each file maps to the table of the same name
(expenses.csv -> expenses); the header row must match the table columns.`,
		Example: `  finq seed data/clean`,
		Args:    cobra.ExactArgs(1),
		RunE:    runSeed,
	}
	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := GetConfig(cmd.Context())
	seedDir := args[0]

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	s, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.Migrate(); err != nil {
		return err
	}

	entries, err := os.ReadDir(seedDir)
	if err != nil {
		return fmt.Errorf("failed to read seed directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}

		table := strings.TrimSuffix(entry.Name(), ".csv")
		path := filepath.Join(seedDir, entry.Name())

		n, err := s.LoadCSV(cmd.Context(), table, path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", entry.Name(), err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d rows into %s\n", n, table)
		loaded++
	}

	if loaded == 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No CSV files found in %s\n", seedDir)
	}
	return nil
}
