package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/finqlabs/finq/internal/executor"
	"github.com/finqlabs/finq/internal/sqlguard"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input    string
	Question string
	NoLimit  bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a read-only SQL query against the finance database",
		Long: `Run SQL directly, skipping the language model. The statement still
passes through the safety guard: a single SELECT/WITH statement with no
destructive keywords. The limit policy applies unless --no-limit is set;
pass --question to let it see the original phrasing.`,
		Example: `  finq query "SELECT category, SUM(amount_clp) FROM expenses GROUP BY category"
  finq query --input report.sql
  cat report.sql | finq query
  finq query "SELECT * FROM expenses" -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().StringVarP(&opts.Question, "question", "q", "", "Question phrasing for the limit policy")
	cmd.Flags().BoolVar(&opts.NoLimit, "no-limit", false, "Skip the limit policy entirely")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cfg := GetConfig(cmd.Context())

	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		return fmt.Errorf("no SQL given")
	}

	validated, err := sqlguard.Validate(sqlQuery)
	if err != nil {
		return err
	}

	finalSQL := validated
	if !opts.NoLimit {
		finalSQL = sqlguard.ApplyLimitPolicy(validated, opts.Question, cfg.DefaultLimit)
	}

	res, err := executor.Execute(cmd.Context(), cfg.DatabasePath, finalSQL, cfg.PreviewCap)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := renderRows(out, res.Columns, res.Rows, cfg.Output); err != nil {
		return err
	}
	if res.RowCount > len(res.Rows) {
		_, _ = fmt.Fprintf(out, "(showing %d of %d rows)\n", len(res.Rows), res.RowCount)
	}
	return nil
}
