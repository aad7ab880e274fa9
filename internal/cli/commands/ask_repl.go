package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/finqlabs/finq/internal/config"
	"github.com/finqlabs/finq/internal/pipeline"
	"github.com/spf13/cobra"
)

func runAskREPL(cmd *cobra.Command, cfg *config.Config, p *pipeline.Pipeline, schemaJSON string) error {
	historyFile := filepath.Join(filepath.Dir(cfg.DatabasePath), ".finq_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "finq> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize interactive mode: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "finq interactive mode (database: %s)\n", cfg.DatabasePath)
	_, _ = fmt.Fprintln(out, "Type a question, .quit to exit")
	_, _ = fmt.Fprintln(out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if question == ".quit" || question == ".exit" {
			break
		}

		ans, err := p.Ask(cmd.Context(), question, schemaJSON)
		if err != nil {
			_, _ = fmt.Fprintf(out, "error: %v\n\n", err)
			continue
		}
		if err := renderAnswer(out, ans, cfg.Output); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out)
	}

	return nil
}
