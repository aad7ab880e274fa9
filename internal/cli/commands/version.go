package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, buildDate, gitCommit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "finq %s\n", version)
			if buildDate != "unknown" {
				_, _ = fmt.Fprintf(out, "  built:  %s\n", buildDate)
			}
			if gitCommit != "unknown" {
				_, _ = fmt.Fprintf(out, "  commit: %s\n", gitCommit)
			}
			return nil
		},
	}
}
