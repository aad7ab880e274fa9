// Package main provides the finq CLI, a natural-language query tool for
// personal finance data.
package main

import (
	"os"

	"github.com/finqlabs/finq/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
