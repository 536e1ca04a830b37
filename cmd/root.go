// Package cmd implements the CLI commands for recipepipe using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/recipepipe/core"
)

var rootCmd = &cobra.Command{
	Use:   "recipepipe",
	Short: "recipepipe extracts structured recipes from web pages",
	Long: `recipepipe fetches a recipe page, reads its schema.org data and markup,
and normalizes the result into a bilingual (English/Arabic) recipe.

Usage:
  recipepipe extract <url> [flags]
  recipepipe serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// errorLine formats err for the terminal, prefixed with its code when the
// pipeline classified it.
func errorLine(err error) string {
	var e *core.Error
	if errors.As(err, &e) {
		return fmt.Sprintf("Error [%s]: %s", e.Kind.Code(), e.Message)
	}
	return "Error: " + err.Error()
}
