// Package cmd: extract command.
// This is the main command that orchestrates the pipeline:
// fetch → extract → merge → normalize → render → write.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/recipepipe/config"
	"github.com/gaurav-prasanna/recipepipe/core"
	"github.com/gaurav-prasanna/recipepipe/core/output"
	"github.com/gaurav-prasanna/recipepipe/core/render"
)

// Flag variables.
var (
	flagPDF       bool
	flagMarkdown  bool
	flagJSON      bool
	flagOutputDir string
	flagFile      string
	flagStdout    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract the recipe at a URL into the specified output format",
	Long: `Extract fetches a recipe page, combines its structured data with the page
markup, normalizes the ingredients and writes the recipe as JSON, Markdown or PDF.

Examples:
  recipepipe extract https://example.com/pasta --json
  recipepipe extract https://example.com/pasta --markdown --output_dir ./out
  recipepipe extract https://example.com/pasta --pdf
  recipepipe extract --file saved.html --json --stdout`,
	Args: cobra.RangeArgs(0, 1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Output format flags (mutually exclusive).
	extractCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	extractCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	extractCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")

	// Input and output.
	extractCmd.Flags().StringVar(&flagFile, "file", "", "Read markup from a local file instead of fetching")
	extractCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	extractCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Write the result to stdout instead of a file")
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := validateFlags(args); err != nil {
		return err
	}

	renderer, err := render.ForFormat(selectedFormat())
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p := newPipeline(cfg, logger.Logger, nil)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sourceURL, recipe, err := extractRecipe(ctx, p, args)
	if err != nil {
		return err
	}

	data, err := renderer.Render(recipe, sourceURL)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if flagStdout {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := writer.Write(sourceURL, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	return nil
}

type recipeRunner interface {
	Run(ctx context.Context, rawURL string) (*core.NormalizedRecipe, error)
	Process(ctx context.Context, pageURL, html string) (*core.NormalizedRecipe, error)
}

// extractRecipe runs the pipeline over the URL argument, or over the
// --file markup when set. A URL given alongside --file is used to resolve
// relative links; otherwise the file path stands in for it.
func extractRecipe(ctx context.Context, p recipeRunner, args []string) (string, *core.NormalizedRecipe, error) {
	if flagFile == "" {
		recipe, err := p.Run(ctx, args[0])
		return args[0], recipe, err
	}

	html, err := os.ReadFile(flagFile)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", flagFile, err)
	}

	sourceURL := ""
	if len(args) == 1 {
		sourceURL = args[0]
	} else {
		abs, err := filepath.Abs(flagFile)
		if err != nil {
			return "", nil, fmt.Errorf("resolving %s: %w", flagFile, err)
		}
		sourceURL = "file://" + filepath.ToSlash(abs)
	}

	recipe, err := p.Process(ctx, sourceURL, string(html))
	return sourceURL, recipe, err
}

// validateFlags checks that exactly one output format is chosen and that
// a URL or --file is given.
func validateFlags(args []string) error {
	if len(args) == 0 && flagFile == "" {
		return fmt.Errorf("a URL argument or --file is required")
	}

	formatCount := 0
	if flagPDF {
		formatCount++
	}
	if flagMarkdown {
		formatCount++
	}
	if flagJSON {
		formatCount++
	}

	if formatCount == 0 {
		return fmt.Errorf("exactly one output format is required: --pdf, --markdown, or --json")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	if flagPDF && flagStdout {
		return fmt.Errorf("--pdf cannot be combined with --stdout")
	}
	return nil
}

// selectedFormat maps the format flags to a render format name.
func selectedFormat() string {
	switch {
	case flagMarkdown:
		return render.FormatMarkdown
	case flagPDF:
		return render.FormatPDF
	default:
		return render.FormatJSON
	}
}
