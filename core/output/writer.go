// Package output handles file naming and writing for rendered recipes.
// Filenames are derived from the recipe URL (e.g., example_com_recipes_pasta.json).
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// maxNameRunes keeps generated names well under common filesystem limits.
const maxNameRunes = 120

// Writer saves rendered recipes into one directory.
type Writer struct {
	OutputDir string
}

// New returns a Writer for outputDir, creating it when missing. An empty
// outputDir means the working directory.
func New(outputDir string) (*Writer, error) {
	dir := outputDir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory %q: %w", outputDir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{OutputDir: abs}, nil
}

// Write stores data as <host>_<path><ext> and returns the file path. The
// file appears under its final name only once fully written.
func (w *Writer) Write(rawURL string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, filenameFromURL(rawURL)+ext)

	tmp, err := os.CreateTemp(w.OutputDir, ".recipe-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file in %s: %w", w.OutputDir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("moving output to %s: %w", path, err)
	}
	return path, nil
}

// filenameFromURL converts a URL into a flat filename.
// Example: https://example.com/recipes/pasta → example_com_recipes_pasta
func filenameFromURL(rawURL string) string {
	var parts []string
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		// Fallback: sanitize the raw string (local files, bad URLs).
		parts = []string{sanitize(strings.TrimSuffix(filepath.Base(rawURL), filepath.Ext(rawURL)))}
	} else {
		parts = []string{sanitize(parsed.Hostname())}
		for _, seg := range strings.Split(strings.Trim(parsed.Path, "/"), "/") {
			if seg != "" {
				parts = append(parts, sanitize(seg))
			}
		}
	}

	name := []rune(strings.Join(parts, "_"))
	if len(name) > maxNameRunes {
		name = name[:maxNameRunes]
	}
	if s := strings.Trim(string(name), "_"); s != "" {
		return s
	}
	return "recipe"
}

// sanitize replaces everything but letters and digits with underscores.
// Non-Latin letters are kept so Arabic slugs stay readable.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
