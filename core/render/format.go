package render

import (
	"fmt"

	"github.com/gaurav-prasanna/recipepipe/core"
)

// Format names accepted by ForFormat.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatPDF      = "pdf"
)

// ForFormat returns the renderer for a format name.
func ForFormat(format string) (core.Renderer, error) {
	switch format {
	case FormatJSON:
		return NewJSONRenderer(), nil
	case FormatMarkdown, "md":
		return NewMarkdownRenderer(), nil
	case FormatPDF:
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
