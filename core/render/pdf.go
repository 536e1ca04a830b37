// Package render — PDF renderer.
// Renders the recipe's Markdown form into a styled PDF using gofpdf.
// Handles headings (variable font sizes), paragraphs and lists.
// Images are not embedded. The core fonts only cover Latin scripts, so
// Arabic recipes are refused.
package render

import (
	"bytes"
	"errors"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/recipepipe/core"
	"github.com/gaurav-prasanna/recipepipe/core/lang"
)

// ErrUnsupportedScript is returned for recipes the PDF fonts cannot draw.
var ErrUnsupportedScript = errors.New("pdf output does not support Arabic script")

var (
	numberedRegex = regexp.MustCompile(`^\d+\.\s`)
	italicRegex   = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	codeRegex     = regexp.MustCompile("`([^`]+)`")
	linkRegex     = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	escapeRegex   = regexp.MustCompile(`\\([\\*_\[\]()#+\-.!>` + "`" + `])`)
)

// PDFRenderer renders a recipe as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the recipe into PDF bytes.
func (r *PDFRenderer) Render(recipe *core.NormalizedRecipe, sourceURL string) ([]byte, error) {
	if recipe == nil {
		return nil, errors.New("rendering PDF: no recipe")
	}
	if recipe.Language == core.LanguageArabic || containsArabic(recipe) {
		return nil, ErrUnsupportedScript
	}

	// The title and source are drawn separately below.
	body := *recipe
	body.Title = ""
	markdown, err := toMarkdown(&body, "")
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(recipe.Title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, tr(recipe.Title), "", "L", false)
	pdf.Ln(4)

	if sourceURL != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr("Source: "+sourceURL), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "!["), strings.HasPrefix(trimmed, "# "), strings.Trim(trimmed, "#") == "":
			// images and the emptied title heading
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			renderHeading(pdf, tr(strings.TrimSpace(strings.TrimLeft(trimmed, "# "))), level)
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("• "+cleanInlineMarkdown(trimmed[2:])), "", "L", false)
		case numberedRegex.MatchString(trimmed):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(trimmed)), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(trimmed)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func containsArabic(r *core.NormalizedRecipe) bool {
	if lang.ContainsArabic(r.Title) {
		return true
	}
	for _, ing := range r.Ingredients {
		if lang.ContainsArabic(ing.Name) {
			return true
		}
	}
	for _, step := range r.Instructions {
		if lang.ContainsArabic(step) {
			return true
		}
	}
	return false
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, cleanInlineMarkdown(text), "", "L", false)
	pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = codeRegex.ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$1")
	text = escapeRegex.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
