// Package render provides output renderers for recipes.
// This file implements the Markdown renderer. The recipe is laid out as an
// HTML fragment with html/template and converted with html-to-markdown, so
// every value is escaped the same way regardless of where it came from.
// Markdown is also the intermediate format of the PDF renderer.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/recipepipe/core"
)

var recipeTemplate = template.Must(template.New("recipe").Funcs(template.FuncMap{
	"amount": formatAmount,
}).Parse(`<h1>{{.Title}}</h1>
{{if .TitleAr}}<p>{{.TitleAr}}</p>{{end}}
{{if .SourceURL}}<p><em>Source: {{.SourceURL}}</em></p>{{end}}
{{if .ImageURL}}<p><img src="{{.ImageURL}}" alt="{{.Title}}"></p>{{end}}
<p>Servings: {{.Servings}}</p>
<h2>Ingredients</h2>
<ul>{{range .Ingredients}}<li>{{amount .Amount}} {{.Unit}} {{.Name}}</li>{{end}}</ul>
{{if .Instructions}}<h2>Instructions</h2>
<ol>{{range .Instructions}}<li>{{.}}</li>{{end}}</ol>{{end}}
{{with .Nutrition}}{{if or .Calories .Protein .Carbs .Fats}}<h2>Nutrition</h2>
<ul>
{{if .Calories}}<li>Calories: {{amount .Calories}} kcal</li>{{end}}
{{if .Protein}}<li>Protein: {{amount .Protein}} g</li>{{end}}
{{if .Carbs}}<li>Carbs: {{amount .Carbs}} g</li>{{end}}
{{if .Fats}}<li>Fats: {{amount .Fats}} g</li>{{end}}
</ul>{{end}}{{end}}`))

type templateData struct {
	*core.NormalizedRecipe
	SourceURL string
}

// MarkdownRenderer renders a recipe as Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the recipe as Markdown.
func (r *MarkdownRenderer) Render(recipe *core.NormalizedRecipe, sourceURL string) ([]byte, error) {
	md, err := toMarkdown(recipe, sourceURL)
	if err != nil {
		return nil, err
	}
	return []byte(md), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func toMarkdown(recipe *core.NormalizedRecipe, sourceURL string) (string, error) {
	if recipe == nil {
		return "", fmt.Errorf("rendering markdown: no recipe")
	}
	var buf bytes.Buffer
	if err := recipeTemplate.Execute(&buf, templateData{NormalizedRecipe: recipe, SourceURL: sourceURL}); err != nil {
		return "", fmt.Errorf("executing recipe template: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return md, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
