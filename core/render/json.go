// Package render — JSON renderer.
// Writes the normalized recipe using the same field names as the HTTP API,
// with the source URL alongside.
package render

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/gaurav-prasanna/recipepipe/core"
)

type jsonDocument struct {
	SourceURL string `json:"sourceUrl,omitempty"`
	*core.NormalizedRecipe
}

// JSONRenderer produces indented JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the recipe.
func (r *JSONRenderer) Render(recipe *core.NormalizedRecipe, sourceURL string) ([]byte, error) {
	if recipe == nil {
		return nil, fmt.Errorf("rendering JSON: no recipe")
	}
	data, err := sonic.ConfigStd.MarshalIndent(jsonDocument{SourceURL: sourceURL, NormalizedRecipe: recipe}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
