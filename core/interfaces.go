// Package core defines the pipeline types and interfaces for recipepipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Language is the detected language of a recipe page.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// DefaultUnit is the unit assigned when an ingredient line carries none.
const DefaultUnit = "piece"

// FetchResult holds the decoded HTML and response metadata from a fetch.
type FetchResult struct {
	URL         string // final URL after redirects
	StatusCode  int
	ContentType string
	HTML        string
}

// PageInfo carries the page-level facts the normalizer needs.
type PageInfo struct {
	URL      string
	HTMLLang string // value of <html lang>, possibly empty
}

// Nutrition holds per-recipe nutrition values. Zero means absent.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// RawIngredient is an ingredient entry as found on the page. A plain
// ingredient line sets Text; a structured entry sets Name, Amount and Unit.
type RawIngredient struct {
	Text   string `json:"text,omitempty"`
	Name   string `json:"name,omitempty"`
	Amount string `json:"amount,omitempty"`
	Unit   string `json:"unit,omitempty"`
}

// Structured reports whether the entry came from a name/amount/unit object.
func (r RawIngredient) Structured() bool {
	return r.Name != ""
}

// RecipeCandidate is an unvalidated, partially populated recipe produced
// by one extraction strategy.
type RecipeCandidate struct {
	Source       string          `json:"source,omitempty"`
	Title        string          `json:"title"`
	Ingredients  []RawIngredient `json:"ingredients"`
	Instructions []string        `json:"instructions"`
	Servings     string          `json:"servings"`
	Nutrition    Nutrition       `json:"nutrition"`
	ImageURL     string          `json:"imageUrl"`
}

// Ingredient is a canonical, normalized ingredient.
type Ingredient struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	NameAr string  `json:"nameAr,omitempty"`
}

// NormalizedRecipe is the final pipeline output.
type NormalizedRecipe struct {
	Title        string       `json:"title"`
	TitleAr      string       `json:"titleAr,omitempty"`
	Servings     int          `json:"servings"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	ImageURL     string       `json:"imageUrl"`
	Language     Language     `json:"language"`
	Nutrition    Nutrition    `json:"nutrition"`
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// CandidateExtractor finds structured-data candidates in a parsed page.
type CandidateExtractor interface {
	Extract(ctx context.Context, doc *goquery.Document, rawHTML, pageURL string) []RecipeCandidate
}

// FallbackExtractor derives a single candidate from page markup.
type FallbackExtractor interface {
	Extract(doc *goquery.Document, pageURL string) RecipeCandidate
}

// Renderer converts a normalized recipe into a final output format.
type Renderer interface {
	Render(recipe *NormalizedRecipe, sourceURL string) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
