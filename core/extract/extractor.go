// Package extract implements the FallbackExtractor interface.
// It derives a recipe candidate straight from page markup by:
//  1. Reading title and image from social meta tags, then headings and images
//  2. Collecting ingredient and instruction items from known selector groups
//  3. Skipping markup that is never rendered as text (scripts, templates)
//
// The shared document is only read, never modified, so the extractor can
// run alongside the structured-data extractor.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/gaurav-prasanna/recipepipe/core"
	"github.com/gaurav-prasanna/recipepipe/core/quantity"
	"github.com/gaurav-prasanna/recipepipe/core/textutil"
	"github.com/gaurav-prasanna/recipepipe/core/urlcheck"
)

// SourceHTML tags candidates produced by this extractor.
const SourceHTML = "html"

// noiseSelectors are elements whose contents are never visible text. Layout
// containers such as form or aside are not noise: some sites wrap the whole
// page in a form.
var noiseSelectors = []string{"script", "style", "noscript", "template"}

// Selector groups, tried in priority order. Their matches are unioned.
var (
	ingredientGroups = []string{
		`[itemprop="recipeIngredient"], [itemprop="ingredients"]`,
		`.recipe-ingredients li`,
		`.ingredients li`,
		`li[class*="ingredient"], [class*="ingredient"] li`,
	}
	instructionGroups = []string{
		`[itemprop="recipeInstructions"]`,
		`.recipe-instructions li, .recipe-directions li`,
		`.instructions li, .directions li`,
		`li[class*="instruction"], [class*="instruction"] li`,
		`li[class*="direction"], [class*="direction"] li`,
	}
	servingsGroups = []string{
		`[itemprop="recipeYield"]`,
		`[class*="servings"]`,
		`[class*="yield"]`,
	}
	nutritionGroups = []string{
		`[itemprop="nutrition"]`,
		`[class*="nutrition"], [id*="nutrition"]`,
	}
)

type matchers struct {
	noise        goquery.Matcher
	ingredients  []goquery.Matcher
	instructions []goquery.Matcher
	servings     []goquery.Matcher
	nutrition    []goquery.Matcher
	listItems    goquery.Matcher
}

// compile builds matchers once. Selectors that fail to compile are dropped
// so a single bad selector never disables the extractor.
func compile() matchers {
	group := func(sels []string) []goquery.Matcher {
		out := make([]goquery.Matcher, 0, len(sels))
		for _, s := range sels {
			if m, err := cascadia.Compile(s); err == nil {
				out = append(out, m)
			}
		}
		return out
	}
	return matchers{
		noise:        cascadia.MustCompile(strings.Join(noiseSelectors, ", ")),
		ingredients:  group(ingredientGroups),
		instructions: group(instructionGroups),
		servings:     group(servingsGroups),
		nutrition:    group(nutritionGroups),
		listItems:    cascadia.MustCompile("li, p"),
	}
}

// HTMLExtractor extracts a recipe candidate from markup using CSS selectors.
type HTMLExtractor struct {
	m matchers
}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{m: compile()}
}

// Extract returns the heuristic candidate for doc. Missing fields are left
// empty; it never fails.
func (e *HTMLExtractor) Extract(doc *goquery.Document, pageURL string) core.RecipeCandidate {
	if doc == nil {
		return core.RecipeCandidate{Source: SourceHTML}
	}
	return core.RecipeCandidate{
		Source:       SourceHTML,
		Title:        e.title(doc),
		Ingredients:  toRaw(e.collect(doc, e.m.ingredients)),
		Instructions: e.collect(doc, e.m.instructions),
		Servings:     e.servings(doc),
		Nutrition:    quantity.NutritionFromText(e.nutritionText(doc)),
		ImageURL:     urlcheck.Resolve(e.image(doc), pageURL),
	}
}

func (e *HTMLExtractor) title(doc *goquery.Document) string {
	return textutil.CleanText(textutil.FirstNonEmpty(
		meta(doc, "og:title"),
		meta(doc, "twitter:title"),
		doc.Find("h1").First().Text(),
		doc.Find("title").First().Text(),
	))
}

func (e *HTMLExtractor) image(doc *goquery.Document) string {
	if v := textutil.FirstNonEmpty(meta(doc, "og:image"), meta(doc, "twitter:image")); v != "" {
		return v
	}
	var src string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src = strings.TrimSpace(s.AttrOr("src", ""))
		return src == ""
	})
	return src
}

func (e *HTMLExtractor) servings(doc *goquery.Document) string {
	for _, m := range e.m.servings {
		var found string
		doc.FindMatcher(m).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if e.isNoise(s) {
				return true
			}
			found = textutil.CleanText(textutil.FirstNonEmpty(s.AttrOr("content", ""), s.Text()))
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func (e *HTMLExtractor) nutritionText(doc *goquery.Document) string {
	for _, m := range e.m.nutrition {
		var found string
		doc.FindMatcher(m).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if e.isNoise(s) {
				return true
			}
			found = textutil.CleanText(s.Text())
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// collect unions the items matched by groups in order. A match that holds
// list items or paragraphs contributes the innermost of those; otherwise
// its own text.
func (e *HTMLExtractor) collect(doc *goquery.Document, groups []goquery.Matcher) []string {
	var lines []string
	for _, m := range groups {
		doc.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
			if e.isNoise(s) {
				return
			}
			items := s.FindMatcher(e.m.listItems).FilterFunction(func(_ int, item *goquery.Selection) bool {
				return item.FindMatcher(e.m.listItems).Length() == 0
			})
			if items.Length() == 0 {
				lines = append(lines, s.Text())
				return
			}
			items.Each(func(_ int, item *goquery.Selection) {
				lines = append(lines, item.Text())
			})
		})
	}
	return textutil.Dedupe(lines)
}

func (e *HTMLExtractor) isNoise(s *goquery.Selection) bool {
	return s.ClosestMatcher(e.m.noise).Length() > 0
}

func toRaw(lines []string) []core.RawIngredient {
	if len(lines) == 0 {
		return nil
	}
	out := make([]core.RawIngredient, len(lines))
	for i, l := range lines {
		out[i] = core.RawIngredient{Text: l}
	}
	return out
}

// meta returns the content of a <meta> tag looked up by name, then property.
func meta(doc *goquery.Document, key string) string {
	if v, ok := doc.Find(`meta[name="` + key + `"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if v, ok := doc.Find(`meta[property="` + key + `"]`).Attr("content"); ok {
		return v
	}
	return ""
}
