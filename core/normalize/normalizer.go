// Package normalize implements the Normalizing stage.
// It converts a merged recipe candidate into the canonical recipe record:
// parsed quantities and units, deduplicated ingredients and steps, rounded
// nutrition and the detected page language.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/gaurav-prasanna/recipepipe/core"
	"github.com/gaurav-prasanna/recipepipe/core/lang"
	"github.com/gaurav-prasanna/recipepipe/core/quantity"
	"github.com/gaurav-prasanna/recipepipe/core/textutil"
)

// MaxInstructions caps the number of steps kept.
const MaxInstructions = 100

// Normalizer builds NormalizedRecipe values. It holds no state and is safe
// for concurrent use.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize converts c into a canonical recipe. It fails with a NoRecipe
// error when the result has no title or no ingredients.
func (n *Normalizer) Normalize(c core.RecipeCandidate, page core.PageInfo) (*core.NormalizedRecipe, error) {
	title := textutil.CleanText(c.Title)
	ingredients := Ingredients(c.Ingredients)

	if title == "" || len(ingredients) == 0 {
		return nil, core.NoRecipe("no recipe was found on this page")
	}

	r := &core.NormalizedRecipe{
		Title:        title,
		Servings:     Servings(c.Servings),
		Ingredients:  ingredients,
		Instructions: Instructions(c.Instructions),
		ImageURL:     strings.TrimSpace(c.ImageURL),
		Language:     lang.FromPage(page.HTMLLang, title, page.URL),
		Nutrition:    Nutrition(c.Nutrition),
	}
	if r.Language == core.LanguageArabic {
		r.TitleAr = title
	}
	return r, nil
}

// Ingredients parses raw entries, drops blanks and case-insensitive
// duplicates (first wins) and assigns ordinal IDs.
func Ingredients(raw []core.RawIngredient) []core.Ingredient {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(raw))
	out := make([]core.Ingredient, 0, len(raw))

	for _, r := range raw {
		ing := ingredient(r)
		if ing == nil {
			continue
		}
		key := fold.String(ing.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		ing.ID = "ing-" + strconv.Itoa(len(out)+1)
		out = append(out, *ing)
	}
	return out
}

func ingredient(r core.RawIngredient) *core.Ingredient {
	if !r.Structured() {
		return quantity.ParseIngredientLine(textutil.CleanText(r.Text))
	}

	name := textutil.CleanText(r.Name)
	if name == "" {
		return nil
	}
	amount, ok := quantity.ParseNumber(r.Amount)
	if !ok || amount <= 0 {
		amount = 1
	}
	ing := &core.Ingredient{
		Name:   name,
		Amount: amount,
		Unit:   quantity.NormalizeUnit(textutil.CleanText(r.Unit)),
	}
	if lang.ContainsArabic(name) {
		ing.NameAr = name
	}
	return ing
}

// Instructions cleans and deduplicates steps, keeping at most
// MaxInstructions.
func Instructions(steps []string) []string {
	out := textutil.Dedupe(steps)
	if len(out) > MaxInstructions {
		out = out[:MaxInstructions]
	}
	return out
}

// Servings reads the first number in s, rounded, with a minimum of 1.
func Servings(s string) int {
	v, ok := quantity.FindNumber(s)
	if !ok {
		return 1
	}
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}

// Nutrition clamps every value to be non-negative and rounds it to one
// decimal place.
func Nutrition(n core.Nutrition) core.Nutrition {
	return core.Nutrition{
		Calories: round1(n.Calories),
		Protein:  round1(n.Protein),
		Carbs:    round1(n.Carbs),
		Fats:     round1(n.Fats),
	}
}

func round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return math.Round(v*10) / 10
}
