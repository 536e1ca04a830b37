// Package jsonld converts decoded schema.org JSON-LD trees into recipe
// candidates. Values are the generic shapes produced by a JSON decoder:
// map[string]any, []any, string, float64, bool and nil.
package jsonld

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/recipepipe/core"
	"github.com/gaurav-prasanna/recipepipe/core/quantity"
	"github.com/gaurav-prasanna/recipepipe/core/textutil"
	"github.com/gaurav-prasanna/recipepipe/core/urlcheck"
)

// SourceSchema tags candidates built from embedded structured data.
const SourceSchema = "schema"

// IsRecipe reports whether the node's @type is Recipe, either as a scalar
// or as a member of a type array. Prefixed forms such as
// "http://schema.org/Recipe" are accepted.
func IsRecipe(node map[string]any) bool {
	switch t := node["@type"].(type) {
	case string:
		return isRecipeType(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && isRecipeType(s) {
				return true
			}
		}
	}
	return false
}

func isRecipeType(t string) bool {
	t = strings.TrimSpace(t)
	if i := strings.LastIndexAny(t, "/:"); i >= 0 {
		t = t[i+1:]
	}
	return t == "Recipe"
}

// Walk calls visit for every recipe node in v, in discovery order: array
// elements in order, then an object's @graph, then its other keys sorted.
// Recipe nodes are not searched further.
func Walk(v any, visit func(map[string]any)) {
	switch x := v.(type) {
	case []any:
		for _, item := range x {
			Walk(item, visit)
		}
	case map[string]any:
		if IsRecipe(x) {
			visit(x)
			return
		}
		if graph, ok := x["@graph"]; ok {
			Walk(graph, visit)
		}
		keys := make([]string, 0, len(x))
		for k, val := range x {
			if k == "@graph" {
				continue
			}
			switch val.(type) {
			case []any, map[string]any:
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			Walk(x[k], visit)
		}
	}
}

// Candidate converts a recipe node into a candidate. Relative image URLs
// are resolved against pageURL.
func Candidate(node map[string]any, pageURL string) core.RecipeCandidate {
	return core.RecipeCandidate{
		Source:       SourceSchema,
		Title:        textutil.CleanText(firstString(node["name"], node["headline"])),
		Ingredients:  Ingredients(firstPresent(node, "recipeIngredient", "recipeIngredients", "ingredients")),
		Instructions: textutil.ParseInstructionField(node["recipeInstructions"]),
		Servings:     Servings(firstPresent(node, "recipeYield", "yield")),
		Nutrition:    Nutrition(node["nutrition"]),
		ImageURL:     urlcheck.Resolve(Image(node["image"]), pageURL),
	}
}

// Ingredients reads a recipeIngredient field: a single line, or a list of
// lines and {name, amount, unit} / {text} objects.
func Ingredients(v any) []core.RawIngredient {
	var out []core.RawIngredient
	switch x := v.(type) {
	case string:
		if s := textutil.CleanText(x); s != "" {
			out = append(out, core.RawIngredient{Text: s})
		}
	case []any:
		for _, item := range x {
			if ing, ok := ingredient(item); ok {
				out = append(out, ing)
			}
		}
	}
	return out
}

func ingredient(v any) (core.RawIngredient, bool) {
	switch x := v.(type) {
	case string:
		s := textutil.CleanText(x)
		return core.RawIngredient{Text: s}, s != ""
	case map[string]any:
		if name := textutil.CleanText(scalar(x["name"])); name != "" {
			return core.RawIngredient{
				Name:   name,
				Amount: textutil.CleanText(scalar(firstPresent(x, "amount", "quantity"))),
				Unit:   textutil.CleanText(scalar(x["unit"])),
			}, true
		}
		s := textutil.CleanText(scalar(x["text"]))
		return core.RawIngredient{Text: s}, s != ""
	}
	return core.RawIngredient{}, false
}

// Servings reads recipeYield: a string, a number, or a list whose first
// non-empty entry wins.
func Servings(v any) string {
	switch x := v.(type) {
	case []any:
		for _, item := range x {
			if s := Servings(item); s != "" {
				return s
			}
		}
		return ""
	default:
		return textutil.CleanText(scalar(x))
	}
}

// Nutrition reads a NutritionInformation object.
func Nutrition(v any) core.Nutrition {
	obj, ok := v.(map[string]any)
	if !ok {
		return core.Nutrition{}
	}
	return core.Nutrition{
		Calories: quantity.StructuredNutrient(obj["calories"]),
		Protein:  quantity.StructuredNutrient(obj["proteinContent"]),
		Carbs:    quantity.StructuredNutrient(obj["carbohydrateContent"]),
		Fats:     quantity.StructuredNutrient(obj["fatContent"]),
	}
}

func firstPresent(node map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := node[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(values ...any) string {
	for _, v := range values {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// scalar renders strings and numbers; other shapes yield "".
func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return ""
	}
}
