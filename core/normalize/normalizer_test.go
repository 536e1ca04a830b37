package normalize

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/recipepipe/core"
)

func TestNormalize(t *testing.T) {
	c := core.RecipeCandidate{
		Title: "  Pasta &amp; Peas ",
		Ingredients: []core.RawIngredient{
			{Text: "2 cups flour"},
			{Text: "2 CUPS FLOUR"},
			{Name: "peas", Amount: "1/2", Unit: "Cups"},
			{Text: "   "},
			{Name: "Salt"},
		},
		Instructions: []string{"Boil", "Boil", "  ", "Drain"},
		Servings:     "Serves 3.6",
		Nutrition:    core.Nutrition{Calories: 450.26, Protein: -3, Carbs: 12.04, Fats: math.NaN()},
		ImageURL:     " https://x.test/p.jpg ",
	}

	r, err := New().Normalize(c, core.PageInfo{URL: "https://example.com/pasta", HTMLLang: "en-US"})
	require.NoError(t, err)

	assert.Equal(t, "Pasta & Peas", r.Title)
	assert.Empty(t, r.TitleAr)
	assert.Equal(t, core.LanguageEnglish, r.Language)
	assert.Equal(t, 4, r.Servings)
	assert.Equal(t, []core.Ingredient{
		{ID: "ing-1", Name: "flour", Amount: 2, Unit: "cup"},
		{ID: "ing-2", Name: "peas", Amount: 0.5, Unit: "cup"},
		{ID: "ing-3", Name: "Salt", Amount: 1, Unit: "piece"},
	}, r.Ingredients)
	assert.Equal(t, []string{"Boil", "Drain"}, r.Instructions)
	assert.Equal(t, core.Nutrition{Calories: 450.3, Carbs: 12}, r.Nutrition)
	assert.Equal(t, "https://x.test/p.jpg", r.ImageURL)
}

func TestNormalizeArabic(t *testing.T) {
	c := core.RecipeCandidate{
		Title:       "كبسة دجاج",
		Ingredients: []core.RawIngredient{{Text: "٢ كوب أرز"}, {Text: "بيضتان"}},
		Servings:    "٦",
	}
	r, err := New().Normalize(c, core.PageInfo{URL: "https://example.com/kabsa"})
	require.NoError(t, err)

	assert.Equal(t, core.LanguageArabic, r.Language)
	assert.Equal(t, "كبسة دجاج", r.TitleAr)
	assert.Equal(t, 6, r.Servings)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, 2.0, r.Ingredients[0].Amount)
	assert.Equal(t, "cup", r.Ingredients[0].Unit)
	assert.Equal(t, "أرز", r.Ingredients[0].NameAr)
	assert.Equal(t, core.DefaultUnit, r.Ingredients[1].Unit)
	assert.Equal(t, "بيضتان", r.Ingredients[1].NameAr)
}

func TestNormalizeHTMLLangArabic(t *testing.T) {
	c := core.RecipeCandidate{Title: "Kunafa", Ingredients: []core.RawIngredient{{Text: "cheese"}}}
	r, err := New().Normalize(c, core.PageInfo{URL: "https://example.com/k", HTMLLang: "ar-EG"})
	require.NoError(t, err)
	assert.Equal(t, core.LanguageArabic, r.Language)
	assert.Equal(t, "Kunafa", r.TitleAr)
}

func TestNormalizeNoRecipe(t *testing.T) {
	tests := map[string]core.RecipeCandidate{
		"empty":          {},
		"no ingredients": {Title: "About us"},
		"no title":       {Ingredients: []core.RawIngredient{{Text: "salt"}}},
		"blank only":     {Title: "x", Ingredients: []core.RawIngredient{{Text: " "}}},
	}
	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New().Normalize(c, core.PageInfo{})
			require.Error(t, err)
			assert.Equal(t, core.KindNoRecipe, core.Classify(err).Kind)
		})
	}
}

func TestInstructionsCap(t *testing.T) {
	steps := make([]string, 150)
	for i := range steps {
		steps[i] = fmt.Sprintf("Step %d", i+1)
	}
	got := Instructions(steps)
	assert.Len(t, got, MaxInstructions)
	assert.Equal(t, "Step 100", got[99])
}

func TestServings(t *testing.T) {
	assert.Equal(t, 1, Servings(""))
	assert.Equal(t, 1, Servings("a crowd"))
	assert.Equal(t, 1, Servings("0"))
	assert.Equal(t, 8, Servings("8 servings"))
	assert.Equal(t, 2, Servings("1 1/2"))
}

func TestIngredientsIdempotent(t *testing.T) {
	first := Ingredients([]core.RawIngredient{{Text: "1 1/2 tbsp olive oil"}, {Text: "3 ملعقة كبيرة سكر"}})
	require.Len(t, first, 2)

	again := make([]core.RawIngredient, len(first))
	for i, ing := range first {
		again[i] = core.RawIngredient{Text: fmt.Sprintf("%g %s %s", ing.Amount, ing.Unit, ing.Name)}
	}
	second := Ingredients(again)
	assert.Equal(t, first, second)
}
