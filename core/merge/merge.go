// Package merge ranks structured-data candidates and combines the best one
// with the heuristic candidate field by field.
package merge

import (
	"strings"

	"github.com/gaurav-prasanna/recipepipe/core"
)

// Score weights.
const (
	titleWeight        = 2
	ingredientsWeight  = 4
	instructionsWeight = 4
	imageWeight        = 1
	caloriesWeight     = 2
)

// DefaultServings is used when neither candidate states a yield.
const DefaultServings = "1"

// Score rates how complete a candidate is. A candidate with no title and no
// ingredients scores at most 5.
func Score(c core.RecipeCandidate) int {
	score := 0
	if strings.TrimSpace(c.Title) != "" {
		score += titleWeight
	}
	if len(c.Ingredients) > 0 {
		score += ingredientsWeight
	}
	if len(c.Instructions) > 0 {
		score += instructionsWeight
	}
	if strings.TrimSpace(c.ImageURL) != "" {
		score += imageWeight
	}
	if c.Nutrition.Calories > 0 {
		score += caloriesWeight
	}
	return score
}

// SelectPrimary returns the highest-scoring candidate, or nil if there are
// none. Ties go to the earliest candidate.
func SelectPrimary(candidates []core.RecipeCandidate) *core.RecipeCandidate {
	best := -1
	bestScore := -1
	for i := range candidates {
		if s := Score(candidates[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return nil
	}
	c := candidates[best]
	return &c
}

// Merge fills each empty field of primary from fallback. primary may be
// nil, in which case fallback is used as is. Nutrition falls back per
// value; servings becomes DefaultServings only when both are empty.
func Merge(primary *core.RecipeCandidate, fallback core.RecipeCandidate) core.RecipeCandidate {
	if primary == nil {
		out := fallback
		if strings.TrimSpace(out.Servings) == "" {
			out.Servings = DefaultServings
		}
		return out
	}

	out := *primary
	if strings.TrimSpace(out.Title) == "" {
		out.Title = fallback.Title
	}
	if len(out.Ingredients) == 0 {
		out.Ingredients = fallback.Ingredients
	}
	if len(out.Instructions) == 0 {
		out.Instructions = fallback.Instructions
	}
	if strings.TrimSpace(out.ImageURL) == "" {
		out.ImageURL = fallback.ImageURL
	}
	if strings.TrimSpace(out.Servings) == "" {
		out.Servings = fallback.Servings
	}
	if strings.TrimSpace(out.Servings) == "" {
		out.Servings = DefaultServings
	}

	out.Nutrition = core.Nutrition{
		Calories: orElse(out.Nutrition.Calories, fallback.Nutrition.Calories),
		Protein:  orElse(out.Nutrition.Protein, fallback.Nutrition.Protein),
		Carbs:    orElse(out.Nutrition.Carbs, fallback.Nutrition.Carbs),
		Fats:     orElse(out.Nutrition.Fats, fallback.Nutrition.Fats),
	}
	return out
}

func orElse(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
