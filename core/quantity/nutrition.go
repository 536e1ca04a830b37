package quantity

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/recipepipe/core"
)

// numRun matches Western or Arabic-Indic digits with optional thousands
// grouping and decimal part.
const numRun = `[0-9٠-٩۰-۹]+(?:[,٬][0-9٠-٩۰-۹]{3})*(?:[.٫][0-9٠-٩۰-۹]+)?`

var numRunRe = regexp.MustCompile(numRun)

// Keywords is a bilingual keyword list for one nutrition field, compiled
// into proximity patterns: keyword, up to 10 non-digits, then a number.
type Keywords struct {
	words    []string
	patterns []*regexp.Regexp
}

// NewKeywords compiles the proximity patterns for words, in order.
func NewKeywords(words ...string) *Keywords {
	k := &Keywords{words: words}
	for _, w := range words {
		k.patterns = append(k.patterns,
			regexp.MustCompile(`(?i)`+regexp.QuoteMeta(w)+`[^0-9٠-٩۰-۹]{0,10}(`+numRun+`)`))
	}
	return k
}

// Words returns the keywords in match order.
func (k *Keywords) Words() []string { return append([]string(nil), k.words...) }

var (
	CalorieKeywords = NewKeywords("calories", "calorie", "kcal", "energy", "السعرات الحرارية", "سعرات", "سعرة")
	ProteinKeywords = NewKeywords("protein", "بروتين")
	CarbKeywords    = NewKeywords("carbohydrates", "carbohydrate", "carbs", "كربوهيدرات", "نشويات")
	FatKeywords     = NewKeywords("total fat", "fats", "fat", "دهون")
)

// StructuredNutrient reads a nutrition value from structured data: a
// finite number is returned as-is, a string yields its first numeric run.
// Anything else is 0.
func StructuredNutrient(v any) float64 {
	if s, ok := v.(string); ok {
		return parseRun(numRunRe.FindString(s))
	}
	if f, ok := NumberFrom(v); ok {
		return f
	}
	return 0
}

// FreeTextNutrient returns the value following the first keyword that
// yields a positive number, or 0.
func FreeTextNutrient(text string, kw *Keywords) float64 {
	for _, re := range kw.patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v := parseRun(m[1]); v > 0 {
			return v
		}
	}
	return 0
}

// NutritionFromText applies FreeTextNutrient for every field.
func NutritionFromText(text string) core.Nutrition {
	return core.Nutrition{
		Calories: FreeTextNutrient(text, CalorieKeywords),
		Protein:  FreeTextNutrient(text, ProteinKeywords),
		Carbs:    FreeTextNutrient(text, CarbKeywords),
		Fats:     FreeTextNutrient(text, FatKeywords),
	}
}

func parseRun(run string) float64 {
	if run == "" {
		return 0
	}
	v, ok := ParseNumber(strings.ReplaceAll(run, ",", ""))
	if !ok {
		return 0
	}
	return v
}
