package quantity

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gaurav-prasanna/recipepipe/core"
)

// unitTable maps lower-cased English and Arabic unit tokens to canonical
// short forms. Canonical forms map to themselves.
var unitTable = map[string]string{
	"cup": "cup", "cups": "cup",
	"كوب": "cup", "أكواب": "cup", "اكواب": "cup", "كوبان": "cup", "كوبين": "cup", "فنجان": "cup",

	"tbsp": "tbsp", "tbs": "tbsp", "tbl": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
	"ملعقة كبيرة": "tbsp", "ملاعق كبيرة": "tbsp", "ملعقة طعام": "tbsp", "ملاعق طعام": "tbsp",
	"ملعقة": "tbsp", "ملاعق": "tbsp",

	"tsp": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
	"ملعقة صغيرة": "tsp", "ملاعق صغيرة": "tsp",

	"g": "g", "gr": "g", "gram": "g", "grams": "g", "gramme": "g", "grammes": "g",
	"جرام": "g", "جرامات": "g", "غرام": "g", "غرامات": "g", "جم": "g",

	"kg": "kg", "kgs": "kg", "kilogram": "kg", "kilograms": "kg",
	"كيلو": "kg", "كيلوجرام": "kg", "كيلوغرام": "kg", "كغ": "kg",

	"ml": "ml", "milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
	"مل": "ml", "ملل": "ml", "مليلتر": "ml", "ملليلتر": "ml",

	"l": "l", "liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"لتر": "l", "لترات": "l",

	"oz": "oz", "ounce": "oz", "ounces": "oz", "أونصة": "oz", "اونصة": "oz",

	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb", "رطل": "lb", "باوند": "lb",

	"pinch": "pinch", "pinches": "pinch", "رشة": "pinch", "رشات": "pinch",

	"clove": "clove", "cloves": "clove", "فص": "clove", "فصوص": "clove",

	"piece": "piece", "pieces": "piece", "pc": "piece", "pcs": "piece", "حبة": "piece", "حبات": "piece",
}

// unitKeys holds the table keys ordered longest first, so a compound key
// such as "ملعقة كبيرة" is tried before "ملعقة".
var unitKeys = sortedUnitKeys()

func sortedUnitKeys() []string {
	keys := make([]string, 0, len(unitTable))
	for k := range unitTable {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(keys[i]), utf8.RuneCountInString(keys[j])
		if li != lj {
			return li > lj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// NormalizeUnit maps a unit token to its canonical short form. Unknown
// tokens pass through lower-cased with collapsed whitespace.
func NormalizeUnit(token string) string {
	t := strings.ToLower(strings.TrimSpace(spaceRe.ReplaceAllString(token, " ")))
	t = strings.TrimSuffix(t, ".")
	if t == "" {
		return core.DefaultUnit
	}
	if canon, ok := unitTable[t]; ok {
		return canon
	}
	return t
}

// matchUnit finds the longest unit key that is a whole-word prefix of s.
// It returns the canonical unit and the byte length consumed.
func matchUnit(s string) (string, int) {
	for _, key := range unitKeys {
		if len(s) < len(key) || !strings.EqualFold(s[:len(key)], key) {
			continue
		}
		if next, _ := utf8.DecodeRuneInString(s[len(key):]); len(s) > len(key) &&
			(unicode.IsLetter(next) || unicode.IsDigit(next)) {
			continue
		}
		return unitTable[key], len(key)
	}
	return "", 0
}
