package quantity

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/recipepipe/core"
	"github.com/gaurav-prasanna/recipepipe/core/lang"
)

// amountRe matches a leading mixed fraction, simple fraction or decimal,
// optionally followed by the upper bound of a range.
var amountRe = regexp.MustCompile(`(?i)^(?:\d+\s+\d+\s*/\s*\d+|\d+\s*/\s*\d+|\d+(?:\.\d+)?)(?:\s*(?:-|–|to)\s*\d+(?:\.\d+)?)?`)

var connectors = []string{"of ", "من "}

// ParseIngredientLine splits a free-text ingredient line into amount, unit
// and name. It returns nil only for a blank line. The returned ingredient
// has no ID; the caller assigns one.
func ParseIngredientLine(line string) *core.Ingredient {
	text := NormalizeDigits(line)
	if text == "" {
		return nil
	}

	amount := 1.0
	rest := text
	if token := amountRe.FindString(text); token != "" {
		if v, ok := ParseNumber(token); ok {
			amount = v
		}
		// "1/2-inch ginger": the hyphen belongs to the amount.
		rest = strings.TrimSpace(strings.TrimLeft(text[len(token):], " -–"))
	}

	unit := core.DefaultUnit
	if canon, n := matchUnit(rest); n > 0 {
		unit = canon
		rest = strings.TrimLeft(rest[n:], ". ")
	}
	for _, c := range connectors {
		if len(rest) > len(c) && strings.EqualFold(rest[:len(c)], c) {
			rest = strings.TrimSpace(rest[len(c):])
			break
		}
	}

	name := strings.TrimSpace(rest)
	if name == "" {
		name = text
	}

	ing := &core.Ingredient{Name: name, Amount: amount, Unit: unit}
	if lang.ContainsArabic(name) {
		ing.NameAr = name
	}
	return ing
}
