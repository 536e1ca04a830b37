// Package quantity parses amounts, units and nutrition values written in
// English or Arabic. All lookup tables are package-level and read-only.
package quantity

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// digitReplacer maps Arabic-Indic and Extended Arabic-Indic digits and
// separators to their ASCII forms. Vulgar fractions become " n/d" so a
// whole number glued to a fraction ("1½") reads as a mixed fraction.
var digitReplacer = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٫", ".", "٬", "", "⁄", "/",
	"½", " 1/2", "⅓", " 1/3", "⅔", " 2/3", "¼", " 1/4", "¾", " 3/4",
	"⅛", " 1/8", "⅜", " 3/8", "⅝", " 5/8", "⅞", " 7/8",
	"⅕", " 1/5", "⅖", " 2/5", "⅗", " 3/5", "⅘", " 4/5",
	"⅙", " 1/6", "⅚", " 5/6",
)

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	rangeRe    = regexp.MustCompile(`(?i)\s*(?:[-–—]|\bto\b|إلى|الى)`)
	mixedRe    = regexp.MustCompile(`^(\d+)\s+(\d+)\s*/\s*(\d+)`)
	fractionRe = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)`)
	floatRe    = regexp.MustCompile(`^\+?(?:\d+(?:\.\d*)?|\.\d+)`)
)

// NormalizeDigits rewrites a token to ASCII digits and separators and
// expands vulgar fractions. Whitespace is collapsed and trimmed.
func NormalizeDigits(s string) string {
	s = digitReplacer.Replace(s)
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// ParseNumber converts a mixed-script numeric token to a float. Ranges
// resolve to their lower bound. It reports false when nothing parses or
// a fraction has a zero denominator.
func ParseNumber(token string) (float64, bool) {
	s := NormalizeDigits(token)
	if loc := rangeRe.FindStringIndex(s); loc != nil {
		s = strings.TrimSpace(s[:loc[0]])
	}
	if s == "" {
		return 0, false
	}

	if m := mixedRe.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		frac, ok := divide(m[2], m[3])
		if !ok {
			return 0, false
		}
		return whole + frac, true
	}
	if m := fractionRe.FindStringSubmatch(s); m != nil {
		return divide(m[1], m[2])
	}
	if m := floatRe.FindString(s); m != "" {
		v, err := strconv.ParseFloat(strings.TrimSuffix(m, "."), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// FindNumber parses the first number appearing anywhere in s, as in
// "Serves 4-6" or "يكفي ٣ أشخاص".
func FindNumber(s string) (float64, bool) {
	s = NormalizeDigits(s)
	i := strings.IndexAny(s, "0123456789")
	if i < 0 {
		return 0, false
	}
	return ParseNumber(s[i:])
}

// NumberFrom returns finite numeric JSON values unchanged and parses
// strings with ParseNumber.
func NumberFrom(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case float32:
		return NumberFrom(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		return ParseNumber(x)
	default:
		return 0, false
	}
}

func divide(num, den string) (float64, bool) {
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}
