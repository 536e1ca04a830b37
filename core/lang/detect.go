// Package lang classifies recipe pages as Arabic or English.
package lang

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/language"

	"github.com/gaurav-prasanna/recipepipe/core"
	"github.com/gaurav-prasanna/recipepipe/core/urlcheck"
)

// arabicDomains lists recipe sites that publish in Arabic even when the
// page carries no Arabic script in its title or URL.
var arabicDomains = []string{
	"fatafeat.com",
	"shahiya.com",
	"sayidaty.net",
	"supermama.me",
	"atyabtabkha.com",
	"3a2ilati.com",
	"mawdoo3.com",
	"zahratalkhaleej.ae",
	"alsiyaha.com",
	"cookpad.com/eg",
}

var arabicBase, _ = language.Arabic.Base()

// ContainsArabic reports whether s has any Arabic-script code point.
func ContainsArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}

// Detect returns LanguageArabic when text or rawURL contains Arabic
// script or the URL belongs to a known Arabic recipe site.
func Detect(text, rawURL string) core.Language {
	if ContainsArabic(text) || ContainsArabic(rawURL) {
		return core.LanguageArabic
	}
	if decoded, err := url.PathUnescape(rawURL); err == nil && ContainsArabic(decoded) {
		return core.LanguageArabic
	}
	if isArabicSite(rawURL) {
		return core.LanguageArabic
	}
	return core.LanguageEnglish
}

// FromPage combines the <html lang> attribute with Detect. A lang tag
// whose base language is Arabic wins outright.
func FromPage(htmlLang, title, rawURL string) core.Language {
	if tag, err := language.Parse(strings.TrimSpace(htmlLang)); err == nil {
		if base, _ := tag.Base(); base == arabicBase {
			return core.LanguageArabic
		}
	}
	return Detect(title, rawURL)
}

func isArabicSite(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	for _, entry := range arabicDomains {
		domain, prefix, _ := strings.Cut(entry, "/")
		if !urlcheck.HostMatches(parsed.Hostname(), domain) {
			continue
		}
		path := strings.TrimPrefix(parsed.Path, "/")
		if prefix == "" || path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
