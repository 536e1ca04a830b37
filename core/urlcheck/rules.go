// Package urlcheck validates request URLs and resolves page-relative links.
package urlcheck

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// MaxURLLength is the longest URL accepted for extraction.
const MaxURLLength = 2048

var (
	ErrEmpty    = errors.New("url is empty")
	ErrTooLong  = fmt.Errorf("url exceeds %d characters", MaxURLLength)
	ErrScheme   = errors.New("url scheme must be http or https")
	ErrNoHost   = errors.New("url has no host")
	ErrRelative = errors.New("url must be absolute")
)

// Validate checks that rawURL is an absolute http(s) URL of acceptable
// length and returns the parsed form.
func Validate(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrEmpty
	}
	if len(rawURL) > MaxURLLength {
		return nil, ErrTooLong
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, ErrRelative
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return nil, ErrScheme
	}
	if parsed.Hostname() == "" {
		return nil, ErrNoHost
	}
	return parsed, nil
}

// HostMatches reports whether host is domain or one of its subdomains.
func HostMatches(host, domain string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// Resolve resolves a potentially relative link against the page URL.
// Links that cannot be resolved are returned unchanged.
func Resolve(href, pageURL string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "data:") {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return href
	}

	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}
