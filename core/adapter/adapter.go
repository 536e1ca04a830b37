// Package adapter bridges optional third-party recipe scrapers into the
// pipeline. A scraper may follow one of several calling conventions; Probe
// selects the usable one once, at wiring time.
package adapter

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/recipepipe/core"
)

// SourceAdapter tags candidates produced by a scraper adapter.
const SourceAdapter = "adapter"

// Page is the input handed to a scraper.
type Page struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

// Adapter is the uniform adapter interface. A nil candidate with a nil
// error means the scraper found no recipe.
type Adapter interface {
	TryExtract(ctx context.Context, url, html string) (*core.RecipeCandidate, error)
}

// ScrapeFunc is a scraper exposed as a plain function.
type ScrapeFunc func(ctx context.Context, page Page) (*core.RecipeCandidate, error)

// TryExtract implements Adapter.
func (f ScrapeFunc) TryExtract(ctx context.Context, url, html string) (*core.RecipeCandidate, error) {
	return f(ctx, Page{URL: url, HTML: html})
}

// Scraper is a scraper taking the page URL first.
type Scraper interface {
	Scrape(ctx context.Context, url, html string) (*core.RecipeCandidate, error)
}

// Parser is a scraper taking the page markup first.
type Parser interface {
	Parse(ctx context.Context, html, url string) (*core.RecipeCandidate, error)
}

type scraperAdapter struct{ s Scraper }

func (a scraperAdapter) TryExtract(ctx context.Context, url, html string) (*core.RecipeCandidate, error) {
	return a.s.Scrape(ctx, url, html)
}

type parserAdapter struct{ p Parser }

func (a parserAdapter) TryExtract(ctx context.Context, url, html string) (*core.RecipeCandidate, error) {
	return a.p.Parse(ctx, html, url)
}

// Probe returns an Adapter for v if it matches a known calling convention.
// It reports false for nil and for values it cannot call.
func Probe(v any) (Adapter, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case ScrapeFunc:
		return x, x != nil
	case func(context.Context, Page) (*core.RecipeCandidate, error):
		return ScrapeFunc(x), x != nil
	case Adapter:
		return x, true
	case Scraper:
		return scraperAdapter{x}, true
	case Parser:
		return parserAdapter{x}, true
	default:
		return nil, false
	}
}

type safeAdapter struct {
	inner  Adapter
	logger *zap.Logger
}

// Safe wraps a so that errors and panics are logged and reported as "no
// recipe". Returned candidates are tagged with SourceAdapter. Safe(nil)
// returns nil.
func Safe(a Adapter, logger *zap.Logger) Adapter {
	if a == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &safeAdapter{inner: a, logger: logger}
}

func (s *safeAdapter) TryExtract(ctx context.Context, url, html string) (c *core.RecipeCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("scraper adapter panicked",
				zap.String("url", url),
				zap.String("panic", fmt.Sprint(r)))
			c, err = nil, nil
		}
	}()

	c, err = s.inner.TryExtract(ctx, url, html)
	if err != nil {
		s.logger.Debug("scraper adapter failed", zap.String("url", url), zap.Error(err))
		return nil, nil
	}
	if c == nil {
		return nil, nil
	}
	out := *c
	out.Source = SourceAdapter
	return &out, nil
}
