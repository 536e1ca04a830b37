// Package pipeline sequences the extraction stages for one URL:
// validate, fetch, extract, merge and normalize. Every failure leaves the
// pipeline as a *core.Error of one of the four kinds.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/recipepipe/core"
	"github.com/gaurav-prasanna/recipepipe/core/adapter"
	"github.com/gaurav-prasanna/recipepipe/core/extract"
	"github.com/gaurav-prasanna/recipepipe/core/merge"
	"github.com/gaurav-prasanna/recipepipe/core/normalize"
	"github.com/gaurav-prasanna/recipepipe/core/schema"
	"github.com/gaurav-prasanna/recipepipe/core/urlcheck"
)

// State is a pipeline stage.
type State int

const (
	StateValidating State = iota
	StateFetching
	StateExtracting
	StateMerging
	StateNormalizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateFetching:
		return "fetching"
	case StateExtracting:
		return "extracting"
	case StateMerging:
		return "merging"
	case StateNormalizing:
		return "normalizing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// OutcomeSuccess is reported to the Observer for successful runs. Failed
// runs report the error code, e.g. "NO_RECIPE".
const OutcomeSuccess = "success"

// Observer receives stage timings and run outcomes.
type Observer interface {
	ObserveStage(stage string, elapsed time.Duration)
	ObserveResult(outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveStage(string, time.Duration)  {}
func (nopObserver) ObserveResult(string, time.Duration) {}

// Pipeline runs recipe extraction. It is safe for concurrent use.
type Pipeline struct {
	fetcher    core.Fetcher
	schema     core.CandidateExtractor
	html       core.FallbackExtractor
	normalizer *normalize.Normalizer
	adapter    adapter.Adapter
	logger     *zap.Logger
	observer   Observer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithAdapter plugs an external scraper into the schema extractor.
func WithAdapter(a adapter.Adapter) Option {
	return func(p *Pipeline) { p.adapter = a }
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithExtractors replaces the default extractors. Nil arguments keep the
// default.
func WithExtractors(s core.CandidateExtractor, h core.FallbackExtractor) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.schema = s
		}
		if h != nil {
			p.html = h
		}
	}
}

// New creates a Pipeline that fetches pages with fetcher.
func New(fetcher core.Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:    fetcher,
		html:       extract.New(),
		normalizer: normalize.New(),
		logger:     zap.NewNop(),
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.schema == nil {
		p.schema = schema.New(p.adapter, p.logger)
	}
	return p
}

// Run extracts the recipe at rawURL.
func (p *Pipeline) Run(ctx context.Context, rawURL string) (recipe *core.NormalizedRecipe, err error) {
	start := time.Now()
	defer p.finish(rawURL, start, &recipe, &err)

	var target string
	err = p.timed(StateValidating, rawURL, func() error {
		u, verr := urlcheck.Validate(rawURL)
		if verr != nil {
			return core.InvalidURL("enter a valid http or https link", verr)
		}
		target = u.String()
		return nil
	})
	if err != nil {
		return nil, err
	}

	var page *core.FetchResult
	err = p.timed(StateFetching, target, func() error {
		var ferr error
		page, ferr = p.fetcher.Fetch(ctx, target)
		var cerr *core.Error
		switch {
		case ferr != nil && !errors.As(ferr, &cerr):
			return core.Network("could not reach the site", ferr)
		case ferr != nil:
			return ferr
		case page == nil:
			return core.ParseFailure(core.GenericParseMessage, errors.New("fetcher returned no page"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pageURL := page.URL
	if pageURL == "" {
		pageURL = target
	}
	return p.process(ctx, pageURL, page.HTML)
}

// Process runs extraction onward over already fetched markup. pageURL is
// used for resolving links and language detection only.
func (p *Pipeline) Process(ctx context.Context, pageURL, html string) (recipe *core.NormalizedRecipe, err error) {
	start := time.Now()
	defer p.finish(pageURL, start, &recipe, &err)
	return p.process(ctx, pageURL, html)
}

func (p *Pipeline) process(ctx context.Context, pageURL, html string) (*core.NormalizedRecipe, error) {
	var (
		doc        *goquery.Document
		candidates []core.RecipeCandidate
		fallback   core.RecipeCandidate
	)
	err := p.timed(StateExtracting, pageURL, func() error {
		var perr error
		doc, perr = goquery.NewDocumentFromReader(strings.NewReader(html))
		if perr != nil {
			return core.ParseFailure(core.GenericParseMessage, fmt.Errorf("parsing HTML: %w", perr))
		}
		candidates, fallback = p.extract(ctx, doc, html, pageURL)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var merged core.RecipeCandidate
	_ = p.timed(StateMerging, pageURL, func() error {
		merged = merge.Merge(merge.SelectPrimary(candidates), fallback)
		return nil
	})

	var recipe *core.NormalizedRecipe
	err = p.timed(StateNormalizing, pageURL, func() error {
		var nerr error
		recipe, nerr = p.normalizer.Normalize(merged, core.PageInfo{
			URL:      pageURL,
			HTMLLang: doc.Find("html").AttrOr("lang", ""),
		})
		return nerr
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// extract runs both extractors concurrently over the read-only document.
// A failing extractor contributes nothing and never stops the other one.
func (p *Pipeline) extract(ctx context.Context, doc *goquery.Document, html, pageURL string) ([]core.RecipeCandidate, core.RecipeCandidate) {
	var (
		g          errgroup.Group
		candidates []core.RecipeCandidate
		fallback   core.RecipeCandidate
	)
	g.Go(func() (err error) {
		defer recoverTo(&err, "schema extractor")
		candidates = p.schema.Extract(ctx, doc, html, pageURL)
		return nil
	})
	g.Go(func() (err error) {
		defer recoverTo(&err, "html extractor")
		fallback = p.html.Extract(doc, pageURL)
		return nil
	})
	if err := g.Wait(); err != nil {
		p.logger.Warn("extractor failed", zap.String("url", pageURL), zap.Error(err))
	}

	p.logger.Debug("candidates extracted",
		zap.String("url", pageURL),
		zap.Int("schema_candidates", len(candidates)),
		zap.Int("fallback_score", merge.Score(fallback)))
	return candidates, fallback
}

func (p *Pipeline) timed(state State, url string, fn func() error) error {
	p.logger.Debug("pipeline stage", zap.Stringer("state", state), zap.String("url", url))
	start := time.Now()
	err := fn()
	p.observer.ObserveStage(state.String(), time.Since(start))
	return err
}

// finish converts panics and unclassified errors into ParseFailure, logs
// the outcome and reports it to the observer.
func (p *Pipeline) finish(url string, start time.Time, recipe **core.NormalizedRecipe, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
	elapsed := time.Since(start)

	if *err == nil {
		p.logger.Info("recipe extracted",
			zap.String("url", url),
			zap.String("title", (*recipe).Title),
			zap.String("language", string((*recipe).Language)),
			zap.Int("ingredients", len((*recipe).Ingredients)),
			zap.Duration("elapsed", elapsed))
		p.observer.ObserveResult(OutcomeSuccess, elapsed)
		return
	}

	var known *core.Error
	if errors.As(*err, &known) {
		p.logger.Info("recipe extraction failed",
			zap.String("url", url),
			zap.Stringer("kind", known.Kind),
			zap.Error(*err),
			zap.Duration("elapsed", elapsed))
	} else {
		p.logger.Error("unexpected extraction failure",
			zap.String("url", url),
			zap.Error(*err),
			zap.Duration("elapsed", elapsed))
	}

	cerr := core.Classify(*err)
	*recipe = nil
	*err = cerr
	p.observer.ObserveResult(cerr.Kind.Code(), elapsed)
}

func recoverTo(err *error, name string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s panicked: %v", name, r)
	}
}
