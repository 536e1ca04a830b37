// Package fetch implements the Fetcher interface.
// It performs HTTP GET requests with browser-like defaults and classifies
// failures into the pipeline error taxonomy.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"

	"github.com/gaurav-prasanna/recipepipe/core"
)

const (
	DefaultTimeout      = 15 * time.Second
	DefaultMaxRedirects = 5
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	acceptHTML          = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	// fallbackCharset is what charset.DetermineEncoding reports when the
	// page declares nothing.
	fallbackCharset = "windows-1252"

	// MaxHTMLSize limits accepted pages to 10MB.
	MaxHTMLSize = 10 * 1024 * 1024
)

// Options configures an HTTPFetcher. Zero values select the defaults.
type Options struct {
	Timeout      time.Duration
	MaxRedirects int
	UserAgent    string
	MaxBodySize  int // bytes; reading stops once exceeded
}

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client *resty.Client
}

// New creates an HTTPFetcher with the default timeout and redirect policy.
func New() *HTTPFetcher {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an HTTPFetcher from opts.
func NewWithOptions(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = MaxHTMLSize
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(opts.MaxRedirects)).
		SetResponseBodyLimit(opts.MaxBodySize).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", acceptHTML).
		SetHeader("Accept-Language", "en,ar;q=0.9")

	return &HTTPFetcher{client: client}
}

// Fetch retrieves the HTML content of the given URL. Errors are *core.Error
// values: 400/404 are InvalidURL, 401/403/429 are ParseFailure, everything
// else (other statuses, timeouts, DNS, resets) is Network.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		if resp != nil {
			if serr := classifyStatus(resp.StatusCode()); serr != nil {
				return nil, serr
			}
		}
		return nil, core.ParseFailure("page is too large to process", fmt.Errorf("fetching %s: %w", url, err))
	}
	if err != nil {
		return nil, core.Network(networkMessage(err), fmt.Errorf("fetching %s: %w", url, err))
	}

	status := resp.StatusCode()
	if err := classifyStatus(status); err != nil {
		return nil, err
	}

	body := resp.Body()
	contentType := resp.Header().Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "html") && !isMarkup(body) {
		return nil, core.ParseFailure("page is not an HTML document",
			fmt.Errorf("detected %s", mimetype.Detect(body).String()))
	}

	finalURL := url
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &core.FetchResult{
		URL:         finalURL,
		StatusCode:  status,
		ContentType: contentType,
		HTML:        decode(body, contentType),
	}, nil
}

func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusBadRequest || status == http.StatusNotFound:
		return core.InvalidURL("the page could not be found", fmt.Errorf("unexpected status %d", status))
	case status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return core.ParseFailure("the site refused to share this page", fmt.Errorf("unexpected status %d", status))
	default:
		return core.Network("the site is not responding", fmt.Errorf("unexpected status %d", status))
	}
}

func networkMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
		return "the site took too long to respond"
	}
	return "could not reach the site"
}

// isMarkup reports whether body sniffs as text. HTML, XHTML and plain text
// all descend from text/plain in mimetype's tree.
func isMarkup(body []byte) bool {
	if len(body) == 0 {
		return true
	}
	for mt := mimetype.Detect(body); mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return true
		}
	}
	return false
}

// decode converts body to UTF-8. A charset declared in the Content-Type
// header or a BOM wins; valid UTF-8 is kept as is; a <meta> charset is
// used next; with no declaration at all chardet guesses the encoding.
func decode(body []byte, contentType string) string {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain && utf8.Valid(body) {
		return string(body)
	}
	if !certain && name == fallbackCharset {
		if guess, err := chardet.NewHtmlDetector().DetectBest(body); err == nil && guess != nil {
			if e, _ := charset.Lookup(guess.Charset); e != nil {
				enc = e
			}
		}
	}

	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(out)
}
