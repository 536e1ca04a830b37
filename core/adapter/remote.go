package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/gaurav-prasanna/recipepipe/core"
	"github.com/gaurav-prasanna/recipepipe/core/jsonld"
)

// maxRemoteResponse caps the scraper response body at 2MB.
const maxRemoteResponse = 2 * 1024 * 1024

// RemoteOptions configures a Remote scraper.
type RemoteOptions struct {
	Endpoint string
	Timeout  time.Duration
	Retries  int
}

// Remote calls an external scraping service. It POSTs {"url","html"} as
// JSON and expects a schema.org Recipe object back. 204 and 404 mean the
// service found no recipe.
type Remote struct {
	endpoint string
	client   *retryablehttp.Client
}

// NewRemote creates a Remote scraper. Connection errors and 5xx responses
// are retried up to opts.Retries times.
func NewRemote(opts RemoteOptions) *Remote {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.Retries
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = opts.Timeout
	rc.Logger = nil

	return &Remote{endpoint: opts.Endpoint, client: rc}
}

// Scrape implements Scraper.
func (r *Remote) Scrape(ctx context.Context, url, html string) (*core.RecipeCandidate, error) {
	body, err := sonic.Marshal(Page{URL: url, HTML: html})
	if err != nil {
		return nil, fmt.Errorf("encoding scraper request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("building scraper request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling scraper: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("scraper returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteResponse))
	if err != nil {
		return nil, fmt.Errorf("reading scraper response: %w", err)
	}

	var node map[string]any
	if err := sonic.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decoding scraper response: %w", err)
	}
	if node == nil {
		return nil, errors.New("scraper response is not an object")
	}

	c := jsonld.Candidate(node, url)
	if c.Title == "" && len(c.Ingredients) == 0 {
		return nil, nil
	}
	c.Source = SourceAdapter
	return &c, nil
}
