package adapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/recipepipe/core"
)

type urlFirst struct{ got Page }

func (s *urlFirst) Scrape(_ context.Context, url, html string) (*core.RecipeCandidate, error) {
	s.got = Page{URL: url, HTML: html}
	return &core.RecipeCandidate{Title: "Scraped"}, nil
}

type htmlFirst struct{ got Page }

func (p *htmlFirst) Parse(_ context.Context, html, url string) (*core.RecipeCandidate, error) {
	p.got = Page{URL: url, HTML: html}
	return &core.RecipeCandidate{Title: "Parsed"}, nil
}

func TestProbeConventions(t *testing.T) {
	ctx := context.Background()

	s := &urlFirst{}
	a, ok := Probe(s)
	require.True(t, ok)
	c, err := a.TryExtract(ctx, "https://x.test/r", "<html/>")
	require.NoError(t, err)
	assert.Equal(t, "Scraped", c.Title)
	assert.Equal(t, Page{URL: "https://x.test/r", HTML: "<html/>"}, s.got)

	p := &htmlFirst{}
	a, ok = Probe(p)
	require.True(t, ok)
	_, err = a.TryExtract(ctx, "https://x.test/r", "<html/>")
	require.NoError(t, err)
	assert.Equal(t, Page{URL: "https://x.test/r", HTML: "<html/>"}, p.got)

	fn := func(_ context.Context, page Page) (*core.RecipeCandidate, error) {
		return &core.RecipeCandidate{Title: page.URL}, nil
	}
	a, ok = Probe(fn)
	require.True(t, ok)
	c, err = a.TryExtract(ctx, "https://x.test/fn", "")
	require.NoError(t, err)
	assert.Equal(t, "https://x.test/fn", c.Title)
}

func TestProbeRejects(t *testing.T) {
	for _, v := range []any{nil, 42, "scraper", ScrapeFunc(nil), struct{}{}} {
		_, ok := Probe(v)
		assert.False(t, ok, "%T", v)
	}
}

func TestSafeSwallowsErrorsAndPanics(t *testing.T) {
	ctx := context.Background()

	failing := Safe(ScrapeFunc(func(context.Context, Page) (*core.RecipeCandidate, error) {
		return nil, errors.New("boom")
	}), nil)
	c, err := failing.TryExtract(ctx, "u", "h")
	assert.NoError(t, err)
	assert.Nil(t, c)

	panicking := Safe(ScrapeFunc(func(context.Context, Page) (*core.RecipeCandidate, error) {
		panic("scraper bug")
	}), nil)
	assert.NotPanics(t, func() {
		c, err = panicking.TryExtract(ctx, "u", "h")
	})
	assert.NoError(t, err)
	assert.Nil(t, c)

	assert.Nil(t, Safe(nil, nil))
}

func TestSafeTagsSource(t *testing.T) {
	orig := &core.RecipeCandidate{Title: "Soup", Source: "other"}
	a := Safe(ScrapeFunc(func(context.Context, Page) (*core.RecipeCandidate, error) {
		return orig, nil
	}), nil)

	c, err := a.TryExtract(context.Background(), "u", "h")
	require.NoError(t, err)
	assert.Equal(t, SourceAdapter, c.Source)
	assert.Equal(t, "other", orig.Source)
}

func TestRemoteScrape(t *testing.T) {
	var got Page
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, sonic.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"@type": "Recipe",
			"name": "Hummus",
			"recipeIngredient": ["1 cup chickpeas", "2 tbsp tahini"],
			"recipeInstructions": "Blend everything.",
			"recipeYield": 4,
			"image": "/hummus.jpg"
		}`))
	}))
	defer srv.Close()

	r := NewRemote(RemoteOptions{Endpoint: srv.URL, Timeout: time.Second})
	c, err := r.Scrape(context.Background(), "https://food.test/hummus", "<html></html>")
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, Page{URL: "https://food.test/hummus", HTML: "<html></html>"}, got)
	assert.Equal(t, SourceAdapter, c.Source)
	assert.Equal(t, "Hummus", c.Title)
	assert.Len(t, c.Ingredients, 2)
	assert.Equal(t, []string{"Blend everything."}, c.Instructions)
	assert.Equal(t, "4", c.Servings)
	assert.Equal(t, "https://food.test/hummus.jpg", c.ImageURL)
}

func TestRemoteNoRecipe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := NewRemote(RemoteOptions{Endpoint: srv.URL}).Scrape(context.Background(), "u", "h")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestRemoteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"@type":"Recipe","name":"Falafel","recipeIngredient":["chickpeas"]}`))
	}))
	defer srv.Close()

	c, err := NewRemote(RemoteOptions{Endpoint: srv.URL, Retries: 2}).Scrape(context.Background(), "u", "h")
	require.NoError(t, err)
	assert.Equal(t, "Falafel", c.Title)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRemoteGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	remote := NewRemote(RemoteOptions{Endpoint: srv.URL, Retries: 0})
	_, err := remote.Scrape(context.Background(), "u", "h")
	assert.Error(t, err)

	// Through Safe the failure is just "no recipe".
	a, ok := Probe(remote)
	require.True(t, ok)
	c, err := Safe(a, nil).TryExtract(context.Background(), "u", "h")
	assert.NoError(t, err)
	assert.Nil(t, c)
}
