package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/recipepipe/core"
	"github.com/gaurav-prasanna/recipepipe/core/adapter"
	"github.com/gaurav-prasanna/recipepipe/core/fetch"
)

const pastaPage = `<!doctype html>
<html lang="en"><head><title>Pasta</title>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Recipe","name":"Pasta",
 "recipeIngredient":["200 g spaghetti","2 tbsp olive oil","1 clove garlic"],
 "recipeInstructions":["Boil the pasta.","Toss with oil and garlic."],
 "nutrition":{"@type":"NutritionInformation","calories":"450 kcal"},
 "recipeYield":"2 servings"}
</script></head><body><p>Welcome</p></body></html>`

const emptyPage = `<html><head><title>About us</title></head><body><p>We love food.</p></body></html>`

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	res   *core.FetchResult
	err   error
	panic bool
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*core.FetchResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.panic {
		panic("fetcher exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	res := *f.res
	if res.URL == "" {
		res.URL = url
	}
	return &res, nil
}

type recordingObserver struct {
	mu       sync.Mutex
	stages   []string
	outcomes []string
}

func (o *recordingObserver) ObserveStage(stage string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, stage)
}

func (o *recordingObserver) ObserveResult(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func requireKind(t *testing.T, err error, kind core.Kind) *core.Error {
	t.Helper()
	require.Error(t, err)
	var cerr *core.Error
	require.True(t, errors.As(err, &cerr), "got %T", err)
	assert.Equal(t, kind, cerr.Kind, "got %v", err)
	return cerr
}

func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunPastaJSONLD(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(pastaPage))
	})
	obs := &recordingObserver{}

	r, err := New(fetch.New(), WithObserver(obs)).Run(context.Background(), srv.URL+"/pasta")
	require.NoError(t, err)

	assert.Equal(t, "Pasta", r.Title)
	assert.Equal(t, core.LanguageEnglish, r.Language)
	assert.Empty(t, r.TitleAr)
	assert.Equal(t, 450.0, r.Nutrition.Calories)
	assert.Equal(t, 2, r.Servings)
	assert.Len(t, r.Ingredients, 3)
	assert.Equal(t, "ing-3", r.Ingredients[2].ID)
	assert.Equal(t, []string{"Boil the pasta.", "Toss with oil and garlic."}, r.Instructions)

	assert.Equal(t, []string{"validating", "fetching", "extracting", "merging", "normalizing"}, obs.stages)
	assert.Equal(t, []string{OutcomeSuccess}, obs.outcomes)
}

func TestRunNoRecipe(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(emptyPage))
	})
	obs := &recordingObserver{}

	r, err := New(fetch.New(), WithObserver(obs)).Run(context.Background(), srv.URL)
	assert.Nil(t, r)
	cerr := requireKind(t, err, core.KindNoRecipe)
	assert.Equal(t, http.StatusNotFound, cerr.Kind.HTTPStatus())
	assert.Equal(t, []string{"NO_RECIPE"}, obs.outcomes)
}

func TestRunFetchFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   core.Kind
		http   int
	}{
		{"not found", http.StatusNotFound, core.KindInvalidURL, http.StatusBadRequest},
		{"forbidden", http.StatusForbidden, core.KindParseFailure, http.StatusUnprocessableEntity},
		{"server error", http.StatusInternalServerError, core.KindNetwork, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := New(fetch.New()).Run(context.Background(), srv.URL)
			cerr := requireKind(t, err, tt.kind)
			assert.Equal(t, tt.http, cerr.Kind.HTTPStatus())
		})
	}
}

func TestRunTimeout(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	f := fetch.NewWithOptions(fetch.Options{Timeout: 50 * time.Millisecond})

	_, err := New(f).Run(context.Background(), srv.URL)
	cerr := requireKind(t, err, core.KindNetwork)
	assert.Equal(t, http.StatusServiceUnavailable, cerr.Kind.HTTPStatus())
}

func TestRunRejectsBeforeFetching(t *testing.T) {
	for _, u := range []string{"ftp://example.com/recipe", "", "not a url", "/relative/path"} {
		f := &fakeFetcher{res: &core.FetchResult{HTML: pastaPage}}
		_, err := New(f).Run(context.Background(), u)
		requireKind(t, err, core.KindInvalidURL)
		assert.Zero(t, f.calls, "url %q", u)
	}
}

func TestRunUnclassifiedFetchErrorIsNetwork(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection reset by peer")}
	_, err := New(f).Run(context.Background(), "https://example.com/r")
	requireKind(t, err, core.KindNetwork)
}

func TestRunPanicBecomesParseFailure(t *testing.T) {
	f := &fakeFetcher{panic: true}
	obs := &recordingObserver{}

	_, err := New(f, WithObserver(obs)).Run(context.Background(), "https://example.com/r")
	cerr := requireKind(t, err, core.KindParseFailure)
	assert.Equal(t, core.GenericParseMessage, cerr.Message)
	assert.Equal(t, []string{"PARSE_ERROR"}, obs.outcomes)
}

func TestRunUsesFinalURL(t *testing.T) {
	page := `<html><body><h1>Toast</h1><ul class="ingredients"><li>1 slice bread</li></ul>
<img src="toast.jpg"></body></html>`
	f := &fakeFetcher{res: &core.FetchResult{URL: "https://food.test/recipes/toast", HTML: page}}

	r, err := New(f).Run(context.Background(), "https://short.test/t")
	require.NoError(t, err)
	assert.Equal(t, "https://food.test/recipes/toast.jpg", r.ImageURL)
}

func TestProcessMergePrecedence(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{"@type":"Recipe","name":"Schema soup","recipeIngredient":["1 l water"]}</script>
</head><body>
<h1>Html soup</h1>
<ol class="instructions"><li>Boil.</li><li>Season.</li><li>Serve.</li></ol>
</body></html>`

	r, err := New(nil).Process(context.Background(), "https://example.com/soup", page)
	require.NoError(t, err)
	assert.Equal(t, "Schema soup", r.Title)
	assert.Equal(t, []string{"Boil.", "Season.", "Serve."}, r.Instructions)
	assert.Equal(t, 1, r.Servings)
}

func TestProcessFormWrappedPage(t *testing.T) {
	page := `<html><body><form id="aspnetForm" method="post">
<h1>Lentil soup</h1>
<ul class="ingredients"><li>1 cup lentils</li><li>2 carrots</li></ul>
<ol class="instructions"><li>Rinse the lentils.</li><li>Simmer with the carrots.</li></ol>
</form></body></html>`

	r, err := New(nil).Process(context.Background(), "https://soup.test/recipe.aspx", page)
	require.NoError(t, err)
	assert.Equal(t, "Lentil soup", r.Title)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "lentils", r.Ingredients[0].Name)
	assert.Equal(t, "cup", r.Ingredients[0].Unit)
	assert.Equal(t, []string{"Rinse the lentils.", "Simmer with the carrots."}, r.Instructions)
}

func TestProcessSelectsRichestCandidate(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">[
 {"@type":"Recipe","name":"Teaser"},
 {"@type":"Recipe","name":"Full","recipeIngredient":["2 eggs"],"recipeInstructions":"Whisk."}
]</script></head><body></body></html>`

	r, err := New(nil).Process(context.Background(), "https://example.com/", page)
	require.NoError(t, err)
	assert.Equal(t, "Full", r.Title)
}

func TestProcessAdapterCandidate(t *testing.T) {
	scraper := adapter.ScrapeFunc(func(_ context.Context, p adapter.Page) (*core.RecipeCandidate, error) {
		return &core.RecipeCandidate{
			Title:       "مقلوبة",
			Ingredients: []core.RawIngredient{{Text: "٢ كوب أرز"}},
		}, nil
	})

	r, err := New(nil, WithAdapter(scraper)).Process(context.Background(), "https://example.com/", emptyPage)
	require.NoError(t, err)
	assert.Equal(t, "مقلوبة", r.Title)
	assert.Equal(t, core.LanguageArabic, r.Language)
	assert.Equal(t, "مقلوبة", r.TitleAr)

	// Without the adapter the same page has no recipe.
	_, err = New(nil).Process(context.Background(), "https://example.com/", emptyPage)
	requireKind(t, err, core.KindNoRecipe)
}

type panickingFallback struct{}

func (panickingFallback) Extract(*goquery.Document, string) core.RecipeCandidate {
	panic("selector bug")
}

func TestProcessSurvivesExtractorPanic(t *testing.T) {
	r, err := New(nil, WithExtractors(nil, panickingFallback{})).
		Process(context.Background(), "https://example.com/pasta", pastaPage)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", r.Title)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "normalizing", StateNormalizing.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "state(42)", State(42).String())
}
