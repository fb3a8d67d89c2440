package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSpec(name, endpoint string) *EngineSpec {
	return &EngineSpec{
		Name:     name,
		Category: CategoryText,
		Build: func(q Query) (*Request, error) {
			return &Request{Method: http.MethodGet, URL: endpoint + "?q=" + url.QueryEscape(q.Text)}, nil
		},
		ItemsXPath: `//li[@class="hit"]`,
		Fields: map[string]Field{
			"title": {XPath: `./a`},
			"url":   {XPath: `./a`, Attr: "href"},
			"body":  {XPath: `./p`},
		},
	}
}

func testAggregator(t *testing.T, specs ...*EngineSpec) *Aggregator {
	t.Helper()
	client := NewClient(zap.NewNop(), WithRateLimit(100000), WithTimeout(5*time.Second))
	reg := &Registry{chains: map[Category][]*EngineSpec{CategoryText: specs}}
	return NewAggregator(client, reg, nil, zap.NewNop())
}

const hitsPage = `<html><body><ul>
<li class="hit"><a href="https://a.example.com">Alpha</a><p>first</p></li>
<li class="hit"><a href="https://b.example.com">Beta</a><p>second</p></li>
</ul></body></html>`

func TestAggregatorTextFirstEngineWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(hitsPage))
	}))
	defer srv.Close()

	agg := testAggregator(t, testSpec("primary", srv.URL))
	results, err := agg.Text(context.Background(), Query{Text: "anything"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Alpha", results[0].Title)
	assert.Equal(t, "primary", results[0].Engine)
}

func TestAggregatorFallbackOrder(t *testing.T) {
	var calls []string
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "broken")
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer broken.Close()
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "working")
		w.Write([]byte(hitsPage))
	}))
	defer working.Close()

	agg := testAggregator(t, testSpec("broken", broken.URL), testSpec("working", working.URL))
	results, err := agg.Text(context.Background(), Query{Text: "q"})
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "working"}, calls)
	assert.Equal(t, "working", results[0].Engine)
}

func TestAggregatorAllEnginesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer srv.Close()

	agg := testAggregator(t, testSpec("one", srv.URL), testSpec("two", srv.URL))
	_, err := agg.Text(context.Background(), Query{Text: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoResults)

	var engErr *EngineError
	assert.ErrorAs(t, err, &engErr)
}

func TestAggregatorAllEnginesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><ul></ul></body></html>`))
	}))
	defer srv.Close()

	agg := testAggregator(t, testSpec("one", srv.URL), testSpec("two", srv.URL))
	_, err := agg.Text(context.Background(), Query{Text: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoResults)
	assert.Equal(t, ErrNoResults.Error(), err.Error())
}

func TestAggregatorTimeoutClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	client := NewClient(zap.NewNop(), WithRateLimit(100000), WithTimeout(5*time.Second))
	reg := &Registry{chains: map[Category][]*EngineSpec{CategoryText: {testSpec("slow", srv.URL)}}}
	agg := NewAggregator(client, reg, nil, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := agg.TextWith(ctx, "slow", Query{Text: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)

	var engErr *EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, "slow", engErr.Engine)
}

func TestAggregatorMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(hitsPage))
	}))
	defer srv.Close()

	agg := testAggregator(t, testSpec("primary", srv.URL))
	results, err := agg.Text(context.Background(), Query{Text: "q", MaxResults: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestAggregatorTextWithUnknownEngine(t *testing.T) {
	agg := testAggregator(t, testSpec("primary", "http://unused"))
	_, err := agg.TextWith(context.Background(), "nope", Query{Text: "q"})
	assert.Error(t, err)
}

func TestAggregatorMergeText(t *testing.T) {
	one := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><ul><li class="hit"><a href="https://a.example.com">Shared</a><p>cassowary speed</p></li></ul></body></html>`))
	}))
	defer one.Close()
	two := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><ul>
<li class="hit"><a href="https://a.example.com/">Shared</a><p>cassowary speed</p></li>
<li class="hit"><a href="https://c.example.com">Extra</a><p>cassowary speed facts</p></li>
</ul></body></html>`))
	}))
	defer two.Close()

	agg := testAggregator(t, testSpec("one", one.URL), testSpec("two", two.URL))
	results, err := agg.MergeText(context.Background(), Query{Text: "cassowary speed"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	urls := []string{results[0].URL, results[1].URL}
	assert.Contains(t, urls, "https://a.example.com")
	assert.Contains(t, urls, "https://c.example.com")
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(context.DeadlineExceeded), ErrTimeout)

	generic := errors.New("boom")
	assert.NotErrorIs(t, classify(generic), ErrTimeout)
}
