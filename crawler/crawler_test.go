package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCrawlSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Home</title></head><body>
<article><p>Cassowaries are large flightless birds native to the tropical forests of New Guinea.</p></article>
<a href="/habitat">Habitat</a></body></html>`))
	})
	mux.HandleFunc("/habitat", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Habitat</title></head><body>
<article><p>They inhabit dense rainforest and feed mainly on fallen fruit from the forest floor.</p></article>
</body></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(storagePath string) Config {
	return Config{
		MaxDepth:    2,
		MaxPages:    5,
		Parallelism: 1,
		Delay:       time.Millisecond,
		StoragePath: storagePath,
	}
}

func TestCrawlFollowsSameHostLinks(t *testing.T) {
	srv := newCrawlSite(t)
	c := New(testConfig(""), nil, zap.NewNop())

	pages, err := c.Crawl(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	titles := []string{pages[0].Title, pages[1].Title}
	assert.Contains(t, titles, "Home")
	assert.Contains(t, titles, "Habitat")
}

func TestCrawlWithVisitStorage(t *testing.T) {
	srv := newCrawlSite(t)
	path := filepath.Join(t.TempDir(), "visits.db")
	c := New(testConfig(path), nil, zap.NewNop())

	pages, err := c.Crawl(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.NotEmpty(t, pages)
}

func TestCrawlRepeatedStartURLIsNotAnError(t *testing.T) {
	srv := newCrawlSite(t)
	path := filepath.Join(t.TempDir(), "visits.db")
	c := New(testConfig(path), nil, zap.NewNop())

	first, err := c.Crawl(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Everything is already in the visit storage; the crawl finds
	// nothing new but must not fail.
	second, err := c.Crawl(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, second)
}
