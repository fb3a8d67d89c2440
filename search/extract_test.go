package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return body
}

func TestExtractRecordsOrderedAndIdempotent(t *testing.T) {
	spec := duckduckgoText()
	body := fixture(t, "duckduckgo_text.html")

	first, err := extractRecords(body, spec)
	require.NoError(t, err)
	require.Len(t, first, 3)

	// ad slot dropped, organic order preserved
	assert.Equal(t, "Cassowary - Wikipedia", first[0]["title"])
	assert.Equal(t, "https://en.wikipedia.org/wiki/Cassowary", first[0]["url"])
	assert.Equal(t, "https://www.britannica.com/animal/cassowary", first[1]["url"])
	assert.Equal(t, "https://www.australiazoo.com.au/cassowary/", first[2]["url"])

	// multi-line snippet collapses to single-spaced text
	assert.Equal(t,
		"Cassowaries are flightless birds native to the tropical forests of New Guinea and northern Australia.",
		first[0]["body"])

	// same fixture, same ordered records, every time
	for range 3 {
		again, err := extractRecords(body, spec)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExtractRecordsMissingFieldSkipsKey(t *testing.T) {
	spec := &EngineSpec{
		Name:       "stub",
		Category:   CategoryText,
		Build:      func(Query) (*Request, error) { return &Request{Method: "GET", URL: "http://x"}, nil },
		ItemsXPath: `//li`,
		Fields: map[string]Field{
			"title": {XPath: `./a`},
			"url":   {XPath: `./a`, Attr: "href"},
			"body":  {XPath: `./p`},
		},
	}
	body := []byte(`<html><body><ul><li><a href="http://a">A</a></li></ul></body></html>`)

	records, err := extractRecords(body, spec)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0]["title"])
	assert.Equal(t, "http://a", records[0]["url"])
	_, hasBody := records[0]["body"]
	assert.False(t, hasBody)
}

func TestExtractRecordsNoMatches(t *testing.T) {
	spec := duckduckgoText()
	records, err := extractRecords([]byte("<html><body><p>nothing here</p></body></html>"), spec)
	require.NoError(t, err)
	assert.Empty(t, records)
}
