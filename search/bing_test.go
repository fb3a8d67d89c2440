package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapBingRedirect(t *testing.T) {
	// u=a1 + base64url("https://en.wikipedia.org/wiki/Cassowary")
	wrapped := "https://www.bing.com/ck/a?!&&p=deadbeef&u=a1aHR0cHM6Ly9lbi53aWtpcGVkaWEub3JnL3dpa2kvQ2Fzc293YXJ5&ntb=1"
	assert.Equal(t, "https://en.wikipedia.org/wiki/Cassowary", unwrapBingRedirect(wrapped))

	// non-tracking links pass through
	direct := "https://www.britannica.com/animal/cassowary"
	assert.Equal(t, direct, unwrapBingRedirect(direct))

	// malformed payloads pass through rather than dropping the record
	broken := "https://www.bing.com/ck/a?u=a1%%%"
	assert.Equal(t, broken, unwrapBingRedirect(broken))
}

func TestBingFixtureExtraction(t *testing.T) {
	spec := bingText()
	body := fixture(t, "bing_text.html")

	records, err := extractRecords(body, spec)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Cassowary - Wikipedia", records[0]["title"])
	assert.Equal(t, "https://en.wikipedia.org/wiki/Cassowary", records[0]["url"])
	assert.Equal(t, "Cassowaries are flightless birds native to the tropical forests of New Guinea.", records[0]["body"])
	assert.Equal(t, "https://www.britannica.com/animal/cassowary", records[1]["url"])
}

func TestBingBuild(t *testing.T) {
	spec := bingText()
	req, err := spec.Build(Query{Text: "cassowary", Page: 2, Region: "us-en", TimeLimit: "d"})
	require.NoError(t, err)
	assert.Contains(t, req.URL, "first=11")
	assert.Contains(t, req.URL, "cc=us")
	assert.Contains(t, req.URL, "q=cassowary")
}
