package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDateRelative(t *testing.T) {
	now := time.Date(2024, 8, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-08-30T09:00:00Z", normalizeDate("3 hours ago", now))
	assert.Equal(t, "2024-08-28T12:00:00Z", normalizeDate("2 days ago", now))
	assert.Equal(t, "2024-08-23T12:00:00Z", normalizeDate("1 week ago", now))
	assert.Equal(t, "2024-08-30T11:15:00Z", normalizeDate("45 minutes ago", now))
}

func TestNormalizeDateEpochAndAbsolute(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "2024-08-29T00:00:00Z", normalizeDate("1724889600", now))
	assert.Equal(t, "2019-07-01T00:00:00Z", normalizeDate("2019-07-01", now))
	assert.Equal(t, "", normalizeDate("  ", now))
	// unparseable input passes through untouched
	assert.Equal(t, "sometime soon", normalizeDate("sometime soon", now))
}

func TestAbsoluteURL(t *testing.T) {
	base := "https://search.example.com/search"
	assert.Equal(t, "https://search.example.com/page", absoluteURL(base, "/page"))
	assert.Equal(t, "https://other.com/x", absoluteURL(base, "https://other.com/x"))
	assert.Equal(t, "https://cdn.example.com/i.png", absoluteURL(base, "//cdn.example.com/i.png"))
	assert.Equal(t, "", absoluteURL(base, ""))
}

func TestCanonicalURL(t *testing.T) {
	a := canonicalURL("https://www.Example.com/Path/")
	b := canonicalURL("http://example.com/Path")
	assert.Equal(t, a, b)

	assert.NotEqual(t,
		canonicalURL("https://example.com/a?q=1"),
		canonicalURL("https://example.com/a?q=2"))
}
