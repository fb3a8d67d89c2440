package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnasBooksFixtureExtraction(t *testing.T) {
	spec := annasBooks()
	records, err := extractRecords(fixture(t, "annas_books.html"), spec)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "The Genius of Birds", first["title"])
	assert.Equal(t, "Jennifer Ackerman", first["author"])
	assert.Equal(t, "Penguin Press", first["publisher"])
	assert.Equal(t, "epub", first["format"])
	assert.Equal(t, "1.8MB", first["size"])
	assert.Equal(t, "2016", first["year"])
	assert.Equal(t, "https://annas-archive.org/md5/0a1b2c3d4e5f", first["url"])
}

func TestSplitBookInfo(t *testing.T) {
	format, size, year := splitBookInfo("English [en], pdf, 12.4MB, 2001")
	assert.Equal(t, "pdf", format)
	assert.Equal(t, "12.4MB", size)
	assert.Equal(t, "2001", year)

	format, size, year = splitBookInfo("")
	assert.Empty(t, format)
	assert.Empty(t, size)
	assert.Empty(t, year)
}
