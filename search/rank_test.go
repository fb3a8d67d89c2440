package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStemSetDropsNoiseAndStems(t *testing.T) {
	set := stemSet("What is the running speed of cassowaries?")
	assert.True(t, set["run"])
	assert.True(t, set["speed"])
	assert.True(t, set["cassowari"])
	assert.False(t, set["the"])
	assert.False(t, set["what"])
}

func TestMergeResultsDedupesAndRanks(t *testing.T) {
	batches := [][]Result{
		{
			{Title: "Unrelated knitting patterns", URL: "https://example.com/knitting", Body: "yarn and needles", Engine: "a"},
			{Title: "Cassowary speed explained", URL: "https://birds.example.com/speed", Body: "how fast cassowaries run", Engine: "a"},
		},
		{
			// duplicate of the second result, different scheme and www
			{Title: "Cassowary speed explained", URL: "http://www.birds.example.com/speed", Body: "how fast cassowaries run", Engine: "b"},
			{Title: "Cassowary running speed", URL: "https://zoo.example.com/cassowary", Body: "top running speed of the cassowary", Engine: "b"},
		},
	}

	merged := mergeResults("cassowary running speed", batches)
	require.Len(t, merged, 3)

	// both fully-matching results outrank the knitting page
	assert.Equal(t, "https://birds.example.com/speed", merged[0].URL)
	assert.Equal(t, "https://zoo.example.com/cassowary", merged[1].URL)
	assert.Equal(t, "https://example.com/knitting", merged[2].URL)

	// the duplicate kept the first engine's copy
	assert.Equal(t, "a", merged[0].Engine)
}

func TestMergeResultsStableForFixedInput(t *testing.T) {
	batches := [][]Result{{
		{Title: "A", URL: "https://a.example.com", Body: "cassowary"},
		{Title: "B", URL: "https://b.example.com", Body: "cassowary"},
	}}
	first := mergeResults("cassowary", batches)
	for range 3 {
		assert.Equal(t, first, mergeResults("cassowary", batches))
	}
}
