package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapDDGRedirect(t *testing.T) {
	cases := map[string]string{
		"//duckduckgo.com/l/?uddg=https%3A%2F%2Fen.wikipedia.org%2Fwiki%2FCassowary&rut=abc": "https://en.wikipedia.org/wiki/Cassowary",
		"https://duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fa%3Fb%3Dc":               "https://example.com/a?b=c",
		"https://example.com/direct":                                                         "https://example.com/direct",
		"": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, unwrapDDGRedirect(in), "input %q", in)
	}
}

func TestVQDPattern(t *testing.T) {
	cases := map[string]string{
		`...vqd="4-128129012377526959060072983349610281244"&...`: "4-128129012377526959060072983349610281244",
		`vqd=4-98765432101`:    "4-98765432101",
		`{"vqd":'4-11111111'}`: "4-11111111",
	}
	for in, want := range cases {
		m := vqdRe.FindStringSubmatch(in)
		require.NotNil(t, m, "input %q", in)
		assert.Equal(t, want, m[1])
	}
	assert.Nil(t, vqdRe.FindStringSubmatch("no token here"))
}

func TestDuckDuckGoBuildFirstPage(t *testing.T) {
	spec := duckduckgoText()
	req, err := spec.Build(Query{Text: "cassowary", Region: "us-en", SafeSearch: "moderate"})
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, ddgHTMLEndpoint, req.URL)
	assert.Equal(t, "cassowary", req.Form["q"])
	assert.Equal(t, "us-en", req.Form["kl"])
	assert.Equal(t, "-1", req.Form["kp"])
	_, paged := req.Form["s"]
	assert.False(t, paged)
}

func TestDuckDuckGoBuildPagination(t *testing.T) {
	spec := duckduckgoText()
	req, err := spec.Build(Query{Text: "cassowary", Page: 3, TimeLimit: "w"})
	require.NoError(t, err)

	assert.Equal(t, "80", req.Form["s"])
	assert.Equal(t, "w", req.Form["df"])
}

func TestDuckDuckGoNewsDecode(t *testing.T) {
	spec := duckduckgoNews()
	body := []byte(`{"results":[
		{"date":1724968800,"title":"Bird News","excerpt":"Big bird spotted.","url":"https://news.example.com/bird","image":"https://img.example.com/b.jpg","source":"Example News"},
		{"date":1724882400,"title":"Older News","excerpt":"Yesterday.","url":"https://news.example.com/old","image":"","source":"Example News"}
	]}`)

	records, err := spec.Decode(body, Query{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	rec, keep := spec.Post(records[0])
	require.True(t, keep)
	assert.Equal(t, "2024-08-29T22:00:00Z", rec["date"])
	assert.Equal(t, "Bird News", rec["title"])
	assert.Equal(t, "Big bird spotted.", rec["body"])
	assert.Equal(t, "Example News", rec["source"])
}
