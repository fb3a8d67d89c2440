package search

import (
	"net/http"
	"net/url"
	"strconv"
)

const mojeekEndpoint = "https://www.mojeek.com/search"

func mojeekText() *EngineSpec {
	return &EngineSpec{
		Name:     "mojeek",
		Category: CategoryText,
		Build: func(q Query) (*Request, error) {
			params := url.Values{"q": {q.Text}}
			if q.Page > 1 {
				params.Set("s", strconv.Itoa((q.Page-1)*10+1))
			}
			if q.SafeSearch == "on" {
				params.Set("safe", "1")
			}
			return &Request{Method: http.MethodGet, URL: mojeekEndpoint + "?" + params.Encode()}, nil
		},
		ItemsXPath: `//ul[contains(@class,"results-standard")]/li`,
		Fields: map[string]Field{
			"title": {XPath: `.//h2/a`},
			"url":   {XPath: `.//h2/a`, Attr: "href"},
			"body":  {XPath: `.//p[contains(@class,"s")]`},
		},
		Post: func(rec Record) (Record, bool) {
			out := rec.clone()
			out["url"] = absoluteURL(mojeekEndpoint, out["url"])
			return out, out["url"] != "" && out["title"] != ""
		},
	}
}
