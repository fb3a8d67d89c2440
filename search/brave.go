package search

import (
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const braveEndpoint = "https://search.brave.com/search"

func braveText() *EngineSpec {
	return &EngineSpec{
		Name:     "brave",
		Category: CategoryText,
		Build: func(q Query) (*Request, error) {
			params := url.Values{"q": {q.Text}, "source": {"web"}}
			if q.Page > 1 {
				params.Set("offset", strconv.Itoa(q.Page-1))
			}
			return &Request{Method: http.MethodGet, URL: braveEndpoint + "?" + params.Encode()}, nil
		},
		ItemsXPath: `//div[contains(@class,"snippet") and @data-type="web"]`,
		Fields: map[string]Field{
			"title": {XPath: `.//div[contains(@class,"title")]`},
			"url":   {XPath: `.//a[contains(@class,"heading-serpresult") or contains(@class,"result-header")]`, Attr: "href"},
			"body":  {XPath: `.//div[contains(@class,"snippet-description")]`},
		},
		Post: func(rec Record) (Record, bool) {
			out := rec.clone()
			out["url"] = absoluteURL(braveEndpoint, out["url"])
			return out, out["url"] != "" && out["title"] != ""
		},
	}
}

func braveNews() *EngineSpec {
	return &EngineSpec{
		Name:     "brave",
		Category: CategoryNews,
		Build: func(q Query) (*Request, error) {
			params := url.Values{"q": {q.Text}}
			return &Request{Method: http.MethodGet, URL: "https://search.brave.com/news?" + params.Encode()}, nil
		},
		ItemsXPath: `//div[contains(@class,"snippet") and @data-type="news"]`,
		Fields: map[string]Field{
			"title":  {XPath: `.//div[contains(@class,"title")]`},
			"url":    {XPath: `./a`, Attr: "href"},
			"body":   {XPath: `.//div[contains(@class,"snippet-description")]`},
			"date":   {XPath: `.//span[contains(@class,"text-gray")]`},
			"image":  {XPath: `.//img`, Attr: "src"},
			"source": {XPath: `.//cite`},
		},
		Post: func(rec Record) (Record, bool) {
			out := rec.clone()
			out["url"] = absoluteURL(braveEndpoint, out["url"])
			out["date"] = normalizeDate(out["date"], time.Now())
			return out, out["url"] != "" && out["title"] != ""
		},
	}
}
