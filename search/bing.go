package search

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const bingEndpoint = "https://www.bing.com/search"

func bingText() *EngineSpec {
	return &EngineSpec{
		Name:     "bing",
		Category: CategoryText,
		Build: func(q Query) (*Request, error) {
			params := url.Values{"q": {q.Text}}
			if q.Page > 1 {
				params.Set("first", strconv.Itoa((q.Page-1)*10+1))
			}
			if q.Region != "" {
				params.Set("cc", regionCountry(q.Region))
			}
			if q.TimeLimit != "" {
				params.Set("filters", bingFreshness(q.TimeLimit))
			}
			return &Request{Method: http.MethodGet, URL: bingEndpoint + "?" + params.Encode()}, nil
		},
		ItemsXPath: `//li[contains(@class,"b_algo")]`,
		Fields: map[string]Field{
			"title": {XPath: `.//h2/a`},
			"url":   {XPath: `.//h2/a`, Attr: "href"},
			"body":  {XPath: `.//div[contains(@class,"b_caption")]/p`},
		},
		Post: func(rec Record) (Record, bool) {
			out := rec.clone()
			out["url"] = unwrapBingRedirect(out["url"])
			out["body"] = strings.TrimPrefix(out["body"], "WEB")
			return out, out["url"] != "" && out["title"] != ""
		},
	}
}

func bingFreshness(limit string) string {
	switch limit {
	case "d":
		return `ex1:"ez1"`
	case "w":
		return `ex1:"ez2"`
	case "m":
		return `ex1:"ez3"`
	default:
		return ""
	}
}

// unwrapBingRedirect decodes bing.com/ck/a click-tracking links. The
// target lives in the u parameter as "a1" + base64url.
func unwrapBingRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if !strings.HasSuffix(u.Host, "bing.com") || !strings.HasPrefix(u.Path, "/ck/") {
		return href
	}
	enc := strings.TrimPrefix(u.Query().Get("u"), "a1")
	if enc == "" {
		return href
	}
	decoded, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return href
	}
	return string(decoded)
}

func regionCountry(region string) string {
	if len(region) >= 2 {
		return region[:2]
	}
	return region
}
