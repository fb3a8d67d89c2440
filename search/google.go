package search

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const googleEndpoint = "https://www.google.com/search"

// googleText scrapes the classic results page. A consent cookie is
// pinned up front so the EU consent interstitial does not swallow the
// results; the adapter falls back to the headless browser when the
// static page comes back empty.
func googleText() *EngineSpec {
	return &EngineSpec{
		Name:     "google",
		Category: CategoryText,
		RenderJS: true,
		Prepare: func(_ context.Context, c *Client, q Query) (Query, error) {
			c.SetCookie("www.google.com", "CONSENT=PENDING+987; SOCS=CAESHAgBEhIaAB")
			return q, nil
		},
		Build: func(q Query) (*Request, error) {
			params := url.Values{
				"q":   {q.Text},
				"num": {strconv.Itoa(defaultInt(q.MaxResults, 10))},
			}
			if q.Region != "" {
				params.Set("hl", regionLanguage(q.Region))
			}
			if q.Page > 1 {
				params.Set("start", strconv.Itoa((q.Page-1)*10))
			}
			switch q.SafeSearch {
			case "on":
				params.Set("safe", "active")
			case "off":
				params.Set("safe", "off")
			}
			if q.TimeLimit != "" {
				params.Set("tbs", "qdr:"+q.TimeLimit)
			}
			return &Request{Method: http.MethodGet, URL: googleEndpoint + "?" + params.Encode()}, nil
		},
		ItemsXPath: `//div[@class="g"] | //div[contains(@class,"tF2Cxc")]`,
		Fields: map[string]Field{
			"title": {XPath: `.//h3`},
			"url":   {XPath: `.//a[h3 or @jsname]`, Attr: "href"},
			"body":  {XPath: `.//div[contains(@class,"VwiC3b")]`},
		},
		Post: func(rec Record) (Record, bool) {
			out := rec.clone()
			out["url"] = unwrapGoogleRedirect(out["url"])
			return out, out["url"] != "" && out["title"] != ""
		},
	}
}

// unwrapGoogleRedirect strips /url?q= indirection from result links.
func unwrapGoogleRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.Path == "/url" {
		if target := u.Query().Get("q"); target != "" {
			return target
		}
	}
	return absoluteURL(googleEndpoint, href)
}

// regionLanguage maps an aggregator region like "us-en" to a language
// hint.
func regionLanguage(region string) string {
	if len(region) >= 5 {
		return region[3:]
	}
	return "en"
}

func defaultInt(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
