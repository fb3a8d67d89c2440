package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	ddgHTMLEndpoint = "https://html.duckduckgo.com/html/"
	ddgNewsEndpoint = "https://duckduckgo.com/news.js"
	ddgTokenPage    = "https://duckduckgo.com/"
)

var vqdRe = regexp.MustCompile(`vqd=['"]?([\d-]+)['"]?`)

// fetchVQD pulls the per-query session token DuckDuckGo requires on its
// JSON endpoints.
func fetchVQD(ctx context.Context, c *Client, query string) (string, error) {
	req := &Request{
		Method: http.MethodGet,
		URL:    ddgTokenPage + "?" + url.Values{"q": {query}}.Encode(),
	}
	body, err := c.Fetch(ctx, "duckduckgo", req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch vqd token: %w", err)
	}
	m := vqdRe.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("vqd token not found in response")
	}
	return string(m[1]), nil
}

func ddgSafeSearch(level string) string {
	switch level {
	case "on":
		return "1"
	case "off":
		return "-2"
	default:
		return "-1"
	}
}

// duckduckgoText scrapes the no-JS HTML endpoint.
func duckduckgoText() *EngineSpec {
	return &EngineSpec{
		Name:     "duckduckgo",
		Category: CategoryText,
		Build: func(q Query) (*Request, error) {
			form := map[string]string{
				"q":  q.Text,
				"b":  "",
				"kl": q.Region,
			}
			if q.TimeLimit != "" {
				form["df"] = q.TimeLimit
			}
			if q.Page > 1 {
				// first page has 30-ish organic hits, then 50 per page
				form["s"] = strconv.Itoa(30 + (q.Page-2)*50)
				form["v"] = "l"
				form["o"] = "json"
				form["api"] = "d"
			}
			if q.SafeSearch != "" {
				form["kp"] = ddgSafeSearch(q.SafeSearch)
			}
			return &Request{Method: http.MethodPost, URL: ddgHTMLEndpoint, Form: form}, nil
		},
		ItemsXPath: `//div[contains(@class,"result__body")]`,
		Fields: map[string]Field{
			"title": {XPath: `.//h2[contains(@class,"result__title")]/a`},
			"url":   {XPath: `.//h2[contains(@class,"result__title")]/a`, Attr: "href"},
			"body":  {XPath: `.//a[contains(@class,"result__snippet")]`},
		},
		Post: func(rec Record) (Record, bool) {
			href := unwrapDDGRedirect(rec["url"])
			if href == "" || strings.Contains(href, "duckduckgo.com/y.js") {
				return nil, false // ad slot
			}
			out := rec.clone()
			out["url"] = href
			return out, out["title"] != ""
		},
	}
}

// duckduckgoNews hits the JSON news endpoint; it needs a vqd token.
func duckduckgoNews() *EngineSpec {
	return &EngineSpec{
		Name:     "duckduckgo",
		Category: CategoryNews,
		Prepare: func(ctx context.Context, c *Client, q Query) (Query, error) {
			vqd, err := fetchVQD(ctx, c, q.Text)
			if err != nil {
				return q, err
			}
			return q.WithExtra("vqd", vqd), nil
		},
		Build: func(q Query) (*Request, error) {
			params := url.Values{
				"l":     {defaultString(q.Region, "wt-wt")},
				"o":     {"json"},
				"noamp": {"1"},
				"q":     {q.Text},
				"vqd":   {q.Extra["vqd"]},
				"p":     {ddgSafeSearch(q.SafeSearch)},
			}
			if q.TimeLimit != "" {
				params.Set("df", q.TimeLimit)
			}
			if q.Page > 1 {
				params.Set("s", strconv.Itoa((q.Page-1)*30))
			}
			return &Request{Method: http.MethodGet, URL: ddgNewsEndpoint + "?" + params.Encode()}, nil
		},
		Decode: func(body []byte, _ Query) ([]Record, error) {
			var payload struct {
				Results []struct {
					Date    int64  `json:"date"`
					Title   string `json:"title"`
					Excerpt string `json:"excerpt"`
					URL     string `json:"url"`
					Image   string `json:"image"`
					Source  string `json:"source"`
				} `json:"results"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, fmt.Errorf("failed to decode news response: %w", err)
			}
			records := make([]Record, 0, len(payload.Results))
			for _, r := range payload.Results {
				records = append(records, Record{
					"date":   strconv.FormatInt(r.Date, 10),
					"title":  r.Title,
					"body":   r.Excerpt,
					"url":    r.URL,
					"image":  r.Image,
					"source": r.Source,
				})
			}
			return records, nil
		},
		Post: func(rec Record) (Record, bool) {
			out := rec.clone()
			out["date"] = normalizeDate(out["date"], time.Now())
			return out, out["url"] != ""
		},
	}
}

// unwrapDDGRedirect decodes the uddg parameter out of DuckDuckGo's
// /l/?uddg= redirect links.
func unwrapDDGRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if !strings.HasSuffix(u.Host, "duckduckgo.com") || u.Path != "/l/" {
		return href
	}
	target := u.Query().Get("uddg")
	if target == "" {
		return href
	}
	return target
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
