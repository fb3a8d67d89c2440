package search

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var tagRe = regexp.MustCompile(`<[^>]+>`)

// wikipediaText queries the REST search endpoint; plain JSON, no
// scraping involved.
func wikipediaText() *EngineSpec {
	return &EngineSpec{
		Name:     "wikipedia",
		Category: CategoryText,
		Build: func(q Query) (*Request, error) {
			lang := regionLanguage(defaultString(q.Region, "us-en"))
			params := url.Values{
				"q":     {q.Text},
				"limit": {strconv.Itoa(defaultInt(q.MaxResults, 10))},
			}
			endpoint := fmt.Sprintf("https://%s.wikipedia.org/w/rest.php/v1/search/page", lang)
			return &Request{Method: http.MethodGet, URL: endpoint + "?" + params.Encode()}, nil
		},
		Decode: func(body []byte, q Query) ([]Record, error) {
			var payload struct {
				Pages []struct {
					Key         string `json:"key"`
					Title       string `json:"title"`
					Excerpt     string `json:"excerpt"`
					Description string `json:"description"`
				} `json:"pages"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, fmt.Errorf("failed to decode search response: %w", err)
			}
			lang := regionLanguage(defaultString(q.Region, "us-en"))
			records := make([]Record, 0, len(payload.Pages))
			for _, p := range payload.Pages {
				body := tagRe.ReplaceAllString(p.Excerpt, "")
				if body == "" {
					body = p.Description
				}
				records = append(records, Record{
					"title": p.Title,
					"url":   fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", lang, p.Key),
					"body":  strings.TrimSpace(body),
				})
			}
			return records, nil
		},
	}
}
