package search

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const serpAPIEndpoint = "https://serpapi.com/search"

// serpapiText is the one hosted SERP backend in the chain; it only joins
// the registry when an API key is configured.
func serpapiText(apiKey string) *EngineSpec {
	return &EngineSpec{
		Name:     "serpapi",
		Category: CategoryText,
		Build: func(q Query) (*Request, error) {
			params := url.Values{
				"engine":  {"google"},
				"q":       {q.Text},
				"api_key": {apiKey},
				"num":     {strconv.Itoa(defaultInt(q.MaxResults, 10))},
			}
			if q.Page > 1 {
				params.Set("start", strconv.Itoa((q.Page-1)*10))
			}
			return &Request{Method: http.MethodGet, URL: serpAPIEndpoint + "?" + params.Encode()}, nil
		},
		Decode: func(body []byte, q Query) ([]Record, error) {
			var payload struct {
				OrganicResults []struct {
					Position int    `json:"position"`
					Title    string `json:"title"`
					Link     string `json:"link"`
					Snippet  string `json:"snippet"`
				} `json:"organic_results"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, fmt.Errorf("failed to decode response: %w", err)
			}
			records := make([]Record, 0, len(payload.OrganicResults))
			for _, item := range payload.OrganicResults {
				records = append(records, Record{
					"title":    item.Title,
					"url":      item.Link,
					"body":     item.Snippet,
					"position": strconv.Itoa(item.Position),
				})
			}
			return records, nil
		},
	}
}
