package tavily

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SearchRequest mirrors the /search payload.
type SearchRequest struct {
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth,omitempty"` // basic, advanced
	Topic             string   `json:"topic,omitempty"`        // general, news
	Days              int      `json:"days,omitempty"`
	MaxResults        int      `json:"max_results,omitempty"`
	IncludeAnswer     bool     `json:"include_answer,omitempty"`
	IncludeRawContent bool     `json:"include_raw_content,omitempty"`
	IncludeImages     bool     `json:"include_images,omitempty"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
	ExcludeDomains    []string `json:"exclude_domains,omitempty"`
}

// SearchResult is one hit from /search.
type SearchResult struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	RawContent string  `json:"raw_content,omitempty"`
	Score      float64 `json:"score"`
	Published  string  `json:"published_date,omitempty"`
}

// SearchResponse is the /search reply.
type SearchResponse struct {
	Query        string         `json:"query"`
	Answer       string         `json:"answer,omitempty"`
	Images       []string       `json:"images,omitempty"`
	Results      []SearchResult `json:"results"`
	ResponseTime float64        `json:"response_time"`
}

// ExtractRequest mirrors the /extract payload.
type ExtractRequest struct {
	URLs          []string `json:"urls"`
	ExtractDepth  string   `json:"extract_depth,omitempty"` // basic, advanced
	IncludeImages bool     `json:"include_images,omitempty"`
}

// ExtractResult is one successfully extracted page.
type ExtractResult struct {
	URL        string   `json:"url"`
	RawContent string   `json:"raw_content"`
	Images     []string `json:"images,omitempty"`
}

// FailedExtract reports one URL the service could not process.
type FailedExtract struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// ExtractResponse is the /extract reply.
type ExtractResponse struct {
	Results      []ExtractResult `json:"results"`
	Failed       []FailedExtract `json:"failed_results,omitempty"`
	ResponseTime float64         `json:"response_time"`
}

// CrawlRequest mirrors the /crawl payload.
type CrawlRequest struct {
	URL           string   `json:"url"`
	MaxDepth      int      `json:"max_depth,omitempty"`
	MaxBreadth    int      `json:"max_breadth,omitempty"`
	Limit         int      `json:"limit,omitempty"`
	Instructions  string   `json:"instructions,omitempty"`
	SelectPaths   []string `json:"select_paths,omitempty"`
	ExcludePaths  []string `json:"exclude_paths,omitempty"`
	AllowExternal bool     `json:"allow_external,omitempty"`
}

// CrawlResponse is the /crawl reply.
type CrawlResponse struct {
	BaseURL      string          `json:"base_url"`
	Results      []ExtractResult `json:"results"`
	ResponseTime float64         `json:"response_time"`
}

// MapRequest mirrors the /map payload.
type MapRequest struct {
	URL        string `json:"url"`
	MaxDepth   int    `json:"max_depth,omitempty"`
	MaxBreadth int    `json:"max_breadth,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// MapResponse is the /map reply.
type MapResponse struct {
	BaseURL      string   `json:"base_url"`
	Results      []string `json:"results"`
	ResponseTime float64  `json:"response_time"`
}

// ErrorKind buckets API failures.
type ErrorKind string

const (
	ErrorKindAuth    ErrorKind = "auth"
	ErrorKindUsage   ErrorKind = "usage"
	ErrorKindGeneric ErrorKind = "generic"
)

// APIError is a non-2xx reply from the service.
type APIError struct {
	Status  int
	Kind    ErrorKind
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tavily api error (%s, status %d): %s", e.Kind, e.Status, e.Message)
}

func apiError(status int, body []byte) *APIError {
	var payload struct {
		Detail struct {
			Error string `json:"error"`
		} `json:"detail"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Detail.Error
		if msg == "" {
			msg = payload.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	kind := ErrorKindGeneric
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrorKindAuth
	case http.StatusTooManyRequests, 432, 433:
		kind = ErrorKindUsage
	}
	return &APIError{Status: status, Kind: kind, Message: msg}
}
