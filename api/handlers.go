package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"seekr/agent"
	"seekr/search"
)

// OrchestrateRequest is the /orchestrate body.
type OrchestrateRequest struct {
	Message string `json:"message"`
}

// handleOrchestrate streams a run as plain text: model output as it
// arrives, tool observations prefixed on their own lines.
func (s *Server) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req OrchestrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "missing message", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	events := make(chan agent.Event)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.runner.Run(r.Context(), req.Message, events)
	}()

	for ev := range events {
		switch ev.Kind {
		case agent.EventChunk:
			fmt.Fprint(w, ev.Text)
		case agent.EventTool:
			fmt.Fprintf(w, "\nTool output: %s\n", ev.Text)
		}
		flusher.Flush()
	}

	if err := <-errCh; err != nil {
		s.logger.Error("orchestrate_failed", zap.Error(err))
		fmt.Fprintf(w, "\nError: %s\n", err)
		flusher.Flush()
	}
}

// SearchResponse is the /search reply.
type SearchResponse struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	Engine   string `json:"engine,omitempty"`
	Results  any    `json:"results"`
}

// handleSearch runs the aggregator directly:
// /search?query=...&category=text&engine=bing&max=10&merge=1
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "missing query parameter", http.StatusBadRequest)
		return
	}

	q := search.Query{
		Text:       query,
		Region:     r.URL.Query().Get("region"),
		SafeSearch: r.URL.Query().Get("safesearch"),
		TimeLimit:  r.URL.Query().Get("time_limit"),
	}
	if raw := r.URL.Query().Get("max"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			q.MaxResults = n
		}
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		category = string(search.CategoryText)
	}
	engine := r.URL.Query().Get("engine")

	var results any
	var err error
	switch search.Category(category) {
	case search.CategoryText:
		switch {
		case engine != "":
			results, err = s.searcher.TextWith(r.Context(), engine, q)
		case r.URL.Query().Get("merge") != "":
			results, err = s.searcher.MergeText(r.Context(), q)
		default:
			results, err = s.searcher.Text(r.Context(), q)
		}
	case search.CategoryNews:
		results, err = s.searcher.News(r.Context(), q)
	case search.CategoryBooks:
		results, err = s.searcher.Books(r.Context(), q)
	default:
		http.Error(w, "unknown category: "+category, http.StatusBadRequest)
		return
	}

	if err != nil {
		s.logger.Warn("search_failed", zap.String("query", query), zap.Error(err))
		status := http.StatusBadGateway
		if errors.Is(err, search.ErrTimeout) {
			status = http.StatusGatewayTimeout
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SearchResponse{
		Query:    query,
		Category: category,
		Engine:   engine,
		Results:  results,
	})
}
