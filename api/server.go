package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"seekr/agent"
	"seekr/search"
)

// Searcher is the slice of the aggregator the API needs.
type Searcher interface {
	Text(ctx context.Context, q search.Query) ([]search.Result, error)
	TextWith(ctx context.Context, engine string, q search.Query) ([]search.Result, error)
	MergeText(ctx context.Context, q search.Query) ([]search.Result, error)
	News(ctx context.Context, q search.Query) ([]search.NewsResult, error)
	Books(ctx context.Context, q search.Query) ([]search.BookResult, error)
}

// Runner executes one orchestrator run, emitting events until the
// channel closes.
type Runner interface {
	Run(ctx context.Context, message string, events chan<- agent.Event) error
}

// Server exposes the aggregator and the orchestrator over HTTP.
type Server struct {
	searcher Searcher
	runner   Runner
	logger   *zap.Logger
	port     int
}

func NewServer(searcher Searcher, runner Runner, logger *zap.Logger, port int) *Server {
	return &Server{
		searcher: searcher,
		runner:   runner,
		logger:   logger,
		port:     port,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/orchestrate", s.handleOrchestrate)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// Start blocks serving HTTP until the listener fails.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("server_listening", zap.Int("port", s.port))
	return srv.ListenAndServe()
}
