package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Page is one crawled document after content extraction.
type Page struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Markdown  string    `json:"markdown,omitempty"`
	Status    int       `json:"status"`
	CrawledAt time.Time `json:"crawled_at"`
}

// Config bounds a crawl run.
type Config struct {
	MaxDepth    int
	MaxPages    int
	Parallelism int
	Delay       time.Duration
	UserAgent   string
	StoragePath string // bbolt visited-storage; empty keeps it in memory
}

func (c Config) withDefaults() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = 2
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 25
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 2
	}
	if c.Delay <= 0 {
		c.Delay = 500 * time.Millisecond
	}
	if c.UserAgent == "" {
		c.UserAgent = "seekr-crawler/1.0"
	}
	return c
}

// Crawler fetches pages with colly and runs them through the readable
// content extractor.
type Crawler struct {
	cfg       Config
	transport http.RoundTripper
	extractor *Extractor
	logger    *zap.Logger
}

func New(cfg Config, transport http.RoundTripper, logger *zap.Logger) *Crawler {
	return &Crawler{
		cfg:       cfg.withDefaults(),
		transport: transport,
		extractor: NewExtractor(logger),
		logger:    logger,
	}
}

// Fetch retrieves and extracts a single page. It is the backend of the
// page_extract tool.
func (c *Crawler) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	pages, err := c.run(ctx, pageURL, Config{MaxDepth: 1, MaxPages: 1, Parallelism: 1, Delay: time.Millisecond})
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no readable content at %s", pageURL)
	}
	return &pages[0], nil
}

// Crawl walks same-domain links from the start URL up to the configured
// depth and page budget. The call blocks until the crawl drains; colly
// runs its own bounded workers underneath.
func (c *Crawler) Crawl(ctx context.Context, startURL string) ([]Page, error) {
	return c.run(ctx, startURL, c.cfg)
}

func (c *Crawler) run(ctx context.Context, startURL string, cfg Config) ([]Page, error) {
	cfg = cfg.withDefaults()

	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.MaxDepth(cfg.MaxDepth),
		colly.Async(true),
	)
	if c.transport != nil {
		collector.WithTransport(c.transport)
	}
	collector.SetRequestTimeout(30 * time.Second)

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Parallelism,
		Delay:       cfg.Delay,
	}); err != nil {
		return nil, fmt.Errorf("failed to set limit rule: %w", err)
	}

	if cfg.StoragePath != "" {
		store := &BoltStorage{Path: cfg.StoragePath}
		// SetStorage runs Init, which opens the database.
		if err := collector.SetStorage(store); err != nil {
			return nil, fmt.Errorf("failed to set visit storage: %w", err)
		}
		defer store.Close()
	}

	var mu sync.Mutex
	var pages []Page

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		mu.Lock()
		budget := len(pages) < cfg.MaxPages
		mu.Unlock()
		if !budget || ctx.Err() != nil {
			return
		}
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" || e.Request.URL.Host != hostOf(link) {
			return
		}
		if err := e.Request.Visit(link); err != nil {
			c.logger.Debug("skip_link", zap.String("url", link), zap.Error(err))
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		mu.Lock()
		budget := len(pages) < cfg.MaxPages
		mu.Unlock()
		if !budget {
			return
		}

		pageURL := r.Request.URL.String()
		content, err := c.extractor.Extract(r.Body, pageURL)
		if err != nil {
			c.logger.Warn("extraction_failed", zap.String("url", pageURL), zap.Error(err))
			return
		}
		if content == nil {
			return
		}

		mu.Lock()
		pages = append(pages, Page{
			URL:       pageURL,
			Title:     content.Title,
			Text:      content.Text,
			Markdown:  content.Markdown,
			Status:    r.StatusCode,
			CrawledAt: time.Now(),
		})
		mu.Unlock()
	})

	collector.OnError(func(r *colly.Response, err error) {
		c.logger.Warn("fetch_failed",
			zap.String("url", r.Request.URL.String()),
			zap.Int("status", r.StatusCode),
			zap.Error(err))
	})

	// A start URL already in the visit storage is not an error: the
	// crawl simply has nothing new to fetch there.
	var alreadyVisited *colly.AlreadyVisitedError
	if err := collector.Visit(startURL); err != nil && !errors.As(err, &alreadyVisited) {
		return nil, fmt.Errorf("failed to visit %s: %w", startURL, err)
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return pages, err
	}
	return pages, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
