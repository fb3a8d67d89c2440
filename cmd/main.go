package main

import (
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"seekr/agent"
	"seekr/api"
	"seekr/config"
	"seekr/crawler"
	"seekr/search"
	"seekr/tavily"
)

func main() {
	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	engines, err := config.LoadEngines(cfg.EnginesPath, cfg.SerpAPIKey)
	if err != nil {
		log.Fatalf("Failed to load engines config: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// =========
	// Search engines
	// =========
	var clientOpts []search.ClientOption
	if cfg.ProxyURL != "" {
		clientOpts = append(clientOpts, search.WithProxy(cfg.ProxyURL))
	}
	httpClient := search.NewClient(logger, clientOpts...)

	registry, err := search.NewRegistry(engines)
	if err != nil {
		logger.Fatal("failed to build engine registry", zap.Error(err))
	}

	var browser *search.Browser
	if cfg.BrowserEnable {
		browser = search.NewBrowser(logger, cfg.ProxyURL)
		defer browser.Close()
	}

	aggregator := search.NewAggregator(httpClient, registry, browser, logger)

	// =========
	// Crawler
	// =========
	crawlTransport := newCrawlTransport(cfg.ProxyURL)
	crawl := crawler.New(crawler.Config{StoragePath: cfg.VisitDBPath}, crawlTransport, logger)

	// =========
	// Hosted search
	// =========
	var hosted *agent.HostedSearchTool
	if cfg.TavilyAPIKey != "" {
		tavilyClient, err := tavily.New(cfg.TavilyAPIKey, logger)
		if err != nil {
			logger.Fatal("failed to create tavily client", zap.Error(err))
		}
		hosted = &agent.HostedSearchTool{Client: tavilyClient}
	}

	// =========
	// Agent backends
	// =========
	tickets, err := agent.NewTicketStore(cfg.TicketDBPath)
	if err != nil {
		logger.Fatal("failed to open ticket store", zap.Error(err))
	}
	defer tickets.Close()

	quotes := agent.NewQuoteClient("https://query1.finance.yahoo.com")

	// =========
	// LLM + orchestrator
	// =========
	llm, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.OpenAIModel),
	)
	if err != nil {
		logger.Fatal("failed to create llm client", zap.Error(err))
	}

	orchestrator := agent.NewOrchestrator(llm, agent.Deps{
		WebSearch:    &agent.WebSearchTool{Aggregator: aggregator},
		NewsSearch:   &agent.NewsSearchTool{Aggregator: aggregator},
		HostedSearch: hosted,
		PageExtract:  &agent.PageExtractTool{Crawler: crawl},
		SiteCrawl:    &agent.SiteCrawlTool{Crawler: crawl},
		TickerQuote:  &agent.TickerQuoteTool{Quotes: quotes},
		CreateTicket: &agent.CreateTicketTool{Store: tickets},
		TicketLookup: &agent.TicketDetailsTool{Store: tickets},
	}, logger)

	// =========
	// HTTP server
	// =========
	server := api.NewServer(aggregator, orchestrator, logger, cfg.AppPort)
	if err := server.Start(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newCrawlTransport(proxyURL string) *http.Transport {
	transport := &http.Transport{
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: 120 * time.Second,
	}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return transport
}
