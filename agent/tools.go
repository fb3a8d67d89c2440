package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools"

	"seekr/crawler"
	"seekr/search"
	"seekr/tavily"
)

const toolResultLimit = 5

// WebSearchTool exposes the engine aggregator's text vertical.
type WebSearchTool struct {
	Aggregator *search.Aggregator
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Description() string {
	return "Searches the web for current information. Input is a plain search query; output is a numbered list of titles, URLs and snippets."
}

func (t *WebSearchTool) Call(ctx context.Context, input string) (string, error) {
	results, err := t.Aggregator.Text(ctx, search.Query{Text: input, MaxResults: toolResultLimit})
	if err != nil {
		return "", fmt.Errorf("web search failed: %w", err)
	}
	if len(results) == 0 {
		return "No results found.", nil
	}
	return search.FormatResults(results, toolResultLimit), nil
}

// NewsSearchTool exposes the news vertical.
type NewsSearchTool struct {
	Aggregator *search.Aggregator
}

func (t *NewsSearchTool) Name() string { return "news_search" }

func (t *NewsSearchTool) Description() string {
	return "Searches recent news articles. Input is a plain search query; output lists dated headlines with sources and URLs."
}

func (t *NewsSearchTool) Call(ctx context.Context, input string) (string, error) {
	results, err := t.Aggregator.News(ctx, search.Query{Text: input, MaxResults: toolResultLimit})
	if err != nil {
		return "", fmt.Errorf("news search failed: %w", err)
	}
	if len(results) == 0 {
		return "No news found.", nil
	}
	var b strings.Builder
	for i, r := range results {
		if i == toolResultLimit {
			break
		}
		fmt.Fprintf(&b, "%d. [%s] %s (%s)\n%s\n%s\n", i+1, r.Date, r.Title, r.Source, r.URL, r.Body)
	}
	return strings.TrimSpace(b.String()), nil
}

// HostedSearchTool exposes the Tavily search API.
type HostedSearchTool struct {
	Client *tavily.Client
}

func (t *HostedSearchTool) Name() string { return "hosted_search" }

func (t *HostedSearchTool) Description() string {
	return "Searches the web through the hosted search API, which returns cleaner content excerpts with relevance scores. Input is a plain search query."
}

func (t *HostedSearchTool) Call(ctx context.Context, input string) (string, error) {
	resp, err := t.Client.Search(ctx, tavily.SearchRequest{Query: input, MaxResults: 3})
	if err != nil {
		return "", fmt.Errorf("hosted search failed: %w", err)
	}
	if len(resp.Results) == 0 {
		return "No results found.", nil
	}
	var b strings.Builder
	if resp.Answer != "" {
		fmt.Fprintf(&b, "Answer: %s\n", resp.Answer)
	}
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "%d. %s (score %.2f)\n%s\n%s\n", i+1, r.Title, r.Score, r.URL, r.Content)
	}
	return strings.TrimSpace(b.String()), nil
}

// PageExtractTool fetches one URL and returns its readable content.
type PageExtractTool struct {
	Crawler *crawler.Crawler
}

func (t *PageExtractTool) Name() string { return "page_extract" }

func (t *PageExtractTool) Description() string {
	return "Fetches a web page and returns its readable text. Input is a single absolute URL."
}

func (t *PageExtractTool) Call(ctx context.Context, input string) (string, error) {
	pageURL := strings.TrimSpace(input)
	if !strings.HasPrefix(pageURL, "http") {
		return "", fmt.Errorf("input must be an absolute URL, got %q", input)
	}
	page, err := t.Crawler.Fetch(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("page extract failed: %w", err)
	}
	text := page.Text
	if len(text) > 4000 {
		text = text[:4000] + "…"
	}
	if page.Title != "" {
		return page.Title + "\n\n" + text, nil
	}
	return text, nil
}

// SiteCrawlTool walks same-domain links from a start URL and returns a
// digest of the readable pages it found.
type SiteCrawlTool struct {
	Crawler *crawler.Crawler
}

func (t *SiteCrawlTool) Name() string { return "site_crawl" }

func (t *SiteCrawlTool) Description() string {
	return "Crawls a website starting from a URL, following same-domain links, and returns a summary of each readable page. Input is a single absolute URL."
}

func (t *SiteCrawlTool) Call(ctx context.Context, input string) (string, error) {
	startURL := strings.TrimSpace(input)
	if !strings.HasPrefix(startURL, "http") {
		return "", fmt.Errorf("input must be an absolute URL, got %q", input)
	}
	pages, err := t.Crawler.Crawl(ctx, startURL)
	if err != nil {
		return "", fmt.Errorf("site crawl failed: %w", err)
	}
	if len(pages) == 0 {
		return "No readable pages found.", nil
	}
	var b strings.Builder
	for i, p := range pages {
		if i == toolResultLimit {
			break
		}
		text := p.Text
		if len(text) > 600 {
			text = text[:600] + "…"
		}
		fmt.Fprintf(&b, "%d. %s\n%s\n%s\n", i+1, p.Title, p.URL, text)
	}
	return strings.TrimSpace(b.String()), nil
}

// TickerQuoteTool reports the current price for a stock symbol.
type TickerQuoteTool struct {
	Quotes *QuoteClient
}

func (t *TickerQuoteTool) Name() string { return "ticker_quote" }

func (t *TickerQuoteTool) Description() string {
	return "Gets the current stock price for a ticker symbol, e.g. AAPL."
}

func (t *TickerQuoteTool) Call(ctx context.Context, input string) (string, error) {
	quote, err := t.Quotes.Quote(ctx, input)
	if err != nil {
		return "", fmt.Errorf("quote failed: %w", err)
	}
	return fmt.Sprintf("The current price of %s is %.2f %s.", quote.Symbol, quote.Price, quote.Currency), nil
}

// CreateTicketTool opens a support ticket. Input is "customer | issue".
type CreateTicketTool struct {
	Store *TicketStore
}

func (t *CreateTicketTool) Name() string { return "create_support_ticket" }

func (t *CreateTicketTool) Description() string {
	return "Creates a new support ticket. Input is the customer name and the issue separated by a pipe, e.g. 'Jane Doe | laptop will not boot'. Returns the ticket ID."
}

func (t *CreateTicketTool) Call(_ context.Context, input string) (string, error) {
	customer, issue, ok := strings.Cut(input, "|")
	if !ok {
		return "", fmt.Errorf("input must be 'customer | issue', got %q", input)
	}
	ticket, err := t.Store.Create(strings.TrimSpace(customer), strings.TrimSpace(issue))
	if err != nil {
		return "", fmt.Errorf("failed to create ticket: %w", err)
	}
	return fmt.Sprintf("Created support ticket %s for %s.", ticket.ID, ticket.Customer), nil
}

// TicketDetailsTool looks a ticket up by ID.
type TicketDetailsTool struct {
	Store *TicketStore
}

func (t *TicketDetailsTool) Name() string { return "get_support_ticket" }

func (t *TicketDetailsTool) Description() string {
	return "Gets the details of a support ticket. Input is the ticket ID."
}

func (t *TicketDetailsTool) Call(_ context.Context, input string) (string, error) {
	ticket, err := t.Store.Get(strings.TrimSpace(input))
	if err != nil {
		return "", fmt.Errorf("failed to get ticket: %w", err)
	}
	return fmt.Sprintf("Ticket %s: customer %s, status %s, issue: %s",
		ticket.ID, ticket.Customer, ticket.Status, ticket.Issue), nil
}

// DraftSQLTool sketches a SQL query from a natural-language request.
// The heuristics are deliberately shallow; the surrounding agent prompt
// treats the output as a draft, not an executable statement.
type DraftSQLTool struct{}

func (t *DraftSQLTool) Name() string { return "draft_sql" }

func (t *DraftSQLTool) Description() string {
	return "Drafts a SQL query for a natural-language data question. Returns SQL text only; it never executes anything."
}

func (t *DraftSQLTool) Call(_ context.Context, input string) (string, error) {
	q := strings.ToLower(input)
	switch {
	case strings.Contains(q, "customers") && strings.Contains(q, "count"):
		return "SELECT COUNT(*) FROM customers;", nil
	case strings.Contains(q, "tickets") && strings.Contains(q, "status"):
		return "SELECT * FROM tickets WHERE status = 'open';", nil
	default:
		return fmt.Sprintf("SELECT * FROM table WHERE condition = '%s';", strings.ReplaceAll(input, "'", "''")), nil
	}
}

var (
	_ tools.Tool = (*WebSearchTool)(nil)
	_ tools.Tool = (*NewsSearchTool)(nil)
	_ tools.Tool = (*HostedSearchTool)(nil)
	_ tools.Tool = (*PageExtractTool)(nil)
	_ tools.Tool = (*SiteCrawlTool)(nil)
	_ tools.Tool = (*TickerQuoteTool)(nil)
	_ tools.Tool = (*CreateTicketTool)(nil)
	_ tools.Tool = (*TicketDetailsTool)(nil)
	_ tools.Tool = (*DraftSQLTool)(nil)
)
