package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Aggregator fronts the engine chains. Each call runs one engine at a
// time: the chain is walked in order and the first engine that yields
// results wins. There is no concurrency here on purpose; the only shared
// state is the HTTP client.
type Aggregator struct {
	client   *Client
	registry *Registry
	browser  *Browser // optional
	logger   *zap.Logger
}

func NewAggregator(client *Client, registry *Registry, browser *Browser, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		client:   client,
		registry: registry,
		browser:  browser,
		logger:   logger,
	}
}

// run executes one engine adapter end to end: pre-hook, payload build,
// request, extraction, post-hooks.
func (a *Aggregator) run(ctx context.Context, spec *EngineSpec, q Query) ([]Record, error) {
	if spec.Prepare != nil {
		var err error
		if q, err = spec.Prepare(ctx, a.client, q); err != nil {
			return nil, engineErr(spec.Name, "prepare", err)
		}
	}

	req, err := spec.Build(q)
	if err != nil {
		return nil, engineErr(spec.Name, "build", err)
	}

	body, err := a.client.Fetch(ctx, spec.Name, req)
	if err != nil {
		return nil, engineErr(spec.Name, "fetch", err)
	}

	records, err := a.decode(body, spec, q)
	if err != nil {
		return nil, engineErr(spec.Name, "extract", err)
	}

	if len(records) == 0 && spec.RenderJS && a.browser != nil && req.Method == "GET" {
		rendered, rerr := a.browser.Render(ctx, req.URL)
		if rerr != nil {
			return nil, engineErr(spec.Name, "render", rerr)
		}
		if records, err = a.decode(rendered, spec, q); err != nil {
			return nil, engineErr(spec.Name, "extract", err)
		}
	}

	if q.MaxResults > 0 && len(records) > q.MaxResults {
		records = records[:q.MaxResults]
	}
	return records, nil
}

func (a *Aggregator) decode(body []byte, spec *EngineSpec, q Query) ([]Record, error) {
	if spec.Decode != nil {
		records, err := spec.Decode(body, q)
		if err != nil {
			return nil, err
		}
		if spec.Post == nil {
			return records, nil
		}
		kept := records[:0]
		for _, rec := range records {
			if out, ok := spec.Post(rec); ok {
				kept = append(kept, out)
			}
		}
		return kept, nil
	}
	return extractRecords(body, spec)
}

// chain walks the category's engines in order until one returns records.
func (a *Aggregator) chain(ctx context.Context, cat Category, q Query) ([]Record, string, error) {
	specs := a.registry.Chain(cat)
	if len(specs) == 0 {
		return nil, "", fmt.Errorf("no engines registered for category %s", cat)
	}

	var errs []error
	for _, spec := range specs {
		records, err := a.run(ctx, spec, q)
		if err != nil {
			a.logger.Warn("engine_failed",
				zap.String("engine", spec.Name),
				zap.String("category", string(cat)),
				zap.Error(err))
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(records) == 0 {
			a.logger.Info("engine_empty",
				zap.String("engine", spec.Name),
				zap.String("category", string(cat)))
			continue
		}
		return records, spec.Name, nil
	}
	if len(errs) > 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrNoResults, errors.Join(errs...))
	}
	return nil, "", ErrNoResults
}

// Text searches the text vertical through the fallback chain.
func (a *Aggregator) Text(ctx context.Context, q Query) ([]Result, error) {
	records, engine, err := a.chain(ctx, CategoryText, q)
	if err != nil {
		return nil, err
	}
	return toResults(records, engine), nil
}

// TextWith searches one named engine only.
func (a *Aggregator) TextWith(ctx context.Context, engine string, q Query) ([]Result, error) {
	spec, err := a.registry.Engine(CategoryText, engine)
	if err != nil {
		return nil, err
	}
	records, err := a.run(ctx, spec, q)
	if err != nil {
		return nil, err
	}
	return toResults(records, spec.Name), nil
}

// MergeText queries every text engine sequentially and merges the
// batches by canonical URL, ranked by stem overlap with the query.
func (a *Aggregator) MergeText(ctx context.Context, q Query) ([]Result, error) {
	var batches [][]Result
	var errs []error
	for _, spec := range a.registry.Chain(CategoryText) {
		records, err := a.run(ctx, spec, q)
		if err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		batches = append(batches, toResults(records, spec.Name))
	}
	if len(batches) == 0 {
		if len(errs) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoResults, errors.Join(errs...))
		}
		return nil, ErrNoResults
	}
	merged := mergeResults(q.Text, batches)
	if q.MaxResults > 0 && len(merged) > q.MaxResults {
		merged = merged[:q.MaxResults]
	}
	return merged, nil
}

// News searches the news vertical through the fallback chain.
func (a *Aggregator) News(ctx context.Context, q Query) ([]NewsResult, error) {
	records, engine, err := a.chain(ctx, CategoryNews, q)
	if err != nil {
		return nil, err
	}
	out := make([]NewsResult, 0, len(records))
	for _, rec := range records {
		out = append(out, NewsResult{
			Date:   rec["date"],
			Title:  rec["title"],
			Body:   rec["body"],
			URL:    rec["url"],
			Image:  rec["image"],
			Source: rec["source"],
			Engine: engine,
		})
	}
	return out, nil
}

// Books searches the books vertical.
func (a *Aggregator) Books(ctx context.Context, q Query) ([]BookResult, error) {
	records, engine, err := a.chain(ctx, CategoryBooks, q)
	if err != nil {
		return nil, err
	}
	out := make([]BookResult, 0, len(records))
	for _, rec := range records {
		out = append(out, BookResult{
			Title:     rec["title"],
			Author:    rec["author"],
			Publisher: rec["publisher"],
			Year:      rec["year"],
			Format:    rec["format"],
			Size:      rec["size"],
			URL:       rec["url"],
			Engine:    engine,
		})
	}
	return out, nil
}

// Engines lists the configured chain per category, for diagnostics.
func (a *Aggregator) Engines() map[Category][]string {
	return map[Category][]string{
		CategoryText:  a.registry.Names(CategoryText),
		CategoryNews:  a.registry.Names(CategoryNews),
		CategoryBooks: a.registry.Names(CategoryBooks),
	}
}

func toResults(records []Record, engine string) []Result {
	out := make([]Result, 0, len(records))
	for _, rec := range records {
		r := Result{
			Title:  rec["title"],
			URL:    rec["url"],
			Body:   rec["body"],
			Engine: engine,
		}
		for k, v := range rec {
			switch k {
			case "title", "url", "body":
			default:
				if r.Metadata == nil {
					r.Metadata = make(map[string]string)
				}
				r.Metadata[k] = v
			}
		}
		out = append(out, r)
	}
	return out
}

// FormatResults renders results as the compact text block the agent
// tools feed back to the model.
func FormatResults(results []Result, limit int) string {
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n%s\n%s\n", i+1, r.Title, r.URL, r.Body)
	}
	return strings.TrimSpace(b.String())
}
