package search

import (
	"context"
	"fmt"

	"github.com/antchfx/xpath"
)

// Field maps one result field to an XPath expression relative to the
// matched item node. When Attr is set the attribute value is taken,
// otherwise the node's collapsed inner text.
type Field struct {
	XPath string
	Attr  string
}

// Request is a provider request built by an EngineSpec payload builder.
type Request struct {
	Method  string
	URL     string
	Form    map[string]string // urlencoded body, POST engines
	Headers map[string]string
}

// EngineSpec is the static per-provider adapter declaration: where to
// send the query, how to build the payload, and how to pull typed fields
// out of the response. Specs are defined at startup and never mutated.
type EngineSpec struct {
	Name     string
	Category Category

	// Build produces the provider request for a query.
	Build func(q Query) (*Request, error)

	// Prepare runs before Build and may enrich the query, e.g. fetching
	// a session token the provider requires.
	Prepare func(ctx context.Context, c *Client, q Query) (Query, error)

	// ItemsXPath selects one node per result; Fields run relative to it.
	// Engines answering JSON leave these empty and set Decode instead.
	ItemsXPath string
	Fields     map[string]Field

	// Decode parses a JSON response body into records.
	Decode func(body []byte, q Query) ([]Record, error)

	// Post normalizes a record (dates, partial URLs) and may drop it.
	Post func(rec Record) (Record, bool)

	// RenderJS retries through the headless browser when static fetch
	// yields nothing.
	RenderJS bool
}

// Validate compiles every XPath expression in the spec so malformed
// adapter declarations fail at startup instead of mid-search.
func (s *EngineSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("engine spec missing name")
	}
	if s.Build == nil {
		return fmt.Errorf("engine %s: missing payload builder", s.Name)
	}
	if s.Decode != nil {
		return nil
	}
	if s.ItemsXPath == "" {
		return fmt.Errorf("engine %s: missing items xpath", s.Name)
	}
	if _, err := xpath.Compile(s.ItemsXPath); err != nil {
		return fmt.Errorf("engine %s: bad items xpath: %w", s.Name, err)
	}
	for name, f := range s.Fields {
		if _, err := xpath.Compile(f.XPath); err != nil {
			return fmt.Errorf("engine %s: bad xpath for field %s: %w", s.Name, name, err)
		}
	}
	return nil
}
