package search

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// extractRecords walks an HTML document against the spec's item/field
// mapping. Records come back in document order, so a fixed body always
// yields the same sequence.
func extractRecords(body []byte, spec *EngineSpec) ([]Record, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return extractFromNode(doc, spec)
}

func extractFromNode(doc *html.Node, spec *EngineSpec) ([]Record, error) {
	items, err := htmlquery.QueryAll(doc, spec.ItemsXPath)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}

	var records []Record
	for _, item := range items {
		rec := make(Record, len(spec.Fields))
		for name, field := range spec.Fields {
			node, err := htmlquery.Query(item, field.XPath)
			if err != nil {
				return nil, fmt.Errorf("failed to query field %s: %w", name, err)
			}
			if node == nil {
				continue
			}
			if field.Attr != "" {
				rec[name] = strings.TrimSpace(htmlquery.SelectAttr(node, field.Attr))
			} else {
				rec[name] = collapseSpace(htmlquery.InnerText(node))
			}
		}
		if len(rec) == 0 {
			continue
		}
		if spec.Post != nil {
			var keep bool
			if rec, keep = spec.Post(rec); !keep {
				continue
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// collapseSpace flattens inner text: newlines and runs of whitespace
// become single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
