package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDraftSQLTool(t *testing.T) {
	tool := &DraftSQLTool{}

	out, err := tool.Call(context.Background(), "how many customers do we have, give me a count")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM customers;", out)

	out, err = tool.Call(context.Background(), "show tickets by status")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM tickets WHERE status = 'open';", out)

	// fallback escapes single quotes
	out, err = tool.Call(context.Background(), "o'reilly")
	require.NoError(t, err)
	assert.Contains(t, out, "o''reilly")
}

func TestPageExtractToolRejectsNonURL(t *testing.T) {
	tool := &PageExtractTool{}
	_, err := tool.Call(context.Background(), "just some words")
	assert.Error(t, err)
}

func TestSiteCrawlToolRejectsNonURL(t *testing.T) {
	tool := &SiteCrawlTool{}
	_, err := tool.Call(context.Background(), "crawl example.com please")
	assert.ErrorContains(t, err, "absolute URL")
}

func TestStreamHandlerEvents(t *testing.T) {
	ctx := context.Background()
	events := make(chan Event, 4)
	h := newStreamHandler(ctx, events)

	assert.False(t, h.sawChunks())
	h.HandleStreamingFunc(ctx, []byte("hel"))
	h.HandleStreamingFunc(ctx, nil)
	h.HandleStreamingFunc(ctx, []byte("lo"))
	h.HandleToolEnd(ctx, "tool says hi")
	assert.True(t, h.sawChunks())

	close(events)
	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	require.Len(t, got, 3)
	assert.Equal(t, Event{Kind: EventChunk, Text: "hel"}, got[0])
	assert.Equal(t, Event{Kind: EventChunk, Text: "lo"}, got[1])
	assert.Equal(t, Event{Kind: EventTool, Text: "tool says hi"}, got[2])
}

func TestOrchestratorTopics(t *testing.T) {
	o := NewOrchestrator(&stubLLM{answer: "research"}, Deps{
		WebSearch:    &WebSearchTool{},
		NewsSearch:   &NewsSearchTool{},
		PageExtract:  &PageExtractTool{},
		SiteCrawl:    &SiteCrawlTool{},
		TickerQuote:  &TickerQuoteTool{},
		CreateTicket: &CreateTicketTool{},
		TicketLookup: &TicketDetailsTool{},
	}, zap.NewNop())
	assert.ElementsMatch(t, []string{"research", "support", "sql"}, o.Topics())
}
