package agent

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"
	"go.uber.org/zap"
)

// Topics the router can pick.
const (
	TopicResearch = "research"
	TopicSupport  = "support"
	TopicSQL      = "sql"
)

// Specialist pairs a tool set with the system prompt its agent runs
// under.
type Specialist struct {
	Topic  string
	Prompt string
	Tools  []tools.Tool
}

// Orchestrator routes a message to a specialist agent and streams the
// run. The graph is small: route once, then a single react loop over
// that specialist's tools.
type Orchestrator struct {
	llm         llms.Model
	router      *Router
	specialists map[string]Specialist
	maxTurns    int
	logger      *zap.Logger
}

// Deps collects the tool backends the specialists wrap.
type Deps struct {
	WebSearch    *WebSearchTool
	NewsSearch   *NewsSearchTool
	HostedSearch *HostedSearchTool // nil without an API key
	PageExtract  *PageExtractTool
	SiteCrawl    *SiteCrawlTool
	TickerQuote  *TickerQuoteTool
	CreateTicket *CreateTicketTool
	TicketLookup *TicketDetailsTool
}

// NewOrchestrator wires the default specialists.
func NewOrchestrator(llm llms.Model, deps Deps, logger *zap.Logger) *Orchestrator {
	researchTools := []tools.Tool{deps.WebSearch, deps.NewsSearch, deps.PageExtract, deps.SiteCrawl, deps.TickerQuote}
	if deps.HostedSearch != nil {
		researchTools = append(researchTools, deps.HostedSearch)
	}

	specialists := map[string]Specialist{
		TopicResearch: {
			Topic:  TopicResearch,
			Prompt: "You are a research assistant. Use the search and page tools to find current, sourced answers. Cite URLs in your final answer.",
			Tools:  researchTools,
		},
		TopicSupport: {
			Topic:  TopicSupport,
			Prompt: "You are a support agent. You can create and look up support tickets.",
			Tools:  []tools.Tool{deps.CreateTicket, deps.TicketLookup},
		},
		TopicSQL: {
			Topic:  TopicSQL,
			Prompt: "You are a SQL expert. Draft SQL queries to answer questions about data. Present the SQL and explain it briefly.",
			Tools:  []tools.Tool{&DraftSQLTool{}},
		},
	}

	return &Orchestrator{
		llm:         llm,
		router:      NewRouter(llm, []string{TopicResearch, TopicSupport, TopicSQL}, TopicResearch, logger),
		specialists: specialists,
		maxTurns:    5,
		logger:      logger,
	}
}

// Topics lists the registered specialist topics.
func (o *Orchestrator) Topics() []string {
	topics := make([]string, 0, len(o.specialists))
	for topic := range o.specialists {
		topics = append(topics, topic)
	}
	return topics
}

// Run routes the message, executes the chosen specialist, and emits
// events as the run progresses. The events channel is closed when the
// run ends.
func (o *Orchestrator) Run(ctx context.Context, message string, events chan<- Event) error {
	defer close(events)

	topic, err := o.router.Route(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to route message: %w", err)
	}
	spec, ok := o.specialists[topic]
	if !ok {
		return fmt.Errorf("no specialist registered for topic %s", topic)
	}

	o.logger.Info("run_routed", zap.String("topic", topic))
	emit(ctx, events, Event{Kind: EventRouted, Text: topic})

	handler := newStreamHandler(ctx, events)
	executor, err := agents.Initialize(
		o.llm,
		spec.Tools,
		agents.ZeroShotReactDescription,
		agents.WithMaxIterations(o.maxTurns),
		agents.WithCallbacksHandler(handler),
		agents.WithPromptPrefix(spec.Prompt+"\n\nAnswer the following questions as best you can. You have access to the following tools:\n\n{{.tool_descriptions}}"),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	answer, err := chains.Run(ctx, executor, message)
	if err != nil {
		return fmt.Errorf("agent run failed: %w", err)
	}

	if !handler.sawChunks() {
		emit(ctx, events, Event{Kind: EventChunk, Text: answer})
	}
	return nil
}
