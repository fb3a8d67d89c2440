package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Router asks the model which specialist should handle a question. An
// answer outside the topic list falls back to the default topic, so a
// confused model can never route a request nowhere.
type Router struct {
	llm          llms.Model
	topics       []string
	defaultTopic string
	logger       *zap.Logger
}

func NewRouter(llm llms.Model, topics []string, defaultTopic string, logger *zap.Logger) *Router {
	return &Router{
		llm:          llm,
		topics:       topics,
		defaultTopic: defaultTopic,
		logger:       logger,
	}
}

func (r *Router) systemPrompt() string {
	return fmt.Sprintf(
		"You are an expert at routing a user question to a specialist. "+
			"The available specialists are: %s. "+
			"Answer with exactly one specialist name and nothing else. "+
			"If the question fits none of them, answer %q.",
		strings.Join(r.topics, ", "), r.defaultTopic)
}

// Route picks a topic for the question.
func (r *Router) Route(ctx context.Context, question string) (string, error) {
	resp, err := r.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, r.systemPrompt()),
		llms.TextParts(llms.ChatMessageTypeHuman, question),
	}, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("failed to route question: %w", err)
	}
	if len(resp.Choices) == 0 {
		return r.defaultTopic, nil
	}

	answer := normalizeTopic(resp.Choices[0].Content)
	for _, topic := range r.topics {
		if answer == topic {
			return topic, nil
		}
	}

	r.logger.Info("router_fallback",
		zap.String("answer", answer),
		zap.String("default", r.defaultTopic))
	return r.defaultTopic, nil
}

func normalizeTopic(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, `"'.`)
	// models sometimes answer "route: research" or similar
	if _, after, ok := strings.Cut(s, ":"); ok {
		s = strings.TrimSpace(after)
	}
	return s
}
