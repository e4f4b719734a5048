package recommender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"orderbot/internal/chat"
	"orderbot/internal/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

var ErrMalformedOutput = errors.New("malformed model output")

const systemPrompt = `You are OrderBot, a friendly food ordering assistant.
Recommend dishes from the menu below that fit the customer's message.
Answer with a single JSON object and nothing else:
{"response": "<short friendly reply>", "ids": ["<menu id>", ...]}
Only use ids that appear in the menu. Use an empty list when nothing fits.

Menu (id | title | price | rating | description):
`

// LLMEngine asks a language model for recommendations and falls back to
// another engine when the model's output cannot be parsed.
type LLMEngine struct {
	model    llms.Model
	fallback Engine
	logger   *zap.Logger
	opts     []llms.CallOption
}

// NewLLMEngine creates an engine backed by model
func NewLLMEngine(model llms.Model, fallback Engine, logger *zap.Logger, opts ...llms.CallOption) *LLMEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallback == nil {
		fallback = NewKeywordEngine(DefaultLimit)
	}
	return &LLMEngine{
		model:    model,
		fallback: fallback,
		logger:   logger,
		opts:     opts,
	}
}

func (e *LLMEngine) Name() string {
	return "llm"
}

// Recommend prompts the model with the menu and the message
func (e *LLMEngine) Recommend(ctx context.Context, message string, menu []models.MenuItem) (*chat.Response, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, buildPrompt(menu)),
		llms.TextParts(schema.ChatMessageTypeHuman, message),
	}

	response, err := e.model.GenerateContent(ctx, messages, e.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recommendation: %w", err)
	}

	var content string
	if response != nil && len(response.Choices) > 0 {
		content = response.Choices[0].Content
	}

	reply, err := parseReply(content)
	if err != nil {
		e.logger.Warn("model output rejected, using fallback engine",
			zap.String("fallback", e.fallback.Name()),
			zap.Error(err),
		)
		return e.fallback.Recommend(ctx, message, menu)
	}

	index := make(map[string]models.MenuItem, len(menu))
	for _, item := range menu {
		index[item.ID] = item
	}

	items := make([]models.MenuItem, 0, len(reply.IDs))
	seen := make(map[string]bool, len(reply.IDs))
	for _, id := range reply.IDs {
		item, ok := index[id]
		if !ok || seen[id] {
			e.logger.Debug("model recommended an unknown id", zap.String("id", id))
			continue
		}
		seen[id] = true
		items = append(items, item)
	}

	return &chat.Response{Response: reply.Response, RecommendedMenu: items}, nil
}

type modelReply struct {
	Response string   `json:"response"`
	IDs      []string `json:"ids"`
}

func buildPrompt(menu []models.MenuItem) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	for _, item := range menu {
		fmt.Fprintf(&b, "%s | %s | %s | %.1f | %s\n",
			item.ID, item.Title, models.FormatAmount(item.Price), item.Rating, item.Description)
	}
	return b.String()
}

// parseReply extracts the JSON object from the completion, tolerating code
// fences and surrounding prose.
func parseReply(content string) (modelReply, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return modelReply{}, fmt.Errorf("%w: no JSON object", ErrMalformedOutput)
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(content[start:end+1]), &reply); err != nil {
		return modelReply{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if strings.TrimSpace(reply.Response) == "" {
		return modelReply{}, fmt.Errorf("%w: empty response", ErrMalformedOutput)
	}
	return reply, nil
}
