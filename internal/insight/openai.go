package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/julianstephens/wird/internal/logger"
)

// ErrNoAPIKey is returned when no OpenAI key is configured
var ErrNoAPIKey = errors.New("no OpenAI API key configured")

const systemPrompt = `You are a gentle, encouraging companion for someone tracking their daily
Islamic practice: prayers, Quran, adhkar and voluntary fasts. Given a summary of
their recent history, write three to five short sentences. Notice what went well,
name one pattern worth attention, and suggest one small, concrete step. Excused
days are not failures. Never shame or lecture.`

// ChatService is the slice of the OpenAI client used here, so tests can
// stand in for the API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Generator writes insights, consulting the cache first when one is set
type Generator struct {
	chat  ChatService
	model openai.ChatModel
	cache *Cache
}

// NewOpenAI builds a generator backed by the OpenAI chat API.
func NewOpenAI(apiKey, model string, cache *Cache) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Generator{
		chat:  client.Chat.Completions,
		model: openai.ChatModel(model),
		cache: cache,
	}, nil
}

// Generate returns the insight for s. Cache failures only cost a fresh call.
func (g *Generator) Generate(ctx context.Context, s Summary) (string, error) {
	if len(s.Habits) == 0 {
		return "", errors.New("nothing was scheduled in this window")
	}

	var key string
	if g.cache != nil {
		k, err := Key(string(g.model), s)
		if err != nil {
			logger.Warn("insight cache disabled", "error", err)
		} else if text, ok := g.cache.Get(k); ok {
			logger.Debug("insight cache hit", "key", k)
			return text, nil
		} else {
			key = k
		}
	}

	resp, err := g.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(s.Prompt()),
		}),
		Model: openai.F(g.model),
	})
	if err != nil {
		return "", fmt.Errorf("insight generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("insight generation failed: no choices returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("insight generation failed: empty response")
	}

	if key != "" {
		if err := g.cache.Put(key, text); err != nil {
			logger.Warn("failed to cache insight", "error", err)
		}
	}
	return text, nil
}

// Model returns the chat model name
func (g *Generator) Model() string {
	return string(g.model)
}
