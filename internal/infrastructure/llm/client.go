package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/hr-compass/internal/config"
	"github.com/hr-compass/internal/domain"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client completes conversations against an OpenAI-compatible chat API.
// The default base URL is Gemini's OpenAI-compatible endpoint.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	log         *zap.Logger
}

// NewClient returns a client for cfg. With no API key the client is still
// usable but every Complete call fails with domain.ErrLLMNotConfigured.
func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	c := &Client{
		model:       cfg.LLMModel,
		temperature: cfg.LLMTemperature,
		maxTokens:   cfg.LLMMaxTokens,
		log:         log.With(zap.String("component", "llm")),
	}
	if cfg.LLMAPIKey == "" {
		return c
	}
	oc := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.LLMBaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.LLMTimeout}
	c.client = openai.NewClientWithConfig(oc)
	return c
}

// Complete sends messages as one blocking request and returns the reply text.
func (c *Client) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	if c.client == nil {
		return "", domain.ErrLLMNotConfigured
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toOpenAI(messages),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.log.Error("chat completion failed", zap.String("model", c.model), zap.Error(err))
		return "", domain.ErrUpstreamUnavailable
	}
	if len(resp.Choices) == 0 {
		c.log.Warn("chat completion returned no choices", zap.String("model", c.model))
		return "", domain.ErrUpstreamUnavailable
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		c.log.Warn("chat completion returned empty content",
			zap.String("model", c.model),
			zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		)
		return "", domain.ErrUpstreamUnavailable
	}
	return content, nil
}

// toOpenAI keeps user and system turns and maps every other role to assistant.
func toOpenAI(messages []domain.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleAssistant
		switch m.Role {
		case domain.RoleUser:
			role = openai.ChatMessageRoleUser
		case domain.RoleSystem:
			role = openai.ChatMessageRoleSystem
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}
