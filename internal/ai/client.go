package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrEmptyResponse is returned when the endpoint answers without any text.
var ErrEmptyResponse = errors.New("no response from AI")

const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 300
)

// Client talks to any OpenAI-compatible chat completion endpoint (Gemini,
// OpenRouter, OpenAI) through go-openai.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Client{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt as a single user message and returns the trimmed
// text of the first choice. Non-2xx statuses, malformed payloads and
// cancellation all come back as errors.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	// Returned untrimmed: callers relay malformed answers verbatim.
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
