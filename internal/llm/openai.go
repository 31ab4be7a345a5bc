// Package llm talks to the chat-completion provider.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Swayam-the-coder/GRASP/internal/logger"
	"github.com/Swayam-the-coder/GRASP/internal/metrics"
)

const providerName = "openai.chat"

// Config configures the chat client. APIKey is resolved by the caller.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
}

// Client generates answers with an OpenAI-compatible chat completions API.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	log         *logger.Logger
	metrics     *metrics.Metrics
}

// NewClient creates a chat client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai chat: missing API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo-0125"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithRequestTimeout(cfg.Timeout),
			option.WithMaxRetries(cfg.MaxRetries),
		),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		log:         cfg.Logger.Component(providerName),
		metrics:     cfg.Metrics,
	}, nil
}

// Generate sends systemPrompt and question as a two-message conversation and
// returns the first choice's text.
func (c *Client) Generate(ctx context.Context, systemPrompt, question string) (string, error) {
	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(question),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err == nil && len(resp.Choices) == 0 {
		err = errors.New("no choices returned")
	}
	d := time.Since(start)
	c.log.LogProviderCall(providerName, d, err)
	if c.metrics != nil {
		c.metrics.RecordProviderCall(providerName, d, err)
	}
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
