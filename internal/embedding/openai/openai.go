package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Swayam-the-coder/GRASP/internal/logger"
	"github.com/Swayam-the-coder/GRASP/internal/metrics"
)

const providerName = "openai.embeddings"

// Client is an OpenAI-compatible embeddings client.
type Client struct {
	api       openai.Client
	model     string
	batchSize int
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// Config configures the OpenAI-compatible embeddings client.
// APIKey is resolved by the caller; the client never reads the environment.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	BatchSize  int
	Logger     *logger.Logger
	Metrics    *metrics.Metrics
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai embeddings: missing API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	api := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(cfg.MaxRetries),
	)
	return &Client{
		api:       api,
		model:     cfg.Model,
		batchSize: cfg.BatchSize,
		log:       cfg.Logger.Component(providerName),
		metrics:   cfg.Metrics,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai" }

// BatchSize is the number of texts sent per request.
func (c *Client) BatchSize() int { return c.batchSize }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request and returns vectors in input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	start := time.Now()
	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.model),
	})
	if err == nil {
		err = checkResponse(resp, len(texts))
	}
	c.observe(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings failed: %w", err)
	}
	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		out[d.Index] = d.Embedding
	}
	return out, nil
}

func checkResponse(resp *openai.CreateEmbeddingResponse, want int) error {
	if len(resp.Data) != want {
		return fmt.Errorf("expected %d embeddings, got %d", want, len(resp.Data))
	}
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= want {
			return fmt.Errorf("embedding index %d out of range", d.Index)
		}
		if len(d.Embedding) == 0 {
			return errors.New("empty embedding")
		}
	}
	return nil
}

func (c *Client) observe(d time.Duration, err error) {
	c.log.LogProviderCall(providerName, d, err)
	if c.metrics != nil {
		c.metrics.RecordProviderCall(providerName, d, err)
	}
}
