// Package embedding selects the configured text embedder.
package embedding

import (
	"fmt"
	"time"

	"github.com/Swayam-the-coder/GRASP/internal/config"
	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/embedding/openai"
	"github.com/Swayam-the-coder/GRASP/internal/embedding/tfidf"
	"github.com/Swayam-the-coder/GRASP/internal/logger"
	"github.com/Swayam-the-coder/GRASP/internal/metrics"
)

// New builds the embedder named by cfg.Type.
func New(cfg config.EmbedderConfig, creds config.Credentials, log *logger.Logger, m *metrics.Metrics) (domain.Embedder, error) {
	switch cfg.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder(), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKey:     creds.EmbedderAPIKey,
			Model:      cfg.OpenAI.Model,
			Timeout:    time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			MaxRetries: cfg.OpenAI.MaxRetries,
			BatchSize:  cfg.OpenAI.BatchSize,
			Logger:     log,
			Metrics:    m,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}
