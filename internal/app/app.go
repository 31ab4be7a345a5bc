// Package app assembles a session from configuration.
package app

import (
	"fmt"
	"io"
	"time"

	"github.com/Swayam-the-coder/GRASP/internal/answer"
	"github.com/Swayam-the-coder/GRASP/internal/chunker"
	"github.com/Swayam-the-coder/GRASP/internal/config"
	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/embedding"
	"github.com/Swayam-the-coder/GRASP/internal/feedback"
	"github.com/Swayam-the-coder/GRASP/internal/indexer"
	"github.com/Swayam-the-coder/GRASP/internal/llm"
	"github.com/Swayam-the-coder/GRASP/internal/logger"
	"github.com/Swayam-the-coder/GRASP/internal/metrics"
	"github.com/Swayam-the-coder/GRASP/internal/retriever"
	"github.com/Swayam-the-coder/GRASP/internal/service"
	"github.com/Swayam-the-coder/GRASP/internal/source"
	"github.com/Swayam-the-coder/GRASP/internal/speech"
	"github.com/Swayam-the-coder/GRASP/internal/summarizer"
	"github.com/Swayam-the-coder/GRASP/internal/vectorstore"
)

// LoadConfig loads path, or the default locations when path is empty.
func LoadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(path)
}

// OpenLogger creates the logger described by cfg. Log lines go to cfg.File
// so they do not interfere with the terminal UI; fallback is used when no
// file is configured.
func OpenLogger(cfg config.LoggingConfig, fallback io.Writer) (*logger.Logger, func() error, error) {
	out, closer := fallback, func() error { return nil }
	if cfg.File != "" {
		f, err := logger.OpenFile(cfg.File)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f.Close
	}
	log := logger.New(logger.Config{Level: cfg.Level, Pretty: cfg.Pretty, Output: out, WithCaller: cfg.WithCaller})
	logger.InitGlobal(log)
	return log, closer, nil
}

// NewSession wires every component named in cfg.
func NewSession(cfg *config.AppConfig, creds config.Credentials, log *logger.Logger, m *metrics.Metrics) (*service.Session, error) {
	emb, err := embedding.New(cfg.Embedder, creds, log, m)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	factory, err := vectorstore.NewFactory(cfg.VectorStore)
	if err != nil {
		return nil, fmt.Errorf("vector store: %w", err)
	}
	split, err := chunker.NewWindowChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	if err != nil {
		return nil, fmt.Errorf("chunker: %w", err)
	}
	gen, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      creds.LLMAPIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     seconds(cfg.LLM.TimeoutSecs),
		MaxRetries:  cfg.LLM.MaxRetries,
		Logger:      log,
		Metrics:     m,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	composer, err := answer.New(gen, cfg.LLM.SystemPrompt, cfg.LLM.MaxContextChars)
	if err != nil {
		return nil, fmt.Errorf("answer composer: %w", err)
	}
	sum, err := summarizer.New(cfg.Summarizer)
	if err != nil {
		return nil, err
	}

	deps := service.Dependencies{
		Sources:          newRegistry(cfg, creds, log, m),
		Chunker:          split,
		Indexer:          indexer.New(emb, factory, 0, log),
		Retriever:        retriever.New(cfg.Retriever.TopK),
		Composer:         composer,
		Summarizer:       sum,
		SummarySentences: cfg.Summarizer.MaxSentences,
		Feedback:         feedback.NewFileSink(cfg.Feedback.Path),
		Logger:           log,
		Metrics:          m,
	}
	return service.NewSession(deps), nil
}

func newRegistry(cfg *config.AppConfig, creds config.Credentials, log *logger.Logger, m *metrics.Metrics) *source.Registry {
	var transcriber domain.Transcriber
	if creds.SpeechAPIKey != "" {
		transcriber = speech.NewClient(speech.Config{
			BaseURL:    cfg.Speech.BaseURL,
			APIKey:     creds.SpeechAPIKey,
			Model:      cfg.Speech.Model,
			Language:   cfg.Speech.Language,
			Timeout:    seconds(cfg.Speech.TimeoutSecs),
			MaxRetries: cfg.Speech.MaxRetries,
			Logger:     log,
			Metrics:    m,
		})
	}
	return source.NewRegistry(
		source.NewPDF(),
		source.NewWeb(source.WebConfig{
			Selectors: cfg.Sources.Web.Selectors,
			UserAgent: cfg.Sources.Web.UserAgent,
			Timeout:   seconds(cfg.Sources.Web.TimeoutSecs),
		}),
		source.NewTextFile(),
		source.NewAudio(transcriber),
		source.NewDatabase(source.DatabaseConfig{
			Timeout: seconds(cfg.Sources.Database.TimeoutSecs),
			MaxRows: cfg.Sources.Database.MaxRows,
		}),
		source.NewJSONAPI(source.JSONAPIConfig{
			Render:  cfg.Sources.API.Render,
			Timeout: seconds(cfg.Sources.API.TimeoutSecs),
		}),
	)
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
