// Package speech transcribes audio with a hosted speech-recognition model.
package speech

import (
	"bytes"
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

const providerName = "openai.transcriptions"

// ErrNoTranscript is returned when the service answers with no text.
var ErrNoTranscript = errors.New("no transcript returned")

// Config configures the transcription client. APIKey is resolved by the caller.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Language   string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logger.Logger
	Metrics    *metrics.Metrics
}

// Client transcribes whole clips with the audio transcriptions endpoint.
type Client struct {
	api      openai.Client
	model    string
	language string
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewClient creates a transcription client. A missing key is reported on
// first use so that the other pages keep working.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
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
		model:    cfg.Model,
		language: cfg.Language,
		log:      cfg.Logger.Component(providerName),
		metrics:  cfg.Metrics,
	}
}

// Transcribe sends the clip and returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio), filename, contentType(filename)),
		Model: openai.AudioModel(c.model),
	}
	if c.language != "" {
		params.Language = openai.String(c.language)
	}
	start := time.Now()
	resp, err := c.api.Audio.Transcriptions.New(ctx, params)
	var text string
	if err == nil {
		text = strings.TrimSpace(resp.Text)
		if text == "" {
			err = ErrNoTranscript
		}
	}
	d := time.Since(start)
	c.log.LogProviderCall(providerName, d, err)
	if c.metrics != nil {
		c.metrics.RecordProviderCall(providerName, d, err)
	}
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", filename, err)
	}
	return text, nil
}

func contentType(filename string) string {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(name, ".flac"):
		return "audio/flac"
	case strings.HasSuffix(name, ".aif"), strings.HasSuffix(name, ".aiff"), strings.HasSuffix(name, ".aifc"):
		return "audio/aiff"
	default:
		return "application/octet-stream"
	}
}
