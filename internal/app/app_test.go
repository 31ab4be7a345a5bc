package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swayam-the-coder/GRASP/internal/config"
	"github.com/Swayam-the-coder/GRASP/internal/domain"
	"github.com/Swayam-the-coder/GRASP/internal/logger"
	"github.com/Swayam-the-coder/GRASP/internal/metrics"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grasp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder:\n  type: tfidf\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cfg.Feedback.Path = filepath.Join(t.TempDir(), "feedback.txt")
	return cfg
}

func TestNewSessionRegistersEveryKind(t *testing.T) {
	cfg := testConfig(t)
	s, err := NewSession(cfg, config.Credentials{LLMAPIKey: "sk-test"}, logger.Nop(), metrics.New(nil))
	require.NoError(t, err)
	defer s.Close(context.Background())

	assert.Equal(t, domain.SourceKinds, s.Kinds())
	for _, st := range s.Status() {
		assert.Equal(t, "unconfigured", st.State)
	}
}

func TestNewSessionNeedsLLMKey(t *testing.T) {
	_, err := NewSession(testConfig(t), config.Credentials{}, logger.Nop(), metrics.New(nil))
	assert.Error(t, err)
}

func TestAudioWithoutSpeechKeyIsRecognitionError(t *testing.T) {
	cfg := testConfig(t)
	s, err := NewSession(cfg, config.Credentials{LLMAPIKey: "sk-test"}, logger.Nop(), metrics.New(nil))
	require.NoError(t, err)

	clip := filepath.Join(t.TempDir(), "clip.flac")
	require.NoError(t, os.WriteFile(clip, []byte("fLaC\x00\x00\x00\x22"), 0o644))
	_, err = s.Configure(context.Background(), domain.SourceAudio, domain.Params{"path": clip})
	assert.ErrorIs(t, err, domain.ErrRecognition)
}

func TestTextSourceEndToEndIngest(t *testing.T) {
	cfg := testConfig(t)
	s, err := NewSession(cfg, config.Credentials{LLMAPIKey: "sk-test"}, logger.Nop(), metrics.New(nil))
	require.NoError(t, err)
	defer s.Close(context.Background())

	doc := filepath.Join(t.TempDir(), "sky.txt")
	require.NoError(t, os.WriteFile(doc, []byte("The sky is blue. Grass is green."), 0o644))
	engine, err := s.Configure(context.Background(), domain.SourceText, domain.Params{"path": doc})
	require.NoError(t, err)
	assert.Equal(t, 1, engine.Chunks)
	assert.Equal(t, "The sky is blue. Grass is green.", engine.Summary)
}

func TestOpenLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grasp.log")
	log, closeLog, err := OpenLogger(config.LoggingConfig{Level: "info", File: path}, os.Stderr)
	require.NoError(t, err)
	log.Info().Msg("hello")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
}

func TestOpenLoggerWithCaller(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grasp.log")
	log, closeLog, err := OpenLogger(config.LoggingConfig{Level: "info", File: path, WithCaller: true}, os.Stderr)
	require.NoError(t, err)
	log.Info().Msg("hello")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"caller":`)
}
