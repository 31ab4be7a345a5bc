package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds connection settings shared by the OpenAI-backed providers.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
	BatchSize   int    `yaml:"batch_size,omitempty"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string        `yaml:"type"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures the sliding window used to split documents.
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Metric string        `yaml:"metric"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL              string `yaml:"url"`
	APIKey           string `yaml:"api_key"`
	CollectionPrefix string `yaml:"collection_prefix"`
	TimeoutSecs      int    `yaml:"timeout_secs"`
}

// RetrieverConfig controls how many chunks are fed to the model.
type RetrieverConfig struct {
	TopK int `yaml:"top_k"`
}

// LLMConfig configures the language model used to compose answers.
type LLMConfig struct {
	OpenAIConfig    `yaml:",inline"`
	Temperature     float64 `yaml:"temperature"`
	MaxContextChars int     `yaml:"max_context_chars"`
	SystemPrompt    string  `yaml:"system_prompt,omitempty"`
}

// SpeechConfig configures the speech-recognition provider.
type SpeechConfig struct {
	OpenAIConfig `yaml:",inline"`
	Language     string `yaml:"language,omitempty"`
}

// WebSourceConfig configures web page extraction.
type WebSourceConfig struct {
	Selectors   []string `yaml:"selectors"`
	UserAgent   string   `yaml:"user_agent"`
	TimeoutSecs int      `yaml:"timeout_secs"`
}

// APISourceConfig configures JSON API ingestion.
type APISourceConfig struct {
	Render      string `yaml:"render"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// DatabaseSourceConfig configures table ingestion.
type DatabaseSourceConfig struct {
	TimeoutSecs int `yaml:"timeout_secs"`
	MaxRows     int `yaml:"max_rows"`
}

// SourcesConfig groups per-adapter settings.
type SourcesConfig struct {
	Web      WebSourceConfig      `yaml:"web"`
	API      APISourceConfig      `yaml:"api"`
	Database DatabaseSourceConfig `yaml:"database"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// FeedbackConfig configures the feedback sink.
type FeedbackConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Pretty     bool   `yaml:"pretty"`
	WithCaller bool   `yaml:"with_caller"`
}

// MetricsConfig configures the observability endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Retriever   RetrieverConfig   `yaml:"retriever"`
	LLM         LLMConfig         `yaml:"llm"`
	Speech      SpeechConfig      `yaml:"speech"`
	Sources     SourcesConfig     `yaml:"sources"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Feedback    FeedbackConfig    `yaml:"feedback"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault tries ./grasp.yaml first, then ~/.config/grasp/config.yaml.
// If neither exists, it writes defaults to ~/.config/grasp/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "grasp.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings the pipeline cannot run with.
func (c *AppConfig) Validate() error {
	if c.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("chunker.chunk_size must be positive, got %d", c.Chunker.ChunkSize)
	}
	if c.Chunker.Overlap < 0 || c.Chunker.Overlap >= c.Chunker.ChunkSize {
		return fmt.Errorf("chunker.overlap must be in [0, chunk_size), got %d", c.Chunker.Overlap)
	}
	switch c.Embedder.Type {
	case "openai", "tfidf":
	default:
		return fmt.Errorf("unknown embedder: %s", c.Embedder.Type)
	}
	switch c.VectorStore.Type {
	case "memory":
	case "qdrant":
		if c.VectorStore.Qdrant == nil || c.VectorStore.Qdrant.URL == "" {
			return errors.New("vector_store.qdrant.url is required")
		}
	default:
		return fmt.Errorf("unknown vector store: %s", c.VectorStore.Type)
	}
	switch c.VectorStore.Metric {
	case "cosine", "l2":
	default:
		return fmt.Errorf("unknown similarity metric: %s", c.VectorStore.Metric)
	}
	if c.Retriever.TopK <= 0 {
		return fmt.Errorf("retriever.top_k must be positive, got %d", c.Retriever.TopK)
	}
	switch c.Sources.API.Render {
	case "flat", "pretty":
	default:
		return fmt.Errorf("unknown api render mode: %s", c.Sources.API.Render)
	}
	switch c.Summarizer.Type {
	case "frequency", "none":
	default:
		return fmt.Errorf("unknown summarizer: %s", c.Summarizer.Type)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "grasp", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyOpenAIDefaults(c *OpenAIConfig, model string) {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = 60
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIConfig{}
		}
		applyOpenAIDefaults(cfg.Embedder.OpenAI, "text-embedding-3-small")
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
		if cfg.Chunker.Overlap == 0 {
			cfg.Chunker.Overlap = 200
		}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Metric == "" {
		cfg.VectorStore.Metric = "l2"
	}
	if q := cfg.VectorStore.Qdrant; q != nil {
		if q.CollectionPrefix == "" {
			q.CollectionPrefix = "grasp"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = 4
	}
	applyOpenAIDefaults(&cfg.LLM.OpenAIConfig, "gpt-3.5-turbo-0125")
	if cfg.LLM.MaxContextChars == 0 {
		cfg.LLM.MaxContextChars = 12000
	}
	applyOpenAIDefaults(&cfg.Speech.OpenAIConfig, "whisper-1")
	if len(cfg.Sources.Web.Selectors) == 0 {
		cfg.Sources.Web.Selectors = []string{".mw-body-content", ".mw-headline"}
	}
	if cfg.Sources.Web.UserAgent == "" {
		cfg.Sources.Web.UserAgent = "grasp/1.0"
	}
	if cfg.Sources.Web.TimeoutSecs == 0 {
		cfg.Sources.Web.TimeoutSecs = 30
	}
	if cfg.Sources.API.Render == "" {
		cfg.Sources.API.Render = "flat"
	}
	if cfg.Sources.API.TimeoutSecs == 0 {
		cfg.Sources.API.TimeoutSecs = 30
	}
	if cfg.Sources.Database.TimeoutSecs == 0 {
		cfg.Sources.Database.TimeoutSecs = 30
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "frequency"
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 3
	}
	if cfg.Feedback.Path == "" {
		cfg.Feedback.Path = "feedback.txt"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = "grasp.log"
	}
}
