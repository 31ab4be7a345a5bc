package config

import (
	"fmt"
	"os"
)

// Credentials are the provider secrets resolved once at startup.
type Credentials struct {
	EmbedderAPIKey string
	LLMAPIKey      string
	SpeechAPIKey   string
}

// ResolveCredentials reads every API key named in cfg from the environment.
// A missing key is only an error for a provider that is actually configured.
func ResolveCredentials(cfg *AppConfig) (Credentials, error) {
	return resolveCredentials(cfg, os.Getenv)
}

func resolveCredentials(cfg *AppConfig, getenv func(string) string) (Credentials, error) {
	var creds Credentials
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		key := getenv(cfg.Embedder.OpenAI.APIKeyEnv)
		if key == "" {
			return Credentials{}, fmt.Errorf("missing API key in env %s", cfg.Embedder.OpenAI.APIKeyEnv)
		}
		creds.EmbedderAPIKey = key
	}
	creds.LLMAPIKey = getenv(cfg.LLM.APIKeyEnv)
	if creds.LLMAPIKey == "" {
		return Credentials{}, fmt.Errorf("missing API key in env %s", cfg.LLM.APIKeyEnv)
	}
	// Speech is only needed by the audio page; an absent key surfaces there as a recognition error.
	creds.SpeechAPIKey = getenv(cfg.Speech.APIKeyEnv)
	return creds, nil
}
