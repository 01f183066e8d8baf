package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/deskpilot/pkg/log"
)

const DefaultOllamaBaseURL = "http://localhost:11434"

type OllamaConfig struct {
	// Generation is disabled when Model is empty
	Model   string `env:"OLLAMA_MODEL"`
	BaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
}

func ParseOllamaConfig() (*OllamaConfig, error) {
	c := &OllamaConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}

func NewOllamaConfig(ctx context.Context) *OllamaConfig {
	c, err := ParseOllamaConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Ollama config")
	}
	return c
}

func (c OllamaConfig) IsEnabled() bool {
	return c.Model != ""
}
