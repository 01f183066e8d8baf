package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/deskpilot/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`
}

func ParseTelegramConfig() (*TelegramConfig, error) {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}

// NewTelegramConfig exits the process when the bot token is missing.
func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c, err := ParseTelegramConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}
