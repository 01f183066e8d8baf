package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/deskpilot/pkg/log"
)

const DefaultControlTimeout = 10 * time.Second

type ControlConfig struct {
	// Empty means the local echo backend is used
	Endpoint string        `env:"PC_CONTROL_ENDPOINT"`
	Timeout  time.Duration `env:"CONTROL_TIMEOUT" envDefault:"10s"`
}

func ParseControlConfig() (*ControlConfig, error) {
	c := &ControlConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}

func NewControlConfig(ctx context.Context) *ControlConfig {
	c, err := ParseControlConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Control config")
	}
	return c
}

func (c ControlConfig) IsRemote() bool {
	return c.Endpoint != ""
}
