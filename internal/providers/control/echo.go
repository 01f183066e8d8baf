package control

import (
	"context"

	"github.com/sandevgo/deskpilot/pkg/log"
)

// Echo is the dispatcher used when no control endpoint is configured. It
// logs the envelope and acknowledges it locally.
type Echo struct{}

func NewEcho() *Echo {
	return &Echo{}
}

func (e *Echo) Dispatch(ctx context.Context, env Envelope) error {
	log.FromCtx(ctx).Info().Interface("envelope", env).Msg("control echo: sending")
	return nil
}
