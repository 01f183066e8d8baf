package control

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/deskpilot/internal/core"
	"github.com/sandevgo/deskpilot/pkg/log"
)

const (
	CommandOpenApplication   = "open_application"
	CommandRunShellCommand   = "run_shell_command"
	CommandCaptureScreenshot = "capture_screenshot"

	DefaultTimeout = 10 * time.Second
	recordTimeout  = 2 * time.Second
)

// Envelope is what a Dispatcher hands to the remote desktop.
type Envelope struct {
	ID       string            `json:"id"`
	Command  string            `json:"command"`
	Payload  map[string]string `json:"payload"`
	Endpoint string            `json:"endpoint,omitempty"`
}

// Dispatcher delivers an envelope. A nil error means the remote side accepted
// the command for processing.
type Dispatcher interface {
	Dispatch(ctx context.Context, env Envelope) error
}

// Recorder keeps an audit trail of dispatches.
type Recorder interface {
	Record(ctx context.Context, id string, result core.CommandResult) error
}

var _ core.Controller = (*Facade)(nil)

// Facade turns named desktop actions into dispatches and normalises every
// outcome into a CommandResult. A dispatch error becomes StatusError; it is
// never returned to the caller.
type Facade struct {
	dispatcher Dispatcher
	recorder   Recorder
	endpoint   string
	timeout    time.Duration
}

type Option func(*Facade)

func WithRecorder(r Recorder) Option {
	return func(f *Facade) {
		f.recorder = r
	}
}

// WithEndpoint stamps envelopes with the configured control endpoint.
func WithEndpoint(endpoint string) Option {
	return func(f *Facade) {
		f.endpoint = endpoint
	}
}

func WithTimeout(d time.Duration) Option {
	return func(f *Facade) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func NewFacade(dispatcher Dispatcher, opts ...Option) *Facade {
	f := &Facade{
		dispatcher: dispatcher,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Facade) OpenApplication(ctx context.Context, name string) core.CommandResult {
	return f.send(ctx, CommandOpenApplication, map[string]string{"application": name})
}

func (f *Facade) RunShellCommand(ctx context.Context, command string) core.CommandResult {
	return f.send(ctx, CommandRunShellCommand, map[string]string{"command": command})
}

func (f *Facade) CaptureScreenshot(ctx context.Context) core.CommandResult {
	return f.send(ctx, CommandCaptureScreenshot, map[string]string{})
}

func (f *Facade) send(ctx context.Context, command string, payload map[string]string) core.CommandResult {
	env := Envelope{
		ID:       uuid.NewString(),
		Command:  command,
		Payload:  payload,
		Endpoint: f.endpoint,
	}

	logger := log.FromCtx(ctx).With().
		Str("dispatch_id", env.ID).
		Str("command", command).
		Logger()

	result := core.CommandResult{
		Status:  core.StatusQueued,
		Command: command,
		Payload: copyPayload(payload),
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	err := f.dispatcher.Dispatch(dispatchCtx, env)
	cancel()

	if err != nil {
		logger.Error().Err(err).Msg("control dispatch failed")
		result.Status = core.StatusError
	} else {
		logger.Info().Msg("control command queued")
	}

	if f.recorder != nil {
		// the dispatch deadline may be spent, the journal write gets its own
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		if err := f.recorder.Record(recCtx, env.ID, result); err != nil {
			logger.Warn().Err(err).Msg("failed to record dispatch")
		}
		cancel()
	}

	return result
}

func copyPayload(p map[string]string) map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
