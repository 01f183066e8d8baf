package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/deskpilot/internal/core"
	"github.com/sandevgo/deskpilot/pkg/log"
)

// Router turns one inbound message into exactly one reply. It holds only
// read-only configuration and the two backend handles, so it is safe for
// concurrent use without locking.
type Router struct {
	cfg        core.RouterConfig
	controller core.Controller
	generator  core.Generator
}

// NewRouter builds the router. A nil generator disables the generation
// fallback; free text then gets the static "not understood" reply.
func NewRouter(controller core.Controller, generator core.Generator) *Router {
	commands := make([]core.CommandSpec, len(vocabulary))
	copy(commands, vocabulary)

	return &Router{
		cfg: core.RouterConfig{
			Commands:          commands,
			GenerationEnabled: generator != nil,
		},
		controller: controller,
		generator:  generator,
	}
}

// Handle returns the reply text for msg. It never fails.
func (r *Router) Handle(ctx context.Context, msg core.IncomingMessage) string {
	return r.Reply(ctx, msg).Text
}

// Reply is Handle plus the format the transport should send the text in.
func (r *Router) Reply(ctx context.Context, msg core.IncomingMessage) (reply core.Reply) {
	logger := log.FromCtx(ctx).With().Str("sender", msg.SenderID).Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Interface("panic", rec).Msg("message handling panicked")
			reply = core.Reply{Text: ReplyUnavailable}
		}
	}()

	cmd, ok := Parse(msg.Text)
	if !ok {
		return r.freeText(ctx, msg.Text)
	}

	logger.Debug().Str("command", string(cmd.Name)).Msg("command received")

	switch cmd.Name {
	case core.CmdStart, core.CmdHelp:
		return plain(ReplyHelp)
	case core.CmdOpen:
		return r.open(ctx, cmd)
	case core.CmdShell:
		return r.shell(ctx, cmd)
	case core.CmdScreenshot:
		return r.screenshot(ctx)
	}

	// unreachable while Parse and the switch list the same names
	return r.freeText(ctx, msg.Text)
}

func (r *Router) Commands() []core.CommandSpec {
	out := make([]core.CommandSpec, len(r.cfg.Commands))
	copy(out, r.cfg.Commands)
	return out
}

func (r *Router) Config() core.RouterConfig {
	return core.RouterConfig{
		Commands:          r.Commands(),
		GenerationEnabled: r.cfg.GenerationEnabled,
	}
}

func (r *Router) open(ctx context.Context, cmd core.ParsedCommand) core.Reply {
	if isBlank(cmd.Argument) {
		return plain(ReplyOpenUsage)
	}

	res := r.controller.OpenApplication(ctx, cmd.Argument)
	logDispatch(ctx, res)
	if !res.Queued() {
		return plain(fmt.Sprintf(openFailedTmpl, cmd.Argument, res.Status))
	}
	return plain(fmt.Sprintf(openQueuedTmpl, cmd.Argument, res.Status))
}

func (r *Router) shell(ctx context.Context, cmd core.ParsedCommand) core.Reply {
	if isBlank(cmd.Argument) {
		return plain(ReplyShellUsage)
	}

	res := r.controller.RunShellCommand(ctx, cmd.Argument)
	logDispatch(ctx, res)
	if !res.Queued() {
		return plain(fmt.Sprintf(shellFailedTmpl, res.Status))
	}
	return plain(fmt.Sprintf(shellQueuedTmpl, res.Status))
}

func (r *Router) screenshot(ctx context.Context) core.Reply {
	res := r.controller.CaptureScreenshot(ctx)
	logDispatch(ctx, res)
	if !res.Queued() {
		return plain(fmt.Sprintf(screenshotFailedTmpl, res.Status))
	}
	return plain(fmt.Sprintf(screenshotQueuedTmpl, res.Status))
}

func (r *Router) freeText(ctx context.Context, text string) core.Reply {
	if r.generator == nil {
		return plain(ReplyNotUnderstood)
	}

	out := r.generator.Generate(ctx, text, nil)
	if !out.Ok() {
		log.FromCtx(ctx).Error().
			Err(out.Err()).
			Str("kind", string(out.Kind())).
			Msg("generation failed")
		return plain(ReplyUnavailable)
	}

	reply := strings.TrimSpace(out.Text())
	if reply == "" {
		return plain(ReplyNoIdea)
	}
	return core.Reply{Text: reply, Format: core.FormatMarkdown}
}

func logDispatch(ctx context.Context, res core.CommandResult) {
	log.FromCtx(ctx).Info().
		Str("command", res.Command).
		Str("status", string(res.Status)).
		Msg("control command dispatched")
}

func plain(text string) core.Reply {
	return core.Reply{Text: text, Format: core.FormatPlain}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
