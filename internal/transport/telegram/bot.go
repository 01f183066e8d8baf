package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/deskpilot/internal/config"
	"github.com/sandevgo/deskpilot/internal/core"
	"github.com/sandevgo/deskpilot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Router interface {
	Reply(ctx context.Context, msg core.IncomingMessage) core.Reply
	Commands() []core.CommandSpec
}

type Bot struct {
	bot    *tele.Bot
	router Router
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	router Router,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram handler error")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:    b,
		router: router,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	if err := b.bot.SetCommands(menu(b.router.Commands())); err != nil {
		logger.Warn().Err(err).Msg("failed to register telegram command menu")
	}

	logger.Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx, ok := c.Get(baseContextKey).(context.Context)
	if !ok {
		ctx = context.Background()
	}

	msg := core.IncomingMessage{
		Text:     c.Text(),
		SenderID: senderID(c),
	}

	_ = c.Notify(tele.Typing)

	reply := b.router.Reply(ctx, msg)
	return newSender(c.Reply).send(ctx, reply)
}

func senderID(c tele.Context) string {
	if u := c.Sender(); u != nil {
		return strconv.FormatInt(u.ID, 10)
	}
	if ch := c.Chat(); ch != nil {
		return strconv.FormatInt(ch.ID, 10)
	}
	return ""
}

// menu maps the router vocabulary to Telegram's command list.
func menu(specs []core.CommandSpec) []tele.Command {
	out := make([]tele.Command, 0, len(specs))
	for _, s := range specs {
		desc := s.Description
		if s.ArgHint != "" {
			desc = fmt.Sprintf("%s %s", desc, s.ArgHint)
		}
		out = append(out, tele.Command{
			Text:        strings.TrimPrefix(string(s.Name), "/"),
			Description: desc,
		})
	}
	return out
}
