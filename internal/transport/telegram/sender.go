package telegram

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/deskpilot/internal/core"
	"github.com/sandevgo/deskpilot/pkg/conv"
	"github.com/sandevgo/deskpilot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

type replyFunc func(what interface{}, opts ...interface{}) error

type sender struct {
	reply replyFunc
}

func newSender(reply replyFunc) *sender {
	return &sender{reply: reply}
}

// send delivers one router reply. Generated markdown is rendered to
// Telegram HTML; a chunk Telegram refuses is resent as plain text.
func (s *sender) send(ctx context.Context, r core.Reply) error {
	if r.Format != core.FormatMarkdown {
		return s.sendPlain(ctx, r.Text)
	}

	logger := log.FromCtx(ctx)
	html := conv.MarkdownToTelegramHTML(r.Text)
	if html == "" {
		return s.sendPlain(ctx, r.Text)
	}

	for i, chunk := range splitText(html, maxTelegramMsgLen) {
		err := s.reply(chunk, tele.ModeHTML)
		if err == nil {
			continue
		}

		logger.Warn().Err(err).Int("chunk", i).Msg("telegram rejected html, falling back to plain text")
		if err := s.sendPlain(ctx, conv.TelegramHTMLToText(chunk)); err != nil {
			return err
		}
	}
	return nil
}

func (s *sender) sendPlain(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for i, chunk := range splitText(text, maxTelegramMsgLen) {
		if err := s.reply(chunk); err != nil {
			log.FromCtx(ctx).Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// splitText splits text into chunks of at most maxLen bytes, preferring
// newlines and never cutting a UTF-8 sequence.
func splitText(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if idx := strings.LastIndex(text[:cut], "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
