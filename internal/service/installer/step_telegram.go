package installer

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

// NewTelegramTokenStep collects the Telegram bot token
func NewTelegramTokenStep() Step {
	ti := newInput("123456789:ABCDEF...")
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	return &inputStep{
		prompt: "Enter your Telegram Bot Token:",
		hint:   "Create a bot with @BotFather to get one.",
		input:  ti,
		apply:  applyTelegramToken,
	}
}

func applyTelegramToken(value string, state *InstallState) error {
	if value == "" {
		return errors.New("the bot token is required")
	}
	if !strings.Contains(value, ":") {
		return errors.New("a bot token looks like 123456789:ABCDEF...")
	}
	state.Settings.TelegramToken = value
	return nil
}
