package config

import "time"

// Settings is everything the install wizard writes to the runtime .env file.
type Settings struct {
	TelegramToken   string        `env:"TELEGRAM_BOT_TOKEN"`
	ControlEndpoint string        `env:"PC_CONTROL_ENDPOINT"`
	ControlTimeout  time.Duration `env:"CONTROL_TIMEOUT"`
	OllamaBaseURL   string        `env:"OLLAMA_BASE_URL"`
	OllamaModel     string        `env:"OLLAMA_MODEL"`
}
