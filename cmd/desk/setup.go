package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/deskpilot/internal/config"
	"github.com/sandevgo/deskpilot/internal/core"
	"github.com/sandevgo/deskpilot/internal/providers/control"
	"github.com/sandevgo/deskpilot/internal/providers/llm"
	"github.com/sandevgo/deskpilot/internal/service/command"
	"github.com/sandevgo/deskpilot/internal/storage/sqlite"
	"github.com/sandevgo/deskpilot/internal/transport/telegram"
	"github.com/sandevgo/deskpilot/pkg/log"
	"github.com/sandevgo/deskpilot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration. The token is checked first so a missing one fails
	// before anything else is built.
	tgCfg := config.NewTelegramConfig(ctx)
	appCfg := config.NewAppConfig(ctx)

	// 2. Router with its backends
	router, db := newRouter(ctx, appCfg)
	if db != nil {
		services = append(services, srv.NewCleanup(db.Close))
	}

	// 3. Transport
	bot, err := telegram.NewBot(ctx, tgCfg, router)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	services = append(services, bot)

	return services
}

// newRouter wires the control facade and the optional generator. The
// returned db is nil when the journal is disabled.
func newRouter(ctx context.Context, appCfg *config.AppConfig) (*command.Router, *sql.DB) {
	logger := log.FromCtx(ctx)

	var (
		db   *sql.DB
		opts []control.Option
	)

	ctrlCfg := config.NewControlConfig(ctx)
	opts = append(opts, control.WithTimeout(ctrlCfg.Timeout), control.WithEndpoint(ctrlCfg.Endpoint))

	if appCfg.JournalEnabled {
		var err error
		db, err = initStorage(ctx, appCfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		opts = append(opts, control.WithRecorder(sqlite.NewJournal(db)))
	}

	facade := control.NewFacade(initDispatcher(ctx, ctrlCfg), opts...)
	return command.NewRouter(facade, initGenerator(ctx)), db
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, error) {
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, err
	}
	return sqlite.NewDB(ctx, cfg.GetDatabasePath())
}

func initDispatcher(ctx context.Context, cfg *config.ControlConfig) control.Dispatcher {
	logger := log.FromCtx(ctx)

	if !cfg.IsRemote() {
		logger.Info().Msg("no control endpoint configured, commands are only logged")
		return control.NewEcho()
	}

	mcp, err := control.NewMCP(cfg.Endpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize control endpoint")
	}
	logger.Info().Str("endpoint", cfg.Endpoint).Msg("using MCP control endpoint")
	return mcp
}

// initGenerator returns a nil interface, not a nil *llm.Ollama, when
// generation is off.
func initGenerator(ctx context.Context) core.Generator {
	logger := log.FromCtx(ctx)
	cfg := config.NewOllamaConfig(ctx)

	if !cfg.IsEnabled() {
		logger.Info().Msg("OLLAMA_MODEL not set, generation disabled")
		return nil
	}

	logger.Info().Str("model", cfg.Model).Str("base_url", cfg.BaseURL).Msg("generation enabled")
	return llm.NewOllama(cfg.BaseURL, cfg.Model)
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
