package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/joho/godotenv"
	"github.com/sandevgo/shopdesk/internal/config"
	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/internal/metrics"
	"github.com/sandevgo/shopdesk/internal/providers/llm"
	"github.com/sandevgo/shopdesk/internal/service/assistant"
	"github.com/sandevgo/shopdesk/internal/service/catalog"
	"github.com/sandevgo/shopdesk/internal/service/command"
	"github.com/sandevgo/shopdesk/internal/service/session"
	"github.com/sandevgo/shopdesk/internal/storage/memory"
	"github.com/sandevgo/shopdesk/internal/storage/redis"
	"github.com/sandevgo/shopdesk/internal/storage/sqlite"
	"github.com/sandevgo/shopdesk/internal/storage/sqlite/seed"
	"github.com/sandevgo/shopdesk/internal/transport/telegram"
	"github.com/sandevgo/shopdesk/internal/transport/web"
	"github.com/sandevgo/shopdesk/pkg/log"
	"github.com/sandevgo/shopdesk/pkg/srv"
)

// app is the conversation core shared by every front end.
type app struct {
	cfg         *config.AppConfig
	providerCfg *config.ProviderConfig
	db          *sql.DB
	recorder    *metrics.Recorder
	sessions    *session.Manager
	router      *command.Router

	// released on shutdown, after the front ends
	cleanups []srv.Service
}

// NewServices builds the core plus the long-running transports enabled in config.
func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)

	a := newApp(ctx)
	services := append([]srv.Service{}, a.cleanups...)

	transports, err := initTransports(ctx, a)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	if len(transports) == 0 {
		logger.Warn().Msg("no transports enabled, set DESK_ENABLE_HTTP or DESK_ENABLE_TELEGRAM")
	}
	return services
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	a := &app{
		cfg:         config.NewAppConfig(ctx),
		providerCfg: config.NewProviderConfig(ctx),
	}

	// 2. Catalog storage
	db, err := sqlite.NewDB(ctx, a.cfg.DBDriver, a.cfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	a.db = db
	a.cleanups = append(a.cleanups, srv.NewCleanup("db", db.Close))

	if a.cfg.SeedOnStart {
		seeded, err := seed.SeedIfEmpty(ctx, db)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed catalog")
		}
		if seeded {
			logger.Info().Msg("seeded empty catalog with sample data")
		}
	}

	executor := catalog.New(sqlite.NewCatalogRepo(db))

	// 3. Conversation state
	store, cleanup, err := initSessionStore(ctx, a.cfg, db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize session store")
	}
	if cleanup != nil {
		a.cleanups = append(a.cleanups, cleanup)
	}

	// 4. Metrics
	a.recorder = metrics.NewRecorder()

	// 5. AI Providers
	plannerAI, err := llm.NewProvider(ctx, a.providerCfg, a.providerCfg.GetModel())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}
	classifierAI, err := llm.NewProvider(ctx, a.providerCfg, a.providerCfg.GetClassifierModel())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize classifier provider")
	}

	// 6. Session engine
	engine := session.NewEngine(
		assistant.NewClassifier(classifierAI, a.recorder),
		assistant.NewPlanner(plannerAI, a.recorder),
		executor,
		session.WithMetrics(a.recorder),
		session.WithLLMTimeout(a.cfg.LLMTimeout),
	)
	a.sessions = session.NewManager(engine, store)

	// 7. Slash commands
	a.router = command.New(command.NewCommands(a.providerCfg, a.sessions, db))

	logger.Debug().
		Str("provider", a.providerCfg.GetProvider()).
		Str("model", a.providerCfg.GetModel()).
		Str("classifier_model", a.providerCfg.GetClassifierModel()).
		Str("sessions", a.cfg.SessionBackend).
		Msg("core initialized")

	return a
}

func initSessionStore(ctx context.Context, cfg *config.AppConfig, db *sql.DB) (core.SessionStore, srv.Service, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		redisCfg := config.NewRedisConfig(ctx)
		store := redis.New(redisCfg.Addr, redisCfg.Password, redisCfg.DB,
			redis.WithPrefix(redisCfg.Prefix),
			redis.WithTTL(redisCfg.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, srv.NewCleanup("redis", store.Close), nil
	case config.SessionBackendSQLite:
		return sqlite.NewSessionRepo(db), nil, nil
	default:
		return memory.NewSessionStore(), nil, nil
	}
}

func initTransports(ctx context.Context, a *app) ([]srv.Service, error) {
	var services []srv.Service

	// HTTP API
	if a.cfg.EnableHTTP {
		httpCfg := config.NewHTTPConfig(ctx)
		services = append(services, web.NewServer(ctx, httpCfg, a.sessions, a.recorder))
	}

	// Telegram Bot
	if a.cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.sessions, a.router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	envFile := config.GetEnvPath()

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
