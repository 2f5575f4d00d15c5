package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/shopdesk/pkg/log"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendSQLite = "sqlite"
)

type AppConfig struct {
	RuntimePath string `env:"DESK_RUNTIME_PATH" envDefault:".shopdesk"`

	// Storage
	DBDriver    string `env:"DESK_DB_DRIVER" envDefault:"sqlite3"`
	SeedOnStart bool   `env:"DESK_SEED_ON_START" envDefault:"true"`

	// Transport Flags
	EnableHTTP     bool `env:"DESK_ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool `env:"DESK_ENABLE_TELEGRAM" envDefault:"false"`

	SessionBackend string `env:"DESK_SESSION_BACKEND" envDefault:"memory"`

	// Upper bound for a single classifier or planner call
	LLMTimeout time.Duration `env:"DESK_LLM_TIMEOUT" envDefault:"60s"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "shopdesk.db")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) UseRedisSessions() bool {
	return c.SessionBackend == SessionBackendRedis
}
