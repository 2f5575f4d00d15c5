package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/shopdesk/pkg/log"
)

type RedisConfig struct {
	Addr     string        `env:"DESK_REDIS_ADDR" envDefault:"localhost:6379"`
	Password string        `env:"DESK_REDIS_PASSWORD"`
	DB       int           `env:"DESK_REDIS_DB" envDefault:"0"`
	Prefix   string        `env:"DESK_REDIS_PREFIX" envDefault:"shopdesk:session:"`
	TTL      time.Duration `env:"DESK_SESSION_TTL" envDefault:"24h"`
}

func NewRedisConfig(ctx context.Context) *RedisConfig {
	c := &RedisConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Redis config")
	}
	return c
}
