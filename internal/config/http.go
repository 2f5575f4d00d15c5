package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/shopdesk/pkg/log"
)

type HTTPConfig struct {
	Addr          string   `env:"DESK_HTTP_ADDR" envDefault:":5000"`
	CORSOrigins   []string `env:"DESK_HTTP_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	SessionCookie string   `env:"DESK_SESSION_COOKIE" envDefault:"desk_session"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
