package command

import (
	"context"

	"github.com/sandevgo/shopdesk/internal/config"
)

type ModelCommand struct {
	cfg       *config.ProviderConfig
	formatter *ResponseFormatter
}

func NewModelCommand(cfg *config.ProviderConfig) *ModelCommand {
	return &ModelCommand{
		cfg:       cfg,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show the configured models"
}

func (c *ModelCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	return c.formatter.Combine(
		c.formatter.Info("Current Model"),
		c.formatter.Label("Provider", c.cfg.GetProvider()),
		c.formatter.Label("Planner", c.cfg.GetModel()),
		c.formatter.Label("Classifier", c.cfg.GetClassifierModel()),
	), nil
}
