package command

import (
	"context"

	"github.com/sandevgo/shopdesk/internal/service/session"
)

type ResetCommand struct {
	sessions  *session.Manager
	formatter *ResponseFormatter
}

func NewResetCommand(sessions *session.Manager) *ResetCommand {
	return &ResetCommand{
		sessions:  sessions,
		formatter: NewResponseFormatter(),
	}
}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Description() string {
	return "Start a new conversation"
}

func (c *ResetCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	h, err := c.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if err := h.Reset(ctx); err != nil {
		return "", err
	}
	return c.formatter.Success(ResetReply), nil
}
