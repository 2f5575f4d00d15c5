package core

import "context"

// Command is a slash command handled by a transport without going through the model.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
