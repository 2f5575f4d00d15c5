package core

import "context"

type AIProvider interface {
	Chat(ctx context.Context, history []Message, tools []Tool) (Message, error)
	Models(ctx context.Context) ([]Model, error)
}
