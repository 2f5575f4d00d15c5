package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/shopdesk/internal/service/catalog"
)

type ActionsCommand struct {
	formatter *ResponseFormatter
}

func NewActionsCommand() *ActionsCommand {
	return &ActionsCommand{formatter: NewResponseFormatter()}
}

func (c *ActionsCommand) Name() string {
	return "actions"
}

func (c *ActionsCommand) Description() string {
	return "List the catalog actions"
}

func (c *ActionsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	var reads, writes []string
	for _, d := range catalog.Descriptors() {
		line := fmt.Sprintf("`%s`", d.Name)
		if d.Kind == catalog.KindRead {
			reads = append(reads, line)
		} else {
			writes = append(writes, line)
		}
	}

	return c.formatter.Combine(
		c.formatter.Info("Catalog Actions"),
		c.formatter.Section("Read", reads),
		"",
		c.formatter.Section("Needs confirmation", writes),
	), nil
}
