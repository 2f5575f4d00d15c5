package command

import (
	"database/sql"

	"github.com/sandevgo/shopdesk/internal/config"
	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/internal/service/session"
)

// NewCommands builds the slash commands shared by the chat transports.
func NewCommands(
	cfg *config.ProviderConfig,
	sessions *session.Manager,
	db *sql.DB,
) []core.Command {
	commands := []core.Command{
		NewResetCommand(sessions),
		NewActionsCommand(),
		NewSummaryCommand(db),
		NewModelCommand(cfg),
	}
	return append(commands, NewHelpCommand(commands))
}
