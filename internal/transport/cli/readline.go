package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/shopdesk/internal/config"
	"github.com/sandevgo/shopdesk/internal/service/command"
	"github.com/sandevgo/shopdesk/internal/service/session"
	"github.com/sandevgo/shopdesk/internal/service/ui"
	"github.com/sandevgo/shopdesk/pkg/log"
)

const defaultSessionID = "cli-local"

type ReadLine struct {
	sessions *session.Manager
	router   *command.Router
	render   renderer
	rl       *readline.Instance
}

func NewReadLine(sessions *session.Manager, router *command.Router, cfg *config.AppConfig) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     cfg.GetHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		sessions: sessions,
		router:   router,
		render:   newRenderer(),
		rl:       rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	out := r.rl.Stdout()
	fmt.Fprintln(out, banner())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		reply, quit := r.handle(ctx, line)
		if reply != "" {
			fmt.Fprintf(out, "\n%s\n\n", reply)
		}
		if quit {
			return nil
		}
	}
}

// handle processes one input line and reports whether the loop should stop.
func (r *ReadLine) handle(ctx context.Context, line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	switch strings.ToLower(line) {
	case "quit", "exit", "bye":
		return command.GoodbyeReply, true
	case "reset":
		line = "/reset"
	case "help":
		return r.render(help()), false
	}

	if reply, ok := r.router.Execute(ctx, defaultSessionID, line); ok {
		return r.render(reply), false
	}

	h, err := r.sessions.GetOrCreate(ctx, defaultSessionID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to open session")
		return fmt.Sprintf("Error: %v\nPlease try again or type 'help' for assistance.", err), false
	}

	reply, err := h.Submit(ctx, line)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("turn failed")
		return fmt.Sprintf("Error: %v\nPlease try again or type 'help' for assistance.", err), false
	}
	return r.render(reply), false
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

func banner() string {
	return strings.Join([]string{
		ui.TitleStyle.Render("E-COMMERCE AI CUSTOMER SUPPORT"),
		command.Capabilities,
		"",
		ui.DescStyle.Render("Type 'quit', 'exit', or 'bye' to end the conversation."),
		ui.DescStyle.Render("Type 'reset' to start a new conversation."),
		ui.DescStyle.Render("Type 'help' for more information."),
	}, "\n")
}

func help() string {
	return command.Examples + `

**SPECIAL COMMANDS:**
  • quit/exit/bye - End the conversation
  • reset - Start a new conversation
  • help - Show this help message
  • /actions, /summary, /model - Inspect the catalog and configuration`
}
