package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/shopdesk/internal/config"
	"github.com/sandevgo/shopdesk/internal/service/command"
	"github.com/sandevgo/shopdesk/internal/service/session"
	"github.com/sandevgo/shopdesk/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot      *tele.Bot
	sender   *sender
	sessions *session.Manager
	router   *command.Router
	ownerID  int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	sessions *session.Manager,
	router *command.Router,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		sender:   newSender(b),
		sessions: sessions,
		router:   router,
		ownerID:  cfg.OwnerID,
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Only the owner may talk to the store
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")

	menu := make([]tele.Command, 0)
	for _, cmd := range b.router.ListCommands() {
		menu = append(menu, tele.Command{Text: cmd.Name(), Description: cmd.Description()})
	}
	if err := b.bot.SetCommands(menu); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to register telegram commands")
	}

	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func sessionID(c tele.Context) string {
	return fmt.Sprintf("telegram-%d", c.Chat().ID)
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	return b.sender.sendMarkdown(ctx, c.Chat(), command.Capabilities+"\n\nSend /help for examples.", false)
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := log.WithFields(c.Get(baseContextKey).(context.Context), "transport", "telegram")
	logger := log.FromCtx(ctx)
	id := sessionID(c)

	if reply, ok := b.router.Execute(ctx, id, c.Text()); ok {
		return b.sender.sendMarkdown(ctx, c.Chat(), reply, true)
	}

	_ = c.Notify(tele.Typing)

	h, err := b.sessions.GetOrCreate(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open session")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	reply, err := h.Submit(ctx, c.Text())
	if err != nil {
		logger.Error().Err(err).Msg("turn failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	return b.sender.sendMarkdown(ctx, c.Chat(), reply, false)
}
