package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/hray3182/Organizer/internal/bot/handlers"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	handlers *handlers.Handlers
	logger   zerolog.Logger
}

func New(api *tgbotapi.BotAPI, h *handlers.Handlers, logger zerolog.Logger) *Bot {
	return &Bot{
		api:      api,
		handlers: h,
		logger:   logger,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Str("account", b.api.Self.UserName).Msg("authorized")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	sweep := time.NewTicker(handlers.PendingTTL)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sweep.C:
			if n := b.handlers.Pending().Sweep(); n > 0 {
				b.logger.Debug().Int("expired", n).Msg("dropped expired confirmations")
			}
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Stack().Err(errors.Errorf("panic: %v", r)).Int("update_id", update.UpdateID).Msg("recovered from panic in update handler")
		}
	}()

	if update.CallbackQuery != nil {
		b.handlers.HandleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if update.Message.IsCommand() {
		b.handlers.HandleCommand(ctx, update.Message)
		return
	}

	b.handlers.HandleMessage(ctx, update.Message)
}
