package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/Organizer/internal/extract"
	"github.com/hray3182/Organizer/internal/format"
	"github.com/hray3182/Organizer/internal/models"
	"github.com/hray3182/Organizer/internal/repository"
	"github.com/hray3182/Organizer/internal/rrule"
)

func (h *Handlers) handleEventList(ctx context.Context, msg *tgbotapi.Message) {
	events, err := h.events.GetByChatID(ctx, msg.Chat.ID)
	if err != nil {
		h.logger.Error().Stack().Err(err).Int64("chat_id", msg.Chat.ID).Msg("failed to list events")
		h.sendMessage(msg.Chat.ID, "No pude obtener tus eventos, inténtalo más tarde")
		return
	}

	if len(events) == 0 {
		h.sendMessage(msg.Chat.ID, "📅 No tienes eventos guardados")
		return
	}

	var sb strings.Builder
	sb.WriteString("📅 " + format.Bold("Tus eventos") + "\n\n")
	for _, event := range events {
		sb.WriteString(fmt.Sprintf("%s %s\n", format.Code(fmt.Sprintf("#%d", event.EventID)), event.Title))
		sb.WriteString("   " + h.describeWhen(event) + "\n")
		if event.Description != "" {
			sb.WriteString("   📝 " + extract.Truncate(event.Description, 30) + "\n")
		}
		sb.WriteString("\n")
	}

	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) describeWhen(event *models.Event) string {
	if rule := event.RecurrenceRule(); rrule.IsRecurring(rule) {
		hour, minute, err := extract.ParseClock(event.Time)
		if err != nil {
			return "🔄 todos los días"
		}
		now := h.now()
		at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		return "🔄 " + rrule.HumanReadable(rule, at)
	}

	when := fmt.Sprintf("🕐 %s %s", event.Date, event.Time)
	if event.TriggerAt == nil {
		when += " (" + strings.ToLower(event.Status) + ")"
	}
	return when
}

func (h *Handlers) handleEventDelete(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimPrefix(strings.TrimSpace(msg.CommandArguments()), "#")
	eventID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || eventID <= 0 {
		h.sendMessage(msg.Chat.ID, "Uso: /borrar <número>\nEjemplo: /borrar 12")
		return
	}

	notFound := fmt.Sprintf("No encontré el evento %s", format.Code(fmt.Sprintf("#%d", eventID)))

	// Events of other chats are reported as missing.
	event, err := h.events.GetByID(ctx, eventID)
	if err == nil && event.ChatID != msg.Chat.ID {
		err = repository.ErrNotFound
	}
	if err == nil {
		err = h.events.Delete(ctx, eventID, msg.Chat.ID)
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.sendMessage(msg.Chat.ID, notFound)
	case err != nil:
		h.logger.Error().Stack().Err(err).Int64("event_id", eventID).Msg("failed to delete event")
		h.sendMessage(msg.Chat.ID, "No pude borrar el evento, inténtalo más tarde")
	default:
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("🗑️ Evento %s borrado: %s", format.Code(fmt.Sprintf("#%d", eventID)), event.Title))
	}
}
