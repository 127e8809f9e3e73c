package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/hray3182/Organizer/internal/assistant"
	"github.com/hray3182/Organizer/internal/format"
	"github.com/hray3182/Organizer/internal/intent"
	"github.com/hray3182/Organizer/internal/models"
	"github.com/hray3182/Organizer/internal/scheduler"
)

// Sender is the part of *tgbotapi.BotAPI the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Interpreter turns an utterance into an Action.
type Interpreter interface {
	Classify(ctx context.Context, u intent.Utterance) assistant.Action
}

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, eventID int64) (*models.Event, error)
	GetByChatID(ctx context.Context, chatID int64) ([]*models.Event, error)
	Delete(ctx context.Context, eventID, chatID int64) error
}

// Scheduler computes triggers and wakes the delivery loop.
type Scheduler interface {
	Trigger(event *models.Event) (scheduler.ScheduledTrigger, error)
	Notify()
}

type Handlers struct {
	api         Sender
	interpreter Interpreter
	events      EventStore
	sched       Scheduler
	pending     *PendingStore
	now         func() time.Time
	logger      zerolog.Logger
	devMode     bool
}

type Option func(*Handlers)

func WithClock(now func() time.Time) Option {
	return func(h *Handlers) {
		if now != nil {
			h.now = now
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(h *Handlers) { h.logger = l }
}

// WithDevMode echoes the classified category and parameters after every reply.
func WithDevMode(on bool) Option {
	return func(h *Handlers) { h.devMode = on }
}

func New(api Sender, interpreter Interpreter, events EventStore, sched Scheduler, opts ...Option) *Handlers {
	h := &Handlers{
		api:         api,
		interpreter: interpreter,
		events:      events,
		sched:       sched,
		now:         time.Now,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.pending = NewPendingStore(PendingTTL, h.now)
	return h
}

// Pending exposes the confirmation store so the bot can sweep it.
func (h *Handlers) Pending() *PendingStore {
	return h.pending
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(msg)
	case "help", "ayuda":
		h.sendMessage(msg.Chat.ID, helpMessage)
	case "agenda", "eventos":
		h.handleEventList(ctx, msg)
	case "borrar":
		h.handleEventDelete(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "Comando desconocido, usa /help para ver los comandos disponibles")
	}
}

func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if strings.TrimSpace(msg.Text) == "" {
		h.sendMessage(msg.Chat.ID, "Por ahora solo entiendo mensajes de texto.")
		return
	}
	h.handleUtterance(ctx, msg, intent.Utterance{Text: msg.Text, Modality: intent.ModalityText})
}

func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Answer callback to remove loading state
	answer := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.api.Request(answer); err != nil {
		h.logger.Error().Stack().Err(err).Msg("failed to answer callback")
	}
	if callback.Message == nil {
		return
	}

	// Callback data: "confirm:<userID>:<nonce>" or "cancel:<userID>:<nonce>"
	parts := strings.Split(callback.Data, ":")
	if len(parts) != 3 {
		return
	}
	action := parts[0]
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return
	}
	nonce, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return
	}

	if callback.From == nil || callback.From.ID != userID {
		h.answerCallbackWithAlert(callback.ID, "Esta confirmación no es tuya")
		return
	}

	chatID, messageID := callback.Message.Chat.ID, callback.Message.MessageID
	pending, ok := h.pending.Take(userID, nonce)
	if !ok {
		h.editMessageText(chatID, messageID, "⏰ La confirmación expiró")
		return
	}

	switch action {
	case "confirm":
		result := h.Execute(ctx, pending.ChatID, pending.Effect)
		h.editMessageText(chatID, messageID, result)
	case "cancel":
		h.editMessageText(chatID, messageID, "❌ Operación cancelada")
	}
}

func (h *Handlers) answerCallbackWithAlert(callbackID string, text string) {
	answer := tgbotapi.NewCallbackWithAlert(callbackID, text)
	if _, err := h.api.Request(answer); err != nil {
		h.logger.Error().Stack().Err(err).Msg("failed to answer callback with alert")
	}
}

func (h *Handlers) editMessageText(chatID int64, messageID int, text string) {
	parsed := format.ParseMarkdown(text)
	edit := tgbotapi.NewEditMessageText(chatID, messageID, parsed.Text)
	edit.Entities = parsed.Entities
	if _, err := h.api.Send(edit); err != nil {
		h.logger.Error().Stack().Err(err).Int64("chat_id", chatID).Msg("failed to edit message")
	}
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	h.send(chatID, text, nil)
}

func (h *Handlers) send(chatID int64, text string, markup any) {
	parsed := format.ParseMarkdown(text)
	msg := tgbotapi.NewMessage(chatID, parsed.Text)
	msg.Entities = parsed.Entities
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Error().Stack().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

const helpMessage = `📖 **Comandos**

/agenda - Ver tus citas y recordatorios
/borrar <número> - Borrar un evento
/help - Mostrar esta ayuda

💡 También puedes escribirme con naturalidad, por ejemplo:
• "Agendar cita con el doctor mañana a las 10:00"
• "Recordatorio diario para tomar la medicina a las 8:00"
• "¿Cómo llego al hospital?"
• "Buscar información sobre volcanes"`

func (h *Handlers) handleStart(msg *tgbotapi.Message) {
	greeting := "👋 ¡Hola!"
	if msg.From != nil && msg.From.FirstName != "" {
		greeting = fmt.Sprintf("👋 ¡Hola %s!", msg.From.FirstName)
	}
	h.sendMessage(msg.Chat.ID, greeting+"\n\nSoy tu asistente personal. Puedo agendar citas, "+
		"crear recordatorios, buscar lugares, contactos e información.\n\nUsa /help para ver ejemplos.")
}
