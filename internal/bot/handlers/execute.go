package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/hray3182/Organizer/internal/assistant"
	"github.com/hray3182/Organizer/internal/format"
	"github.com/hray3182/Organizer/internal/models"
	"github.com/hray3182/Organizer/internal/scheduler"
)

// Execute runs effect on behalf of chatID and returns the text to show.
func (h *Handlers) Execute(ctx context.Context, chatID int64, effect assistant.Effect) string {
	switch e := effect.(type) {
	case assistant.PersistEvent:
		return h.persistEvent(ctx, chatID, e.Event)
	case assistant.OpenDialer:
		return fmt.Sprintf("📞 Marca ahora: %s\n%s", format.Bold(e.Number), e.DialURL())
	case assistant.OpenContacts:
		if e.Name == "" {
			return "📇 Abre tu lista de contactos"
		}
		return fmt.Sprintf("📇 Busca a %s en tus contactos", format.Bold(e.Name))
	case assistant.OpenMap:
		return "🗺️ " + e.MapURL()
	case assistant.OpenBrowser:
		url := e.URL
		if url == "" {
			url = assistant.SearchURL(e.Query)
		}
		return "🌐 " + url
	default:
		h.logger.Warn().Str("effect", fmt.Sprintf("%T", effect)).Msg("unsupported effect")
		return "No sé cómo hacer eso todavía."
	}
}

// persistEvent computes the trigger first so an event whose time already
// passed is never stored.
func (h *Handlers) persistEvent(ctx context.Context, chatID int64, event models.Event) string {
	log := h.logger.With().Int64("chat_id", chatID).Str("title", event.Title).Logger()
	event.ChatID = chatID

	trig, err := h.sched.Trigger(&event)
	if errors.Is(err, scheduler.ErrTooLate) {
		return fmt.Sprintf("⌛ %s ya pasó, no lo guardé.", format.Bold(event.Title))
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to compute trigger")
		return "❌ No entendí la fecha u hora, ¿puedes repetirlo?"
	}
	event.TriggerAt = &trig.TriggerAt

	if err := h.events.Create(ctx, &event); err != nil {
		log.Error().Stack().Err(err).Msg("failed to create event")
		return "❌ No pude guardarlo, inténtalo más tarde."
	}
	h.sched.Notify()

	log.Info().Int64("event_id", event.EventID).Time("trigger_at", trig.TriggerAt).Msg("event stored")
	return fmt.Sprintf("✅ Guardado %s %s\n⏰ Te aviso el %s",
		format.Code(fmt.Sprintf("#%d", event.EventID)),
		format.Bold(event.Title),
		trig.TriggerAt.Format("02/01/2006 a las 15:04"),
	)
}
