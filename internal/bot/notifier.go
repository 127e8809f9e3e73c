package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/Organizer/internal/bot/handlers"
	"github.com/hray3182/Organizer/internal/extract"
	"github.com/hray3182/Organizer/internal/format"
	"github.com/hray3182/Organizer/internal/models"
	"github.com/hray3182/Organizer/internal/rrule"
)

// Notifier sends due reminders to their chat.
type Notifier struct {
	api handlers.Sender
}

func NewNotifier(api handlers.Sender) *Notifier {
	return &Notifier{api: api}
}

func (n *Notifier) NotifyEvent(_ context.Context, event *models.Event) error {
	parsed := format.ParseMarkdown(n.ReminderText(event))
	msg := tgbotapi.NewMessage(event.ChatID, parsed.Text)
	msg.Entities = parsed.Entities
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder for event %d: %w", event.EventID, err)
	}
	return nil
}

// ReminderText renders the message for a due event.
func (n *Notifier) ReminderText(event *models.Event) string {
	var sb strings.Builder

	switch {
	case event.IsDaily():
		sb.WriteString("🔔 " + format.Bold(event.Title) + "\n")
		sb.WriteString("🔄 " + n.recurrence(event))
	case event.Type == models.EventTypeAppointment:
		sb.WriteString("⏰ " + format.Bold("Recordatorio de cita") + "\n")
		sb.WriteString("📅 " + event.Title + "\n")
		sb.WriteString(fmt.Sprintf("🕐 %s a las %s", event.Date, event.Time))
		if event.ReminderLeadMinutes > 0 {
			sb.WriteString(fmt.Sprintf(" (en %d minutos)", event.ReminderLeadMinutes))
		}
	default:
		sb.WriteString("🔔 " + format.Bold(event.Title) + "\n")
		sb.WriteString(fmt.Sprintf("🕐 %s a las %s", event.Date, event.Time))
	}

	if event.Description != "" && event.Description != event.Title {
		sb.WriteString("\n📝 " + extract.Truncate(event.Description, 100))
	}
	sb.WriteString("\n" + format.Code(fmt.Sprintf("#%d", event.EventID)))
	return sb.String()
}

func (n *Notifier) recurrence(event *models.Event) string {
	rule := event.RecurrenceRule()
	hour, minute, err := extract.ParseClock(event.Time)
	if err != nil || !rrule.IsRecurring(rule) {
		return "todos los días"
	}
	at := time.Date(2000, time.January, 1, hour, minute, 0, 0, time.UTC)
	return rrule.HumanReadable(rule, at)
}
