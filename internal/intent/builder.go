package intent

import (
	"strings"
	"time"

	"github.com/hray3182/Organizer/internal/extract"
)

const (
	// DefaultReminderTime is used when a reminder names no time of day.
	DefaultReminderTime = "09:00"
	// DefaultEmergencyNumber is dialled when no number is configured.
	DefaultEmergencyNumber = "911"

	maxTitleRunes = 30
	maxQueryRunes = 100
)

var explainPhrases = []string{
	"qué es", "qué son", "quién es", "quién fue", "cómo funciona", "explícame", "explica",
	"what is", "who is", "how does",
}

// builder turns raw text into typed params. Every field always ends up with
// a usable value.
type builder struct {
	now             func() time.Time
	emergencyNumber string
}

func (b builder) build(category Category, text string) Params {
	switch category {
	case Agenda:
		return b.agenda(text, "")
	case Reminder:
		return b.reminder(text, "")
	case Location:
		return LocationParams{Destination: extract.Destination(text)}
	case Contact:
		return ContactParams{Name: extract.ContactName(text)}
	case Emergency:
		return EmergencyParams{Number: b.number()}
	case Search:
		return b.search(text, "")
	default:
		return ChatParams{}
	}
}

// agenda resolves title, date and time. A missing time becomes one hour from
// now; a missing date becomes the date of that fallback instant when no time
// was given either, and today otherwise.
func (b builder) agenda(text, title string) AgendaParams {
	now := b.now()
	fallback := now.Add(time.Hour)

	tm, timeOK := extract.Time(text)
	if !timeOK {
		tm = fallback.Format(extract.TimeLayout)
	}
	date, dateOK := extract.Date(text, now)
	if !dateOK {
		ref := now
		if !timeOK {
			ref = fallback
		}
		date = time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	}
	if title == "" {
		title = agendaTitle(text)
	}
	return AgendaParams{Title: title, Description: text, Date: date, Time: tm}
}

// reminder is daily unless the text names a date.
func (b builder) reminder(text, title string) ReminderParams {
	tm, ok := extract.Time(text)
	if !ok {
		tm = DefaultReminderTime
	}
	date, _ := extract.Date(text, b.now())
	if title == "" {
		title = reminderTitle(text)
	}
	return ReminderParams{Title: title, Description: text, Date: date, Time: tm}
}

func (b builder) search(text, query string) SearchParams {
	if query == "" {
		query = extract.SearchQuery(text)
	}
	return SearchParams{
		Query:   extract.Truncate(strings.TrimSpace(query), maxQueryRunes),
		Explain: extract.HasAnyPhrase(extract.Normalize(text), explainPhrases...),
	}
}

func (b builder) number() string {
	if b.emergencyNumber == "" {
		return DefaultEmergencyNumber
	}
	return b.emergencyNumber
}

func agendaTitle(text string) string {
	folded := extract.Fold(text)
	switch {
	case strings.Contains(folded, "cita medica"):
		return "Cita Médica"
	case strings.Contains(folded, "reunion"):
		return "Reunión"
	case strings.Contains(folded, "doctor"):
		return "Consulta Médica"
	default:
		return "Cita: " + extract.Truncate(strings.TrimSpace(text), maxTitleRunes)
	}
}

func reminderTitle(text string) string {
	folded := extract.Fold(text)
	switch {
	case strings.Contains(folded, "medic"):
		return "💊 Tomar Medicina"
	case strings.Contains(folded, "comida"):
		return "🍽️ Hora de Comer"
	case strings.Contains(folded, "ejercicio"):
		return "🏃 Ejercicio"
	default:
		return "🔔 Recordatorio: " + extract.Truncate(strings.TrimSpace(text), maxTitleRunes)
	}
}
