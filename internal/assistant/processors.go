package assistant

import (
	"fmt"

	"github.com/hray3182/Organizer/internal/extract"
	"github.com/hray3182/Organizer/internal/intent"
	"github.com/hray3182/Organizer/internal/models"
)

// DefaultAgendaLeadMinutes is how long before an appointment its reminder fires.
const DefaultAgendaLeadMinutes = 30

// processor maps a ParsedCommand to an Action. Processors never perform side
// effects.
type processor func(cmd intent.ParsedCommand) Action

var cannedReplies = []struct {
	phrase string
	reply  string
}{
	{"cómo estás", "¡Estoy bien, gracias! Listo para ayudarte"},
	{"gracias", "¡De nada! ¿Algo más en lo que pueda ayudarte?"},
	{"adiós", "¡Hasta luego! Que tengas un buen día"},
	{"hola", "¡Hola! ¿En qué puedo ayudarte?"},
}

const defaultChatReply = "Entendido. ¿Necesitas ayuda con agenda, recordatorios, ubicación, contactos o búsquedas?"

func (d *Dispatcher) agenda(cmd intent.ParsedCommand) Action {
	p, ok := cmd.Params.(intent.AgendaParams)
	if !ok {
		return help(cmd)
	}
	date := p.Date.Format(extract.DateLayout)
	return Action{
		Category:   intent.Agenda,
		Parameters: p.Map(),
		Response:   fmt.Sprintf("✅ Cita agendada: %s para el %s a las %s", p.Title, date, p.Time),
		Effect: PersistEvent{Event: models.Event{
			Title:               p.Title,
			Type:                models.EventTypeAppointment,
			Description:         p.Description,
			Date:                date,
			Time:                p.Time,
			ReminderLeadMinutes: d.agendaLead,
			Status:              models.StatusPending,
		}},
	}
}

// reminder creates a daily reminder, or a one-off one when a date was given.
// Reminders fire at the stated time, without lead.
func (d *Dispatcher) reminder(cmd intent.ParsedCommand) Action {
	p, ok := cmd.Params.(intent.ReminderParams)
	if !ok {
		return help(cmd)
	}
	event := models.Event{
		Title:       p.Title,
		Description: p.Description,
		Time:        p.Time,
	}
	var response string
	if p.IsDaily() {
		event.Type = models.EventTypeDailyReminder
		event.Date = models.DailyDate
		event.Status = models.StatusActive
		response = fmt.Sprintf("🔔 Recordatorio diario creado: %s a las %s", p.Title, p.Time)
	} else {
		event.Type = models.EventTypeReminder
		event.Date = p.Date.Format(extract.DateLayout)
		event.Status = models.StatusPending
		response = fmt.Sprintf("🔔 Recordatorio creado: %s para el %s a las %s", p.Title, event.Date, p.Time)
	}
	return Action{
		Category:   intent.Reminder,
		Parameters: p.Map(),
		Response:   response,
		Effect:     PersistEvent{Event: event},
	}
}

func location(cmd intent.ParsedCommand) Action {
	p, _ := cmd.Params.(intent.LocationParams)
	response := "🗺️ Abriendo mapa con tu ubicación actual"
	if p.Destination != "" {
		response = "🗺️ Abriendo mapa con destino: " + p.Destination
	}
	return Action{
		Category:   intent.Location,
		Parameters: p.Map(),
		Response:   response,
		Effect:     OpenMap{Destination: p.Destination},
	}
}

func contact(cmd intent.ParsedCommand) Action {
	p, _ := cmd.Params.(intent.ContactParams)
	response := "📞 Abriendo lista de contactos"
	if p.Name != "" {
		response = "📞 Buscando contacto: " + p.Name
	}
	return Action{
		Category:   intent.Contact,
		Parameters: p.Map(),
		Response:   response,
		Effect:     OpenContacts{Name: p.Name},
	}
}

func (d *Dispatcher) emergency(cmd intent.ParsedCommand) Action {
	p, _ := cmd.Params.(intent.EmergencyParams)
	if p.Number == "" {
		p.Number = d.emergencyNumber
	}
	return Action{
		Category:   intent.Emergency,
		Parameters: p.Map(),
		Response:   "🚨 Llamando a contacto de emergencia...",
		Effect:     OpenDialer{Number: p.Number},
	}
}

func search(cmd intent.ParsedCommand) Action {
	p, ok := cmd.Params.(intent.SearchParams)
	if !ok || p.Query == "" {
		p.Query = extract.Truncate(cmd.RawText, 100)
	}
	response := fmt.Sprintf("🌐 Buscando en internet: %s\n📱 Abriendo navegador...", p.Query)
	if p.Explain {
		response = fmt.Sprintf("🔍 Buscando información sobre: %s\n📚 Preparando explicación...", p.Query)
	}
	return Action{
		Category:   intent.Search,
		Parameters: p.Map(),
		Response:   response,
		Effect:     OpenBrowser{Query: p.Query, URL: SearchURL(p.Query)},
	}
}

func chat(cmd intent.ParsedCommand) Action {
	p, _ := cmd.Params.(intent.ChatParams)
	reply := p.Reply
	if reply == "" {
		reply = cannedReply(cmd.RawText)
	}
	return Action{
		Category:   intent.GeneralChat,
		Parameters: p.Map(),
		Response:   reply,
	}
}

func help(intent.ParsedCommand) Action {
	return Action{
		Category:   intent.Unknown,
		Parameters: map[string]string{},
		Response:   HelpText,
	}
}

func cannedReply(text string) string {
	words := extract.Normalize(text)
	for _, c := range cannedReplies {
		if extract.HasPhrase(words, c.phrase) {
			return c.reply
		}
	}
	return defaultChatReply
}
