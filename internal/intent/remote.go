package intent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hray3182/Organizer/internal/extract"
)

// Apology is the reply used when the remote endpoint fails or times out.
const Apology = "Lo siento, hubo un error. ¿Podrías intentarlo de nuevo?"

const (
	remoteConfidence  = 0.92
	invalidConfidence = 0.5

	// DefaultRemoteTimeout bounds a single remote classification.
	DefaultRemoteTimeout = 10 * time.Second
)

// Generator is the remote text-generation collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Reply keys of the remote contract.
const (
	KeyAppointment = "appointment"
	KeyReminder    = "reminder"
	KeyContacts    = "contacts"
	KeyMaps        = "maps"
	KeyEmergency   = "emergency"
	KeyInternet    = "internet"
	KeyResponse    = "response"
)

// replyKeys maps every accepted key, including the Spanish spellings the
// model tends to answer with, onto the canonical key.
var replyKeys = map[string]string{
	"appointment":  KeyAppointment,
	"cita":         KeyAppointment,
	"agenda":       KeyAppointment,
	"reminder":     KeyReminder,
	"recordatorio": KeyReminder,
	"contacts":     KeyContacts,
	"contactos":    KeyContacts,
	"contacto":     KeyContacts,
	"maps":         KeyMaps,
	"mapas":        KeyMaps,
	"mapa":         KeyMaps,
	"emergency":    KeyEmergency,
	"emergencia":   KeyEmergency,
	"internet":     KeyInternet,
	"busqueda":     KeyInternet,
	"response":     KeyResponse,
	"respuesta":    KeyResponse,
}

var keyCategories = map[string]Category{
	KeyAppointment: Agenda,
	KeyReminder:    Reminder,
	KeyContacts:    Contact,
	KeyMaps:        Location,
	KeyEmergency:   Emergency,
	KeyInternet:    Search,
	KeyResponse:    GeneralChat,
}

const promptTemplate = `Eres el asistente de una agenda personal. Clasifica la solicitud del usuario.

Fecha y hora actual: %s

Responde ÚNICAMENTE con una línea con el formato exacto clave:dato
Claves permitidas:
- appointment: agendar una cita o evento. dato = título de la cita
- reminder: crear un recordatorio. dato = qué recordar
- contacts: llamar o buscar un contacto. dato = nombre del contacto
- maps: ubicaciones y rutas. dato = destino
- emergency: emergencias. dato = descripción breve
- internet: buscar en internet. dato = términos de búsqueda
- response: cualquier otra cosa. dato = tu respuesta breve en español

Ejemplos:
Usuario: "Agenda una cita con el doctor el viernes a las 10:00"
appointment:Cita con el doctor
Usuario: "Recuérdame tomar la medicina a las 8:00"
reminder:Tomar la medicina
Usuario: "Llama a María"
contacts:María
Usuario: "Necesito ir al hospital más cercano"
maps:hospital más cercano
Usuario: "Tuve un accidente, necesito ayuda"
emergency:accidente
Usuario: "Busca videos de gatos"
internet:videos de gatos
Usuario: "Hola, ¿cómo estás?"
response:¡Hola! Estoy bien, listo para ayudarte.

Usuario: "%s"`

// Reply is a validated key:data answer from the remote endpoint.
type Reply struct {
	Key  string
	Data string
	// Valid is false when the raw answer was coerced into the response key.
	Valid bool
}

// ParseReply validates a remote answer. It splits on the first ':' and accepts
// it only if the key is known and the data is not blank. Anything else is
// coerced into the response key carrying the raw text unchanged, or the
// apology when the raw text is blank.
func ParseReply(raw string) Reply {
	key, data, found := strings.Cut(raw, ":")
	if found {
		canonical, known := replyKeys[extract.Fold(strings.TrimSpace(key))]
		data = strings.TrimSpace(data)
		if known && data != "" {
			return Reply{Key: canonical, Data: data, Valid: true}
		}
	}
	if strings.TrimSpace(raw) == "" {
		return Reply{Key: KeyResponse, Data: Apology}
	}
	return Reply{Key: KeyResponse, Data: raw}
}

// Category returns the intent category the reply key maps to.
func (r Reply) Category() Category {
	if c, ok := keyCategories[r.Key]; ok {
		return c
	}
	return GeneralChat
}

// RemoteClassifier delegates classification to a Generator under the
// key:data contract. It never fails: transport errors, timeouts and invalid
// answers all resolve to a GeneralChat command.
type RemoteClassifier struct {
	gen             Generator
	timeout         time.Duration
	emergencyNumber string
	now             func() time.Time
	logger          zerolog.Logger
}

// RemoteOption configures a RemoteClassifier.
type RemoteOption func(*RemoteClassifier)

func WithTimeout(d time.Duration) RemoteOption {
	return func(r *RemoteClassifier) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithClock(now func() time.Time) RemoteOption {
	return func(r *RemoteClassifier) {
		if now != nil {
			r.now = now
		}
	}
}

func WithEmergencyNumber(number string) RemoteOption {
	return func(r *RemoteClassifier) { r.emergencyNumber = number }
}

func WithLogger(l zerolog.Logger) RemoteOption {
	return func(r *RemoteClassifier) { r.logger = l }
}

func NewRemoteClassifier(gen Generator, opts ...RemoteOption) *RemoteClassifier {
	r := &RemoteClassifier{
		gen:             gen,
		timeout:         DefaultRemoteTimeout,
		emergencyNumber: DefaultEmergencyNumber,
		now:             time.Now,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prompt renders the fixed instruction template for text.
func (r *RemoteClassifier) Prompt(text string) string {
	return fmt.Sprintf(promptTemplate, r.now().Format("02/01/2006 15:04 (Monday)"), text)
}

func (r *RemoteClassifier) Classify(ctx context.Context, text string) ParsedCommand {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.gen.Generate(ctx, r.Prompt(text))
	if err != nil {
		r.logger.Warn().Err(err).Msg("remote classification failed")
		return ParsedCommand{
			Category:   GeneralChat,
			Confidence: invalidConfidence,
			Params:     ChatParams{Reply: Apology},
			RawText:    text,
			Source:     SourceRemote,
			Fallback:   true,
		}
	}

	reply := ParseReply(raw)
	if !reply.Valid {
		r.logger.Debug().Str("reply", raw).Msg("remote reply rejected")
	}
	return r.command(text, reply)
}

// command maps a validated reply onto a ParsedCommand, using the data as the
// primary parameter and the original text for everything else.
func (r *RemoteClassifier) command(text string, reply Reply) ParsedCommand {
	b := builder{now: r.now, emergencyNumber: r.emergencyNumber}
	cmd := ParsedCommand{
		Category:   reply.Category(),
		Confidence: remoteConfidence,
		RawText:    text,
		Source:     SourceRemote,
	}
	if !reply.Valid {
		cmd.Confidence = invalidConfidence
		cmd.Fallback = true
	}

	switch cmd.Category {
	case Agenda:
		cmd.Params = b.agenda(text, reply.Data)
	case Reminder:
		cmd.Params = b.reminder(text, reply.Data)
	case Contact:
		cmd.Params = ContactParams{Name: reply.Data}
	case Location:
		cmd.Params = LocationParams{Destination: reply.Data}
	case Emergency:
		cmd.Params = EmergencyParams{Number: b.number()}
	case Search:
		cmd.Params = b.search(text, reply.Data)
	default:
		cmd.Params = ChatParams{Reply: reply.Data}
	}
	return cmd
}
