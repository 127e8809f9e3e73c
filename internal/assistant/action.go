// Package assistant turns classified utterances into Actions: a reply for
// the user plus an optional Effect the caller may run later.
package assistant

import "github.com/hray3182/Organizer/internal/intent"

// Action is the result of processing one utterance.
type Action struct {
	Category   intent.Category
	Parameters map[string]string
	Response   string
	// Effect is nil when there is nothing to execute.
	Effect Effect
}

func (a Action) HasEffect() bool {
	return a.Effect != nil
}

// HelpText lists what the assistant can do.
const HelpText = "No estoy seguro de qué necesitas. ¿Puedes ser más específico?\n\n" +
	"Puedo ayudarte con:\n" +
	"• Agendar citas 📅\n" +
	"• Recordatorios 🔔\n" +
	"• Buscar información en internet 🔍\n" +
	"• Explicar temas 📚\n" +
	"• Ubicaciones y rutas 🗺️\n" +
	"• Llamadas 📞\n" +
	"• Emergencias 🚨"
