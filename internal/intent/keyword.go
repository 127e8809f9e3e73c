package intent

import (
	"context"
	"time"

	"github.com/hray3182/Organizer/internal/extract"
)

const (
	// DefaultConfidenceFloor is the minimum local score a category needs to win.
	DefaultConfidenceFloor = 0.6
	// DefaultEmergencyThreshold is the emergency score that overrides every
	// other category.
	DefaultEmergencyThreshold = 0.8

	chatConfidence     = 0.7
	shortcutConfidence = 0.9

	weightDivisor = 5.0
	weightShare   = 0.7
	densityShare  = 0.3

	dateTokenBonus = 0.3
	timeBonus      = 0.2
	recurringBonus = 0.2
)

type keyword struct {
	phrase string
	weight float64
}

type keywordTable struct {
	category Category
	keywords []keyword
}

// Tables are scored in this order; on equal scores the earlier one wins.
var keywordTables = []keywordTable{
	{Agenda, []keyword{
		{"agendar", 2}, {"cita", 2}, {"programar", 1.5}, {"reunión", 1.5}, {"evento", 1.5},
		{"calendario", 1}, {"reservar", 1}, {"consultorio", 1}, {"doctor", 1}, {"médico", 1},
		{"hospital", 1},
	}},
	{Reminder, []keyword{
		{"recordatorio", 2}, {"recordar", 1.8}, {"aviso", 1.5}, {"notificación", 1.5},
		{"alarma", 1.5}, {"recordarme", 1.5}, {"avisarme", 1.2}, {"notificarme", 1.2},
		{"diario", 1}, {"todos los días", 1}, {"cada día", 1},
	}},
	{Location, []keyword{
		{"dónde", 2}, {"ubicación", 1.8}, {"dirección", 1.5}, {"mapa", 1.5}, {"cómo llegar", 1.8},
		{"localizar", 1.2}, {"encontrar", 1}, {"sitio", 1}, {"lugar", 1},
	}},
	{Contact, []keyword{
		{"llamar", 2}, {"telefonear", 1.5}, {"marcar", 1.5}, {"contactar", 1.5}, {"número", 1.2},
		{"teléfono", 1.2}, {"hablar con", 1}, {"comunicar", 1},
	}},
	{Search, []keyword{
		{"buscar", 2}, {"encontrar", 1.5}, {"información", 1.5}, {"qué es", 1.8}, {"quién es", 1.8},
		{"cómo funciona", 1.5}, {"muestra", 1.2}, {"enseña", 1.2}, {"dime sobre", 1},
	}},
	{Emergency, []keyword{
		{"emergencia", 3}, {"ayuda", 2.5}, {"socorro", 2.5}, {"urgencia", 2}, {"accidente", 2},
		{"peligro", 1.8}, {"auxilio", 1.8}, {"911", 3},
	}},
}

var agendaDateTokens = []string{
	"lunes", "martes", "miércoles", "jueves", "viernes", "sábado", "domingo",
	"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto",
	"septiembre", "octubre", "noviembre", "diciembre", "mañana", "tarde", "noche",
}

var recurringActions = []string{"tomar", "medicina", "comer", "ejercicio", "dormir", "despertar"}

// internetShortcuts route straight to Search before any scoring.
var internetShortcuts = []string{
	"buscar en internet", "buscar en la web", "buscar video", "ver video", "youtube",
	"navegador", "chrome", "internet",
}

// KeywordClassifier scores text against fixed weighted keyword tables. It
// makes no external calls: the same text and clock always give the same
// result.
type KeywordClassifier struct {
	// Floor is the minimum winning score; below it the result is GeneralChat.
	Floor float64
	// EmergencyThreshold is the Emergency score that wins unconditionally.
	EmergencyThreshold float64
	EmergencyNumber    string
	Now                func() time.Time
}

// NewKeywordClassifier returns a classifier with the reference thresholds.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		Floor:              DefaultConfidenceFloor,
		EmergencyThreshold: DefaultEmergencyThreshold,
		EmergencyNumber:    DefaultEmergencyNumber,
		Now:                time.Now,
	}
}

// Classify implements Classifier. The context is unused.
func (k *KeywordClassifier) Classify(_ context.Context, text string) ParsedCommand {
	cmd := ParsedCommand{RawText: text, Source: SourceLocal}
	if isBlank(text) {
		cmd.Category = Unknown
		cmd.Params = ChatParams{}
		return cmd
	}

	words := extract.Normalize(text)
	b := k.builder()

	scores := k.Scores(text)
	if s := scores[Emergency]; s > k.EmergencyThreshold {
		cmd.Category = Emergency
		cmd.Confidence = s
		cmd.Params = b.build(Emergency, text)
		return cmd
	}

	if extract.HasAnyPhrase(words, internetShortcuts...) {
		cmd.Category = Search
		cmd.Confidence = shortcutConfidence
		cmd.Params = b.build(Search, text)
		return cmd
	}

	// Emergency is reachable only through the override above.
	best, bestScore := Unknown, -1.0
	for _, table := range keywordTables {
		if table.category == Emergency {
			continue
		}
		if s := scores[table.category]; s > bestScore {
			best, bestScore = table.category, s
		}
	}
	if bestScore < k.Floor {
		cmd.Category = GeneralChat
		cmd.Confidence = chatConfidence
		cmd.Params = ChatParams{}
		cmd.Fallback = true
		return cmd
	}

	cmd.Category = best
	cmd.Confidence = bestScore
	cmd.Params = b.build(best, text)
	return cmd
}

// Scores returns the clamped score of every scored category.
func (k *KeywordClassifier) Scores(text string) map[Category]float64 {
	words := extract.Normalize(text)
	scores := make(map[Category]float64, len(keywordTables))
	for _, table := range keywordTables {
		s := tableScore(words, table.keywords)
		switch table.category {
		case Agenda:
			if extract.HasAnyPhrase(words, agendaDateTokens...) {
				s += dateTokenBonus
			}
			if extract.HasTimePattern(text) {
				s += timeBonus
			}
		case Reminder:
			if extract.HasAnyWordPrefix(words, recurringActions...) {
				s += recurringBonus
			}
		}
		scores[table.category] = clamp01(s)
	}
	return scores
}

// tableScore combines the summed weights, normalized by a fixed divisor, with
// the fraction of the table that matched. A keyword counts when it starts a
// word, so plurals and enclitic forms ("citas", "llamarle") still match.
func tableScore(words string, keywords []keyword) float64 {
	if len(keywords) == 0 {
		return 0
	}
	var total float64
	matches := 0
	for _, kw := range keywords {
		if extract.HasWordPrefix(words, kw.phrase) {
			total += kw.weight
			matches++
		}
	}
	density := float64(matches) / float64(len(keywords))
	return (total/weightDivisor)*weightShare + density*densityShare
}

func (k *KeywordClassifier) builder() builder {
	now := k.Now
	if now == nil {
		now = time.Now
	}
	return builder{now: now, emergencyNumber: k.EmergencyNumber}
}
