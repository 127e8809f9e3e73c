package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wednesday is 2026-10-14 10:30 UTC.
var wednesday = time.Date(2026, time.October, 14, 10, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFoldAndNormalize(t *testing.T) {
	assert.Equal(t, "reunion manana", Fold("Reunión Mañana"))
	assert.Equal(t, " como llego al museo ", Normalize("¿Cómo llego al museo?"))
	assert.True(t, HasPhrase(Normalize("Agendar una REUNIÓN"), "reunion"))
	assert.False(t, HasPhrase(Normalize("necesitas ayuda"), "cita"))
	assert.False(t, HasPhrase(Normalize("algo"), "  "))
}

func TestHasWordPrefix(t *testing.T) {
	words := Normalize("¡Socorro! llamen a emergencias")
	assert.True(t, HasWordPrefix(words, "emergencia"))
	assert.True(t, HasWordPrefix(words, "socorro"))
	assert.False(t, HasPhrase(words, "emergencia"))
	assert.False(t, HasWordPrefix(words, "gencia"))
	assert.False(t, HasWordPrefix(words, " "))
	assert.True(t, HasAnyWordPrefix(Normalize("tengo citas"), "reunión", "cita"))
}

func TestDate(t *testing.T) {
	cases := []struct {
		name string
		text string
		want time.Time
	}{
		{"numeric slash", "cita el 25/12/2026 a las 10:00", day(2026, time.December, 25)},
		{"numeric dash two digit year", "entrega 03-11-27", day(2027, time.November, 3)},
		{"iso", "vuelo 2026-11-02", day(2026, time.November, 2)},
		{"today", "hoy a las 5 pm", day(2026, time.October, 14)},
		{"tomorrow", "mañana tengo dentista", day(2026, time.October, 15)},
		{"tomorrow english", "remind me tomorrow", day(2026, time.October, 15)},
		{"day after tomorrow", "pasado mañana", day(2026, time.October, 16)},
		{"tomorrow morning", "mañana por la mañana", day(2026, time.October, 15)},
		{"next monday", "próximo lunes", day(2026, time.October, 19)},
		{"next monday unaccented", "el proximo lunes", day(2026, time.October, 19)},
		{"same weekday is a week later", "el miércoles", day(2026, time.October, 21)},
		{"next friday english", "next Friday", day(2026, time.October, 16)},
		{"sunday", "el domingo", day(2026, time.October, 18)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Date(tc.text, wednesday)
			require.True(t, ok)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestDate_NextMondayFromWednesdayIsFiveDaysLater(t *testing.T) {
	got, ok := Date("próximo lunes", wednesday)
	require.True(t, ok)
	assert.Equal(t, 5, int(got.Sub(day(2026, time.October, 14)).Hours()/24))
}

func TestDate_NotFound(t *testing.T) {
	for _, text := range []string{"", "llama a mamá", "por la mañana", "31/02/2026"} {
		_, ok := Date(text, wednesday)
		assert.False(t, ok, text)
	}
}

func TestNextWeekday(t *testing.T) {
	monday := day(2026, time.October, 12)
	assert.Equal(t, day(2026, time.October, 19), NextWeekday(monday, time.Monday))
	assert.Equal(t, day(2026, time.October, 13), NextWeekday(monday, time.Tuesday))
	assert.Equal(t, day(2026, time.October, 18), NextWeekday(monday, time.Sunday))
}

func TestTime(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"reunión a las 14:30", "14:30"},
		{"nos vemos en la tarde", "17:00"},
		{"a las 9:05", "09:05"},
		{"cena a las 8 pm", "20:00"},
		{"llamar a las 7am", "07:00"},
		{"a las 3 de la tarde", "15:00"},
		{"a las 6 de la mañana", "06:00"},
		{"por la mañana", "09:00"},
		{"al mediodía", "12:00"},
		{"temprano en la tarde", "15:00"},
		{"esta noche", "20:00"},
		{"a medianoche", "00:00"},
		{"this afternoon", "17:00"},
		{"at noon", "12:00"},
		{"en la tarde a las 10:15", "10:15"},
		{"a las 12 de la noche", "00:00"},
		{"a las 11 de la noche", "23:00"},
		{"a las 12 de la madrugada", "00:00"},
		{"a las 12 de la tarde", "12:00"},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got, ok := Time(tc.text)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTime_NotFound(t *testing.T) {
	for _, text := range []string{"", "mañana", "tengo 2 amigos", "25:99"} {
		_, ok := Time(text)
		assert.False(t, ok, text)
	}
}

func TestHasTimePattern(t *testing.T) {
	assert.True(t, HasTimePattern("a las 10:00"))
	assert.True(t, HasTimePattern("a las 3 pm"))
	assert.True(t, HasTimePattern("4 de la tarde"))
	assert.False(t, HasTimePattern("en la tarde"))
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("07:45")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	_, _, err = ParseClock("7h45")
	assert.Error(t, err)
}

func TestDestination(t *testing.T) {
	cases := map[string]string{
		"¿Cómo llego al Hospital Central?":      "Hospital Central",
		"Necesito ir al hospital más cercano":   "hospital más cercano",
		"dónde queda la Plaza Mayor":            "la Plaza Mayor",
		"muéstrame el mapa de Madrid":           "Madrid",
		"how do I get to the airport?":          "the airport",
		"abre el mapa por favor centro":         "por favor centro",
		"quiero ver algo":                       "quiero ver algo",
	}
	for in, want := range cases {
		assert.Equal(t, want, Destination(in), in)
	}
}

func TestContactName(t *testing.T) {
	cases := map[string]string{
		"Llama a María":             "María",
		"llamar a mamá por favor":   "mamá por favor",
		"quiero hablar con Pedro":   "Pedro",
		"el número de Luisa":        "Luisa",
		"call John":                 "John",
		"teléfono":                  "teléfono",
	}
	for in, want := range cases {
		assert.Equal(t, want, ContactName(in), in)
	}
}

func TestSearchQuery(t *testing.T) {
	cases := map[string]string{
		"buscar en internet videos de gatos":  "videos de gatos",
		"busca información de los volcanes":   "los volcanes",
		"encontrar en google recetas":         "recetas",
		"¿Qué es la inteligencia artificial?": "la inteligencia artificial",
		"quién fue Simón Bolívar":             "Simón Bolívar",
		"dime sobre los volcanes":             "los volcanes",
		"what is a black hole":                "a black hole",
		"hola":                                "hola",
	}
	for in, want := range cases {
		assert.Equal(t, want, SearchQuery(in), in)
	}
}

func TestSearchQuery_FillerOnlyFallsBackToWholeInput(t *testing.T) {
	assert.Equal(t, "buscar en internet", SearchQuery("buscar en internet"))
	assert.Equal(t, "busca en la web", SearchQuery("busca en la web"))
}

func TestEntityFallbackReturnsWholeInput(t *testing.T) {
	in := "  algo sin pistas  "
	assert.Equal(t, in, Destination(in))
	assert.Equal(t, in, ContactName(in))
	assert.Equal(t, in, SearchQuery(in))
	assert.Equal(t, "", SearchQuery(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hola", Truncate("hola", 10))
	assert.Equal(t, "ñand...", Truncate("ñandú azul", 4))
}
