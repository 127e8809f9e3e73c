package extract

import (
	"regexp"
	"strings"
)

// entityRule is an ordered list of "<trigger> (.+)" templates plus the
// trigger keywords used when no template matches. Leading fillers are
// stripped from whatever either path captures.
type entityRule struct {
	templates []*regexp.Regexp
	keywords  []string
	fillers   *regexp.Regexp
}

var destinationRule = entityRule{
	templates: compileAll(
		`(?i)\bc[oó]mo\s+(?:llego|llegar|voy|ir)\s+(?:a|al|hasta|hacia)\s+(.+)`,
		`(?i)\b(?:ll[eé]vame|ir|navegar|ruta|indicaciones|direcciones)\s+(?:a|al|hasta|hacia|para)\s+(.+)`,
		`(?i)\bd[oó]nde\s+(?:est[aá]n?|queda|hay)\s+(.+)`,
		`(?i)\b(?:mapa|ubicaci[oó]n|direcci[oó]n)\s+(?:de|del)\s+(.+)`,
		`(?i)\bhow\s+do\s+i\s+get\s+to\s+(.+)`,
		`(?i)\b(?:directions|navigate|route)\s+to\s+(.+)`,
		`(?i)\bwhere\s+is\s+(.+)`,
	),
	keywords: []string{"mapa", "ubicación", "dónde", "llegar", "dirección", "lugar", "sitio", "map", "where"},
}

var contactRule = entityRule{
	templates: compileAll(
		`(?i)\b(?:ll[aá]ma(?:me)?|llamar|marca(?:r)?|telefonea(?:r)?|contacta(?:r)?|escr[ií]bele)\s+(?:a|al)\s+(.+)`,
		`(?i)\bhablar\s+con\s+(.+)`,
		`(?i)\b(?:n[uú]mero|tel[eé]fono)\s+de\s+(.+)`,
		`(?i)\b(?:call|phone|dial|contact|ring)\s+(.+)`,
	),
	keywords: []string{"llamar", "llama", "marcar", "contactar", "teléfono", "número", "call"},
}

var searchRule = entityRule{
	templates: compileAll(
		`(?i)\bbusca(?:r|me)?\s+(?:en\s+internet\s+|en\s+la\s+web\s+|en\s+google\s+|informaci[oó]n\s+(?:sobre|de)\s+)?(.+)`,
		`(?i)\bqu[eé]\s+(?:es|son|significa)\s+(.+)`,
		`(?i)\bqui[eé]n\s+(?:es|fue|era)\s+(.+)`,
		`(?i)\bc[oó]mo\s+funcionan?\s+(.+)`,
		`(?i)\b(?:dime|h[aá]blame|expl[ií]came)\s+(?:sobre|de|acerca\s+de)\s+(.+)`,
		`(?i)\binformaci[oó]n\s+(?:sobre|de|acerca\s+de)\s+(.+)`,
		`(?i)\bwhat\s+(?:is|are)\s+(.+)`,
		`(?i)\bwho\s+(?:is|was)\s+(.+)`,
		`(?i)\b(?:search\s+(?:for\s+)?|look\s+up\s+)(.+)`,
	),
	keywords: []string{"buscar", "busca", "encontrar", "información", "explicar", "search"},
	fillers:  regexp.MustCompile(`(?i)^(?:en\s+internet|en\s+la\s+web|en\s+google|informaci[oó]n\s+(?:sobre|de)|information\s+(?:about|on))(?:\s+|$)`),
}

// Destination returns the place the user wants to go to.
func Destination(text string) string {
	return destinationRule.apply(text)
}

// ContactName returns the person the user wants to reach.
func ContactName(text string) string {
	return contactRule.apply(text)
}

// SearchQuery returns the topic the user wants to look up.
func SearchQuery(text string) string {
	return searchRule.apply(text)
}

// apply tries every template in order, then the words following the first
// trigger keyword, and finally returns text unchanged.
func (r entityRule) apply(text string) string {
	for _, re := range r.templates {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := r.clean(m[1]); v != "" {
				return v
			}
		}
	}

	fields := strings.Fields(text)
	for i, f := range fields {
		word := Normalize(f)
		for _, kw := range r.keywords {
			if word == Normalize(kw) {
				if rest := r.clean(strings.Join(fields[i+1:], " ")); rest != "" {
					return rest
				}
			}
		}
	}
	return text
}

func (r entityRule) clean(s string) string {
	s = cleanEntity(s)
	if r.fillers != nil {
		s = cleanEntity(r.fillers.ReplaceAllString(s, ""))
	}
	return s
}

func cleanEntity(s string) string {
	return strings.Trim(s, " \t\r\n¿?¡!.,;:\"'")
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
