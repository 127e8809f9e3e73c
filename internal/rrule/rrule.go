package rrule

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// ParseRRule parses an RFC 5545 RRULE string anchored at dtstart. The
// occurrences keep dtstart's location, so wall-clock times survive DST
// changes.
func ParseRRule(ruleStr string, dtstart time.Time) (*rrule.RRule, error) {
	ruleStr = strings.TrimPrefix(strings.TrimSpace(ruleStr), "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}
	opt.Dtstart = dtstart
	return rrule.NewRRule(*opt)
}

// NextOccurrence returns the first occurrence strictly after the given time.
// Returns nil if there are no more occurrences.
func NextOccurrence(ruleStr string, dtstart time.Time, after time.Time) (*time.Time, error) {
	rule, err := ParseRRule(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}

	next := rule.After(after, false)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

// HumanReadable returns a short Spanish description of the RRULE, with the
// occurrence time taken from dtstart.
func HumanReadable(ruleStr string, dtstart time.Time) string {
	ruleStr = strings.TrimPrefix(strings.TrimSpace(ruleStr), "RRULE:")

	info := make(map[string]string)
	for _, p := range strings.Split(ruleStr, ";") {
		if k, v, ok := strings.Cut(p, "="); ok {
			info[strings.ToUpper(k)] = v
		}
	}

	units := map[string][2]string{
		"HOURLY":  {"cada hora", "horas"},
		"DAILY":   {"todos los días", "días"},
		"WEEKLY":  {"todas las semanas", "semanas"},
		"MONTHLY": {"todos los meses", "meses"},
		"YEARLY":  {"todos los años", "años"},
	}
	unit, ok := units[strings.ToUpper(info["FREQ"])]
	if !ok {
		return "una vez"
	}

	var result strings.Builder
	if interval := info["INTERVAL"]; interval == "" || interval == "1" {
		result.WriteString(unit[0])
	} else {
		result.WriteString(fmt.Sprintf("cada %s %s", interval, unit[1]))
	}
	if info["FREQ"] != "HOURLY" {
		result.WriteString(" a las " + dtstart.Format("15:04"))
	}
	if count := info["COUNT"]; count != "" {
		result.WriteString(fmt.Sprintf(", %s veces", count))
	}
	return result.String()
}

// IsRecurring checks if the RRULE string represents a recurring event
func IsRecurring(ruleStr string) bool {
	return ruleStr != "" && strings.Contains(strings.ToUpper(ruleStr), "FREQ=")
}
