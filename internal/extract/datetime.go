package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the day-first layout events are stored with.
const DateLayout = "02/01/2006"

// TimeLayout is the 24-hour clock layout events are stored with.
const TimeLayout = "15:04"

var (
	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dmyDateRe = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4}|\d{2})\b`)

	clockRe    = regexp.MustCompile(`\b(2[0-3]|[01]?\d):([0-5]\d)\b`)
	meridiemRe = regexp.MustCompile(`\b(1[0-2]|0?\d)\s*([ap])\.?\s?m\b`)
	dayPartRe  = regexp.MustCompile(`\b(1[0-2]|0?\d)\s+de\s+la\s+(manana|tarde|noche|madrugada)\b`)
)

var weekdays = []struct {
	day   time.Weekday
	names []string
}{
	{time.Monday, []string{"lunes", "monday"}},
	{time.Tuesday, []string{"martes", "tuesday"}},
	{time.Wednesday, []string{"miércoles", "wednesday"}},
	{time.Thursday, []string{"jueves", "thursday"}},
	{time.Friday, []string{"viernes", "friday"}},
	{time.Saturday, []string{"sábado", "saturday"}},
	{time.Sunday, []string{"domingo", "sunday"}},
}

// Qualitative time markers, checked in order; the first hit wins.
var timeMarkers = []struct {
	phrases []string
	value   string
}{
	{[]string{"medianoche", "midnight"}, "00:00"},
	{[]string{"mediodía", "noon"}, "12:00"},
	{[]string{"temprano en la tarde", "primera hora de la tarde", "early afternoon"}, "15:00"},
	{[]string{"tarde", "afternoon"}, "17:00"},
	{[]string{"noche", "evening", "tonight"}, "20:00"},
	{[]string{"la mañana", "morning"}, "09:00"},
}

// Date finds a calendar date in text. Explicit numeric dates win over
// relative markers. Relative markers resolve against now; weekday names
// resolve to the next occurrence strictly after today.
func Date(text string, now time.Time) (time.Time, bool) {
	loc := now.Location()
	if d, ok := numericDate(text, loc); ok {
		return d, true
	}

	words := Normalize(text)
	today := startOfDay(now)

	if HasAnyPhrase(words, "pasado mañana", "day after tomorrow") {
		return addDays(today, 2), true
	}
	// "por la mañana" is a time of day, not tomorrow.
	if HasAnyPhrase(strings.ReplaceAll(words, " la manana ", " "), "mañana", "tomorrow") {
		return addDays(today, 1), true
	}
	if HasAnyPhrase(words, "hoy", "today", "tonight", "esta noche") {
		return today, true
	}
	for _, wd := range weekdays {
		if HasAnyPhrase(words, wd.names...) {
			return NextWeekday(today, wd.day), true
		}
	}
	return time.Time{}, false
}

// NextWeekday returns the first day strictly after from that falls on wd.
func NextWeekday(from time.Time, wd time.Weekday) time.Time {
	diff := (int(wd) - int(from.Weekday()) + 7) % 7
	if diff == 0 {
		diff = 7
	}
	return addDays(startOfDay(from), diff)
}

// Time finds a time of day in text and returns it as HH:MM. An explicit
// clock time wins over "3 pm" style times, which win over qualitative
// markers such as "tarde".
func Time(text string) (string, bool) {
	folded := Fold(text)

	if m := clockRe.FindStringSubmatch(folded); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return formatClock(h, mins), true
	}
	if m := meridiemRe.FindStringSubmatch(folded); m != nil {
		h, _ := strconv.Atoi(m[1])
		return formatClock(to24Hour(h, m[2] == "p"), 0), true
	}
	if m := dayPartRe.FindStringSubmatch(folded); m != nil {
		h, _ := strconv.Atoi(m[1])
		h = to24Hour(h, m[2] == "tarde" || m[2] == "noche")
		if h == 12 && m[2] == "noche" {
			// "12 de la noche" is midnight.
			h = 0
		}
		return formatClock(h, 0), true
	}

	words := Normalize(text)
	for _, marker := range timeMarkers {
		if HasAnyPhrase(words, marker.phrases...) {
			return marker.value, true
		}
	}
	return "", false
}

// HasTimePattern reports whether text carries a clock-form time ("14:30",
// "3 pm", "3 de la tarde"). Qualitative markers do not count.
func HasTimePattern(text string) bool {
	folded := Fold(text)
	return clockRe.MatchString(folded) || meridiemRe.MatchString(folded) || dayPartRe.MatchString(folded)
}

// ParseClock parses an HH:MM string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

func numericDate(text string, loc *time.Location) (time.Time, bool) {
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if t, ok := validDate(y, mo, d, loc); ok {
			return t, true
		}
	}
	for _, m := range dmyDateRe.FindAllStringSubmatch(text, -1) {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			y += 2000
		}
		if t, ok := validDate(y, mo, d, loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// validDate rejects dates time.Date would silently normalize, like 31/02.
func validDate(y, mo, d int, loc *time.Location) (time.Time, bool) {
	if mo < 1 || mo > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
	if t.Day() != d || int(t.Month()) != mo {
		return time.Time{}, false
	}
	return t, true
}

func to24Hour(h int, afterNoon bool) int {
	if afterNoon && h < 12 {
		return h + 12
	}
	if !afterNoon && h == 12 {
		return 0
	}
	return h
}

func formatClock(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func addDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
}
