package intent

import (
	"strconv"
	"time"

	"github.com/hray3182/Organizer/internal/extract"
)

// Params is the per-category payload of a ParsedCommand. Map renders the
// generic string view used for logging and remote-style routing.
type Params interface {
	Map() map[string]string
	isParams()
}

// Daily is the date value rendered for reminders without a calendar date.
const Daily = "DAILY"

type AgendaParams struct {
	Title       string
	Description string
	Date        time.Time
	Time        string
}

func (p AgendaParams) Map() map[string]string {
	return map[string]string{
		"title":       p.Title,
		"description": p.Description,
		"date":        p.Date.Format(extract.DateLayout),
		"time":        p.Time,
	}
}

// ReminderParams describes a reminder. A zero Date means every day.
type ReminderParams struct {
	Title       string
	Description string
	Date        time.Time
	Time        string
}

func (p ReminderParams) IsDaily() bool { return p.Date.IsZero() }

func (p ReminderParams) Map() map[string]string {
	date := Daily
	if !p.IsDaily() {
		date = p.Date.Format(extract.DateLayout)
	}
	return map[string]string{
		"title":       p.Title,
		"description": p.Description,
		"date":        date,
		"time":        p.Time,
	}
}

type LocationParams struct {
	Destination string
}

func (p LocationParams) Map() map[string]string {
	return map[string]string{"destination": p.Destination}
}

type ContactParams struct {
	Name string
}

func (p ContactParams) Map() map[string]string {
	return map[string]string{"contact": p.Name}
}

type EmergencyParams struct {
	Number string
}

func (p EmergencyParams) Map() map[string]string {
	return map[string]string{"emergency": "true", "contact": p.Number}
}

// SearchParams carries a web query. Explain is set for "what is" style
// questions that ask for an explanation rather than a list of links.
type SearchParams struct {
	Query   string
	Explain bool
}

func (p SearchParams) Map() map[string]string {
	return map[string]string{"query": p.Query, "explain": strconv.FormatBool(p.Explain)}
}

// ChatParams carries a ready reply, if the strategy produced one.
type ChatParams struct {
	Reply string
}

func (p ChatParams) Map() map[string]string {
	if p.Reply == "" {
		return map[string]string{}
	}
	return map[string]string{"reply": p.Reply}
}

func (AgendaParams) isParams()    {}
func (ReminderParams) isParams()  {}
func (LocationParams) isParams()  {}
func (ContactParams) isParams()   {}
func (EmergencyParams) isParams() {}
func (SearchParams) isParams()    {}
func (ChatParams) isParams()      {}
