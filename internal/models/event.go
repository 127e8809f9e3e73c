package models

import "time"

// DailyDate marks an event that has no calendar date and repeats every day.
const DailyDate = "DAILY"

// Event types written by the assistant.
const (
	EventTypeAppointment   = "cita"
	EventTypeDailyReminder = "recordatorio_diario"
	EventTypeReminder      = "recordatorio"
)

// Event statuses.
const (
	StatusPending  = "Pendiente"
	StatusActive   = "Activo"
	StatusNotified = "Notificado"
)

type Event struct {
	EventID             int64      `json:"event_id"`
	ChatID              int64      `json:"chat_id"`
	Title               string     `json:"title"`
	Type                string     `json:"type"`
	Description         string     `json:"description"`
	Date                string     `json:"date"` // dd/mm/yyyy or DailyDate
	Time                string     `json:"time"` // HH:MM
	ReminderLeadMinutes int        `json:"reminder_lead_minutes"`
	Status              string     `json:"status"`
	TriggerAt           *time.Time `json:"trigger_at"` // Next computed notification instant
	CreatedAt           time.Time  `json:"created_at"`
}

// IsDaily returns true if this event repeats every day at Time
func (e *Event) IsDaily() bool {
	return e.Date == DailyDate
}

// RecurrenceRule returns the RFC 5545 rule for daily events, empty otherwise
func (e *Event) RecurrenceRule() string {
	if e.IsDaily() {
		return "FREQ=DAILY"
	}
	return ""
}

// LeadDuration returns the reminder lead as a duration
func (e *Event) LeadDuration() time.Duration {
	return time.Duration(e.ReminderLeadMinutes) * time.Minute
}
