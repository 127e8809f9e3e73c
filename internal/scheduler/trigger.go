package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hray3182/Organizer/internal/extract"
	"github.com/hray3182/Organizer/internal/models"
	"github.com/hray3182/Organizer/internal/rrule"
)

var (
	// ErrTooLate means the trigger instant has already passed.
	ErrTooLate = errors.New("too late to schedule")
	// ErrInvalidEventTime means the event's date or time cannot be parsed.
	ErrInvalidEventTime = errors.New("invalid event date or time")
)

// TooLateError carries the instant that was rejected. It matches ErrTooLate
// under errors.Is.
type TooLateError struct {
	EventID int64
	Trigger time.Time
}

func (e *TooLateError) Error() string {
	return fmt.Sprintf("event %d: trigger %s is not in the future", e.EventID, e.Trigger.Format(time.RFC3339))
}

func (e *TooLateError) Unwrap() error { return ErrTooLate }

// ScheduledTrigger is the next instant a reminder should fire.
type ScheduledTrigger struct {
	EventID   int64
	TriggerAt time.Time
	Recurring bool
}

// TriggerCalculator converts events into trigger instants. The zero value
// ignores the reminder lead for daily events.
type TriggerCalculator struct {
	// ApplyLeadToDaily subtracts the reminder lead from daily events too.
	ApplyLeadToDaily bool
}

// ComputeTrigger uses the default policy.
func ComputeTrigger(event *models.Event, now time.Time) (ScheduledTrigger, error) {
	return TriggerCalculator{}.Compute(event, now)
}

// Compute returns the next trigger for event as seen at now. It is a pure
// function of its inputs. Dates and times are read in now's location.
//
// One-off events fire at their date and time minus the lead; if that is not
// after now the result is a *TooLateError. Daily events fire today at their
// time, or tomorrow if that is not after now.
func (c TriggerCalculator) Compute(event *models.Event, now time.Time) (ScheduledTrigger, error) {
	hour, minute, err := extract.ParseClock(event.Time)
	if err != nil {
		return ScheduledTrigger{}, fmt.Errorf("event %d: %w: %v", event.EventID, ErrInvalidEventTime, err)
	}
	if event.ReminderLeadMinutes < 0 {
		return ScheduledTrigger{}, fmt.Errorf("event %d: %w: negative lead", event.EventID, ErrInvalidEventTime)
	}

	if event.IsDaily() {
		return c.daily(event, now, hour, minute)
	}

	day, err := time.ParseInLocation(extract.DateLayout, strings.TrimSpace(event.Date), now.Location())
	if err != nil {
		return ScheduledTrigger{}, fmt.Errorf("event %d: %w: %v", event.EventID, ErrInvalidEventTime, err)
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()).
		Add(-event.LeadDuration())
	if !at.After(now) {
		return ScheduledTrigger{}, &TooLateError{EventID: event.EventID, Trigger: at}
	}
	return ScheduledTrigger{EventID: event.EventID, TriggerAt: at}, nil
}

func (c TriggerCalculator) daily(event *models.Event, now time.Time, hour, minute int) (ScheduledTrigger, error) {
	var lead time.Duration
	if c.ApplyLeadToDaily {
		lead = event.LeadDuration()
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	at := today.Add(-lead)
	if !at.After(now) {
		// First occurrence whose lead-adjusted instant is after now.
		next, err := rrule.NextOccurrence(event.RecurrenceRule(), today, now.Add(lead))
		if err != nil {
			return ScheduledTrigger{}, fmt.Errorf("event %d: %w", event.EventID, err)
		}
		if next == nil {
			return ScheduledTrigger{}, fmt.Errorf("event %d: %w: rule has no further occurrences", event.EventID, ErrInvalidEventTime)
		}
		at = next.Add(-lead)
	}
	return ScheduledTrigger{EventID: event.EventID, TriggerAt: at, Recurring: true}, nil
}
