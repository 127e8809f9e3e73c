package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hray3182/Organizer/internal/database"
	"github.com/hray3182/Organizer/internal/models"
)

// ErrNotFound is returned when no event matches.
var ErrNotFound = errors.New("event not found")

const eventColumns = `event_id, chat_id, title, type, description, date, time,
	reminder_lead_minutes, status, trigger_at, created_at`

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts event and fills its EventID and CreatedAt.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO event (chat_id, title, type, description, date, time,
		 reminder_lead_minutes, status, trigger_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING event_id, created_at`,
		event.ChatID, event.Title, event.Type, event.Description, event.Date, event.Time,
		event.ReminderLeadMinutes, event.Status, event.TriggerAt,
	).Scan(&event.EventID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, eventID int64) (*models.Event, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+eventColumns+` FROM event WHERE event_id = $1`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNotFound
	}
	return events[0], nil
}

func (r *EventRepository) GetByChatID(ctx context.Context, chatID int64) ([]*models.Event, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+eventColumns+` FROM event WHERE chat_id = $1
		 ORDER BY trigger_at ASC NULLS LAST, event_id ASC`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return scanEvents(rows)
}

// GetDue returns events whose trigger instant is at or before until.
func (r *EventRepository) GetDue(ctx context.Context, until time.Time) ([]*models.Event, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+eventColumns+` FROM event
		 WHERE trigger_at IS NOT NULL AND trigger_at <= $1
		 ORDER BY trigger_at ASC`,
		until,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get due events: %w", err)
	}
	return scanEvents(rows)
}

// SetTrigger stores the next trigger instant; nil clears it.
func (r *EventRepository) SetTrigger(ctx context.Context, eventID int64, at *time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE event SET trigger_at = $1 WHERE event_id = $2`,
		at, eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to set trigger for event %d: %w", eventID, err)
	}
	return nil
}

// MarkNotified clears the trigger of a one-off event and records its status.
func (r *EventRepository) MarkNotified(ctx context.Context, eventID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE event SET trigger_at = NULL, status = $1 WHERE event_id = $2`,
		models.StatusNotified, eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark event %d notified: %w", eventID, err)
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, eventID, chatID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM event WHERE event_id = $1 AND chat_id = $2`,
		eventID, chatID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", eventID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEvents(rows pgx.Rows) ([]*models.Event, error) {
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.EventID, &event.ChatID, &event.Title, &event.Type,
			&event.Description, &event.Date, &event.Time, &event.ReminderLeadMinutes,
			&event.Status, &event.TriggerAt, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}
