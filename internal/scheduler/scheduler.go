package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hray3182/Organizer/internal/models"
)

// EventStore is the persistence the delivery loop needs.
type EventStore interface {
	GetDue(ctx context.Context, until time.Time) ([]*models.Event, error)
	SetTrigger(ctx context.Context, eventID int64, at *time.Time) error
	MarkNotified(ctx context.Context, eventID int64) error
}

// Notifier delivers a due reminder to its owner.
type Notifier interface {
	NotifyEvent(ctx context.Context, event *models.Event) error
}

type Scheduler struct {
	store         EventStore
	notifier      Notifier
	calc          TriggerCalculator
	checkInterval time.Duration
	notifyCh      chan struct{}
	now           func() time.Time
	logger        zerolog.Logger
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.checkInterval = d
		}
	}
}

func WithCalculator(c TriggerCalculator) Option {
	return func(s *Scheduler) { s.calc = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

func New(store EventStore, notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:         store,
		notifier:      notifier,
		checkInterval: 1 * time.Minute,
		notifyCh:      make(chan struct{}, 1),
		now:           time.Now,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Trigger computes the next trigger of event against the scheduler clock.
func (s *Scheduler) Trigger(event *models.Event) (ScheduledTrigger, error) {
	return s.calc.Compute(event, s.now())
}

// Arm computes and stores the trigger of an already persisted event, then
// wakes the loop.
func (s *Scheduler) Arm(ctx context.Context, event *models.Event) (ScheduledTrigger, error) {
	trig, err := s.Trigger(event)
	if err != nil {
		return ScheduledTrigger{}, err
	}
	if err := s.store.SetTrigger(ctx, event.EventID, &trig.TriggerAt); err != nil {
		return ScheduledTrigger{}, fmt.Errorf("failed to store trigger: %w", err)
	}
	event.TriggerAt = &trig.TriggerAt
	s.Notify()
	return trig, nil
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info().Dur("interval", s.checkInterval).Msg("scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			s.logger.Debug().Msg("scheduler triggered by notification")
			s.check(ctx)
		}
	}
}

// check delivers every due event. Daily events are re-armed for their next
// occurrence, one-off events are marked notified. An event whose delivery
// fails stays due and is retried on the next check.
func (s *Scheduler) check(ctx context.Context) {
	now := s.now()
	events, err := s.store.GetDue(ctx, now)
	if err != nil {
		s.logger.Error().Stack().Err(err).Msg("failed to get due events")
		return
	}

	for _, event := range events {
		log := s.logger.With().Int64("event_id", event.EventID).Int64("chat_id", event.ChatID).Logger()

		if err := s.notifier.NotifyEvent(ctx, event); err != nil {
			log.Error().Stack().Err(err).Msg("failed to send reminder")
			continue
		}

		if !event.IsDaily() {
			if err := s.store.MarkNotified(ctx, event.EventID); err != nil {
				log.Error().Stack().Err(err).Msg("failed to mark event notified")
			}
			log.Info().Msg("sent reminder")
			continue
		}

		trig, err := s.calc.Compute(event, now)
		if err != nil {
			log.Error().Stack().Err(err).Msg("failed to compute next daily trigger")
			continue
		}
		if err := s.store.SetTrigger(ctx, event.EventID, &trig.TriggerAt); err != nil {
			log.Error().Stack().Err(err).Msg("failed to re-arm daily reminder")
			continue
		}
		log.Info().Time("next", trig.TriggerAt).Msg("sent daily reminder")
	}
}
