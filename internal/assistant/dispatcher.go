package assistant

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/hray3182/Organizer/internal/intent"
)

// Dispatcher classifies utterances and routes them to the processor of their
// category. It keeps no state between calls and is safe for concurrent use.
type Dispatcher struct {
	classifier      intent.Classifier
	processors      map[intent.Category]processor
	agendaLead      int
	emergencyNumber string
	logger          zerolog.Logger
}

type Option func(*Dispatcher)

// WithAgendaLead sets the reminder lead, in minutes, for appointments.
func WithAgendaLead(minutes int) Option {
	return func(d *Dispatcher) {
		if minutes >= 0 {
			d.agendaLead = minutes
		}
	}
}

// WithEmergencyNumber sets the number dialled when an emergency command
// carries none.
func WithEmergencyNumber(number string) Option {
	return func(d *Dispatcher) {
		if number != "" {
			d.emergencyNumber = number
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

func NewDispatcher(classifier intent.Classifier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		classifier:      classifier,
		agendaLead:      DefaultAgendaLeadMinutes,
		emergencyNumber: intent.DefaultEmergencyNumber,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.processors = map[intent.Category]processor{
		intent.Agenda:      d.agenda,
		intent.Reminder:    d.reminder,
		intent.Location:    location,
		intent.Contact:     contact,
		intent.Emergency:   d.emergency,
		intent.Search:      search,
		intent.GeneralChat: chat,
		intent.Unknown:     help,
	}
	return d
}

// Classify processes one utterance. It always returns an Action with a
// non-empty Response, whatever the input or the state of the remote
// endpoint. The Action's Effect is never executed here.
func (d *Dispatcher) Classify(ctx context.Context, u intent.Utterance) (action Action) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Stack().Err(errors.Errorf("panic: %v", r)).Str("text", u.Text).Msg("processing utterance panicked")
			action = help(intent.ParsedCommand{RawText: u.Text})
		}
	}()

	cmd := d.classifier.Classify(ctx, u.Text)
	d.logger.Debug().
		Str("category", cmd.Category.String()).
		Float64("confidence", cmd.Confidence).
		Str("source", string(cmd.Source)).
		Bool("fallback", cmd.Fallback).
		Str("modality", u.Modality.String()).
		Msg("utterance classified")

	return d.Process(cmd)
}

// Process routes an already classified command.
func (d *Dispatcher) Process(cmd intent.ParsedCommand) Action {
	p, ok := d.processors[cmd.Category]
	if !ok {
		p = help
	}
	action := p(cmd)
	if strings.TrimSpace(action.Response) == "" {
		action.Response = HelpText
	}
	if action.Parameters == nil {
		action.Parameters = map[string]string{}
	}
	return action
}
