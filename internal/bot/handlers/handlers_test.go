package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/Organizer/internal/assistant"
	"github.com/hray3182/Organizer/internal/intent"
	"github.com/hray3182/Organizer/internal/models"
	"github.com/hray3182/Organizer/internal/repository"
	"github.com/hray3182/Organizer/internal/scheduler"
)

const (
	testChatID int64 = 42
	testUserID int64 = 7
)

var testNow = time.Date(2026, time.October, 14, 10, 30, 0, 0, time.UTC)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

func (s *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *fakeSender) messages() []tgbotapi.MessageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range s.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (s *fakeSender) edits() []tgbotapi.EditMessageTextConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tgbotapi.EditMessageTextConfig
	for _, c := range s.sent {
		if m, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

type fakeInterpreter struct {
	action assistant.Action
	seen   []intent.Utterance
}

func (f *fakeInterpreter) Classify(_ context.Context, u intent.Utterance) assistant.Action {
	f.seen = append(f.seen, u)
	return f.action
}

type fakeEvents struct {
	mu        sync.Mutex
	created   []models.Event
	listed    []*models.Event
	deleted   []int64
	createErr error
	deleteErr error
}

func (f *fakeEvents) Create(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	e.EventID = int64(len(f.created) + 1)
	f.created = append(f.created, *e)
	return nil
}

func (f *fakeEvents) GetByID(_ context.Context, eventID int64) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.listed {
		if e.EventID == eventID {
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeEvents) GetByChatID(_ context.Context, chatID int64) ([]*models.Event, error) {
	return f.listed, nil
}

func (f *fakeEvents) Delete(_ context.Context, eventID, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

type fakeScheduler struct {
	mu       sync.Mutex
	calc     scheduler.TriggerCalculator
	notified int
}

func (f *fakeScheduler) Trigger(e *models.Event) (scheduler.ScheduledTrigger, error) {
	return f.calc.Compute(e, testNow)
}

func (f *fakeScheduler) Notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified++
}

type fixture struct {
	h      *Handlers
	api    *fakeSender
	interp *fakeInterpreter
	events *fakeEvents
	sched  *fakeScheduler
}

func newFixture(action assistant.Action) *fixture {
	f := &fixture{
		api:    &fakeSender{},
		interp: &fakeInterpreter{action: action},
		events: &fakeEvents{},
		sched:  &fakeScheduler{},
	}
	f.h = New(f.api, f.interp, f.events, f.sched, WithClock(func() time.Time { return testNow }))
	return f
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: testUserID, FirstName: "Ana"},
		Chat:      &tgbotapi.Chat{ID: testChatID},
		Text:      text,
	}
}

func commandMessage(text, command string) *tgbotapi.Message {
	msg := textMessage(text)
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}}
	return msg
}

func callback(data string, from int64) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: from},
		Message: &tgbotapi.Message{MessageID: 100, Chat: &tgbotapi.Chat{ID: testChatID}},
		Data:    data,
	}
}

// buttons returns the confirm and cancel callback data of a prompt.
func buttons(t *testing.T, msg tgbotapi.MessageConfig) (string, string) {
	t.Helper()
	require.IsType(t, tgbotapi.InlineKeyboardMarkup{}, msg.ReplyMarkup)
	keyboard := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, keyboard.InlineKeyboard, 1)
	require.Len(t, keyboard.InlineKeyboard[0], 2)
	return *keyboard.InlineKeyboard[0][0].CallbackData, *keyboard.InlineKeyboard[0][1].CallbackData
}

func appointment(date, clock string) assistant.Action {
	return assistant.Action{
		Category: intent.Agenda,
		Response: "✅ Cita agendada: Consulta Médica para el " + date + " a las " + clock,
		Effect: assistant.PersistEvent{Event: models.Event{
			Title:               "Consulta Médica",
			Type:                models.EventTypeAppointment,
			Date:                date,
			Time:                clock,
			ReminderLeadMinutes: 30,
			Status:              models.StatusPending,
		}},
	}
}

func TestHandleMessage_PlainReply(t *testing.T) {
	f := newFixture(assistant.Action{Category: intent.GeneralChat, Response: "¡Hola! ¿En qué puedo ayudarte?"})

	f.h.HandleMessage(context.Background(), textMessage("hola"))

	msgs := f.api.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, testChatID, msgs[0].ChatID)
	assert.Equal(t, "¡Hola! ¿En qué puedo ayudarte?", msgs[0].Text)
	assert.Nil(t, msgs[0].ReplyMarkup)
	require.Len(t, f.interp.seen, 1)
	assert.Equal(t, intent.Utterance{Text: "hola", Modality: intent.ModalityText}, f.interp.seen[0])
}

func TestHandleMessage_EmptyTextIsNotClassified(t *testing.T) {
	f := newFixture(assistant.Action{})

	f.h.HandleMessage(context.Background(), textMessage("  "))

	assert.Empty(t, f.interp.seen)
	assert.Len(t, f.api.messages(), 1)
}

func TestHandleMessage_LinksRunImmediately(t *testing.T) {
	f := newFixture(assistant.Action{
		Category: intent.Emergency,
		Response: "🚨 Llamando a contacto de emergencia...",
		Effect:   assistant.OpenDialer{Number: "911"},
	})

	f.h.HandleMessage(context.Background(), textMessage("emergencia"))

	msgs := f.api.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "🚨 Llamando a contacto de emergencia...", msgs[0].Text)
	assert.Contains(t, msgs[1].Text, "tel:911")
	assert.Empty(t, f.h.pending.pending)
}

func TestConfirmationFlow_PersistsOnce(t *testing.T) {
	f := newFixture(appointment("15/10/2026", "10:00"))

	f.h.HandleMessage(context.Background(), textMessage("cita con el doctor mañana a las 10"))

	msgs := f.api.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "¿Confirmas?")
	confirm, cancel := buttons(t, msgs[0])
	assert.Equal(t, "confirm:7:1", confirm)
	assert.Equal(t, "cancel:7:1", cancel)
	assert.Empty(t, f.events.created)

	f.h.HandleCallbackQuery(context.Background(), callback(confirm, testUserID))
	f.h.HandleCallbackQuery(context.Background(), callback(confirm, testUserID))

	require.Len(t, f.events.created, 1)
	created := f.events.created[0]
	assert.Equal(t, testChatID, created.ChatID)
	require.NotNil(t, created.TriggerAt)
	assert.Equal(t, time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC), *created.TriggerAt)
	assert.Equal(t, 1, f.sched.notified)

	edits := f.api.edits()
	require.Len(t, edits, 2)
	assert.Contains(t, edits[0].Text, "#1 Consulta Médica")
	assert.Contains(t, edits[0].Text, "15/10/2026 a las 09:30")
	assert.Equal(t, "⏰ La confirmación expiró", edits[1].Text)
}

func TestConfirmationFlow_Cancel(t *testing.T) {
	f := newFixture(appointment("15/10/2026", "10:00"))

	f.h.HandleMessage(context.Background(), textMessage("cita"))
	_, cancel := buttons(t, f.api.messages()[0])
	f.h.HandleCallbackQuery(context.Background(), callback(cancel, testUserID))

	assert.Empty(t, f.events.created)
	edits := f.api.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, "❌ Operación cancelada", edits[0].Text)
}

func TestConfirmationFlow_OtherUserIsRejected(t *testing.T) {
	f := newFixture(appointment("15/10/2026", "10:00"))

	f.h.HandleMessage(context.Background(), textMessage("cita"))
	confirm, _ := buttons(t, f.api.messages()[0])
	f.h.HandleCallbackQuery(context.Background(), callback(confirm, 99))

	assert.Empty(t, f.events.created)
	require.Len(t, f.api.requests, 2)
	alert, ok := f.api.requests[1].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.True(t, alert.ShowAlert)

	// The rightful owner can still confirm.
	f.h.HandleCallbackQuery(context.Background(), callback(confirm, testUserID))
	assert.Len(t, f.events.created, 1)
}

func TestConfirmationFlow_StalePromptDoesNotRunNewerOne(t *testing.T) {
	f := newFixture(appointment("15/10/2026", "10:00"))
	f.h.HandleMessage(context.Background(), textMessage("cita el jueves"))

	f.interp.action = appointment("16/10/2026", "18:00")
	f.h.HandleMessage(context.Background(), textMessage("cita el viernes"))

	msgs := f.api.messages()
	require.Len(t, msgs, 2)
	firstConfirm, _ := buttons(t, msgs[0])
	secondConfirm, _ := buttons(t, msgs[1])
	assert.NotEqual(t, firstConfirm, secondConfirm)

	f.h.HandleCallbackQuery(context.Background(), callback(firstConfirm, testUserID))
	assert.Empty(t, f.events.created)
	edits := f.api.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, "⏰ La confirmación expiró", edits[0].Text)

	// The newer prompt is still pending and runs its own effect.
	f.h.HandleCallbackQuery(context.Background(), callback(secondConfirm, testUserID))
	require.Len(t, f.events.created, 1)
	assert.Equal(t, "16/10/2026", f.events.created[0].Date)
}

func TestHandleCallbackQuery_MalformedDataIsIgnored(t *testing.T) {
	f := newFixture(appointment("15/10/2026", "10:00"))
	f.h.HandleMessage(context.Background(), textMessage("cita"))

	for _, data := range []string{"confirm:7", "confirm:7:x", "confirm:x:1", ""} {
		f.h.HandleCallbackQuery(context.Background(), callback(data, testUserID))
	}

	assert.Empty(t, f.events.created)
	assert.Empty(t, f.api.edits())
	assert.Len(t, f.h.pending.pending, 1)
}

func TestExecute_TooLateIsNotStored(t *testing.T) {
	f := newFixture(assistant.Action{})

	got := f.h.Execute(context.Background(), testChatID, appointment("13/10/2026", "10:00").Effect)

	assert.Contains(t, got, "ya pasó")
	assert.Empty(t, f.events.created)
	assert.Zero(t, f.sched.notified)
}

func TestExecute_InvalidTime(t *testing.T) {
	f := newFixture(assistant.Action{})

	got := f.h.Execute(context.Background(), testChatID, appointment("15/10/2026", "99:00").Effect)

	assert.Contains(t, got, "No entendí")
	assert.Empty(t, f.events.created)
}

func TestExecute_StoreFailure(t *testing.T) {
	f := newFixture(assistant.Action{})
	f.events.createErr = errors.New("connection refused")

	got := f.h.Execute(context.Background(), testChatID, appointment("15/10/2026", "10:00").Effect)

	assert.Contains(t, got, "No pude guardarlo")
	assert.Zero(t, f.sched.notified)
}

func TestExecute_DailyReminder(t *testing.T) {
	f := newFixture(assistant.Action{})
	effect := assistant.PersistEvent{Event: models.Event{
		Title:  "💊 Tomar Medicina",
		Type:   models.EventTypeDailyReminder,
		Date:   models.DailyDate,
		Time:   "08:00",
		Status: models.StatusActive,
	}}

	f.h.Execute(context.Background(), testChatID, effect)

	require.Len(t, f.events.created, 1)
	assert.Equal(t, time.Date(2026, time.October, 15, 8, 0, 0, 0, time.UTC), *f.events.created[0].TriggerAt)
}

func TestExecute_Links(t *testing.T) {
	f := newFixture(assistant.Action{})
	ctx := context.Background()

	assert.Contains(t, f.h.Execute(ctx, testChatID, assistant.OpenMap{Destination: "Hospital Central"}),
		"https://www.google.com/maps/dir/?api=1&destination=Hospital+Central")
	assert.Contains(t, f.h.Execute(ctx, testChatID, assistant.OpenBrowser{Query: "volcanes"}),
		"https://www.google.com/search?q=volcanes")
	assert.Contains(t, f.h.Execute(ctx, testChatID, assistant.OpenBrowser{Query: "x", URL: "https://example.com"}),
		"https://example.com")
	assert.Contains(t, f.h.Execute(ctx, testChatID, assistant.OpenContacts{Name: "Ana"}), "Ana")
	assert.Contains(t, f.h.Execute(ctx, testChatID, assistant.OpenContacts{}), "contactos")
}

func TestHandleCommand_EventList(t *testing.T) {
	f := newFixture(assistant.Action{})
	trigger := testNow.Add(time.Hour)
	f.events.listed = []*models.Event{
		{EventID: 3, Title: "Reunión", Date: "15/10/2026", Time: "11:00", TriggerAt: &trigger},
		{EventID: 4, Title: "💊 Tomar Medicina", Date: models.DailyDate, Time: "08:00"},
	}

	f.h.HandleCommand(context.Background(), commandMessage("/agenda", "/agenda"))

	msgs := f.api.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "#3 Reunión")
	assert.Contains(t, msgs[0].Text, "15/10/2026 11:00")
	assert.Contains(t, msgs[0].Text, "todos los días a las 08:00")
	assert.NotContains(t, msgs[0].Text, "**")
	assert.NotEmpty(t, msgs[0].Entities)
}

func TestHandleCommand_Delete(t *testing.T) {
	f := newFixture(assistant.Action{})
	f.events.listed = []*models.Event{
		{EventID: 12, ChatID: testChatID, Title: "Consulta Médica"},
		{EventID: 13, ChatID: 1000, Title: "Ajeno"},
	}

	f.h.HandleCommand(context.Background(), commandMessage("/borrar #12", "/borrar"))
	assert.Equal(t, []int64{12}, f.events.deleted)

	f.h.HandleCommand(context.Background(), commandMessage("/borrar doce", "/borrar"))
	f.h.HandleCommand(context.Background(), commandMessage("/borrar 99", "/borrar"))
	f.h.HandleCommand(context.Background(), commandMessage("/borrar 13", "/borrar"))
	assert.Len(t, f.events.deleted, 1)

	f.events.deleteErr = errors.New("connection reset")
	f.h.HandleCommand(context.Background(), commandMessage("/borrar 12", "/borrar"))

	msgs := f.api.messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, "🗑️ Evento #12 borrado: Consulta Médica", msgs[0].Text)
	assert.Contains(t, msgs[1].Text, "Uso: /borrar")
	assert.Contains(t, msgs[2].Text, "No encontré el evento #99")
	assert.Contains(t, msgs[3].Text, "No encontré el evento #13")
	assert.Contains(t, msgs[4].Text, "No pude borrar")
}

func TestDevModeAppendsClassification(t *testing.T) {
	f := newFixture(assistant.Action{
		Category:   intent.Search,
		Parameters: map[string]string{"query": "volcanes", "explain": "true"},
		Response:   "🔍 Buscando",
	})
	f.h.devMode = true

	f.h.HandleMessage(context.Background(), textMessage("qué es un volcán"))

	msgs := f.api.messages()
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0].Text, "search\nexplain=true\nquery=volcanes")
}
