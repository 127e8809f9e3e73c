package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/Organizer/internal/assistant"
	"github.com/hray3182/Organizer/internal/format"
	"github.com/hray3182/Organizer/internal/intent"
)

func (h *Handlers) handleUtterance(ctx context.Context, msg *tgbotapi.Message, u intent.Utterance) {
	log := h.logger.With().Int64("chat_id", msg.Chat.ID).Logger()
	log.Debug().Str("modality", u.Modality.String()).Str("text", u.Text).Msg("incoming utterance")

	action := h.interpreter.Classify(ctx, u)

	log.Debug().
		Str("category", action.Category.String()).
		Interface("params", action.Parameters).
		Bool("has_effect", action.HasEffect()).
		Msg("classified utterance")

	response := action.Response
	if h.devMode {
		response += "\n\n" + describeAction(action)
	}

	if !action.HasEffect() {
		h.sendMessage(msg.Chat.ID, response)
		return
	}

	if !needsConfirmation(action.Effect) {
		h.sendMessage(msg.Chat.ID, response)
		h.sendMessage(msg.Chat.ID, h.Execute(ctx, msg.Chat.ID, action.Effect))
		return
	}

	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}
	h.requestConfirmation(msg.Chat.ID, userID, response, action.Effect)
}

// needsConfirmation reports whether effect changes stored state. Links are
// sent straight away; an emergency call must never wait on a button.
func needsConfirmation(effect assistant.Effect) bool {
	_, ok := effect.(assistant.PersistEvent)
	return ok
}

func (h *Handlers) requestConfirmation(chatID, userID int64, response string, effect assistant.Effect) {
	nonce := h.pending.Put(userID, chatID, effect)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirmar", fmt.Sprintf("confirm:%d:%d", userID, nonce)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancelar", fmt.Sprintf("cancel:%d:%d", userID, nonce)),
		),
	)
	text := fmt.Sprintf("%s\n\n¿Confirmas? %s", response, effect.Describe())
	h.send(chatID, text, keyboard)
}

// describeAction renders the classification for dev mode.
func describeAction(action assistant.Action) string {
	keys := make([]string, 0, len(action.Parameters))
	for k := range action.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("🛠 " + format.Code(action.Category.String()))
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("\n%s=%s", k, action.Parameters[k]))
	}
	return sb.String()
}
