package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/timetable_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCallbackQuery распределяет нажатия inline кнопок
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	data := callback.Data
	h.logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	if data == keyboard.Noop {
		h.answerCallback(ctx, b, callback.ID, "")
		return
	}

	msg := callback.Message.Message
	if msg == nil {
		h.answerCallback(ctx, b, callback.ID, "⌛ Сообщение устарело")
		return
	}

	telegramID := callback.From.ID

	// пагинация поиска не требует регистрации
	if strings.HasPrefix(data, CallbackCoursesPage) {
		page, err := strconv.Atoi(strings.TrimPrefix(data, CallbackCoursesPage))
		query, ok := h.stateManager.GetString(telegramID, state.DataLastQuery)
		if err != nil || !ok {
			h.answerCallback(ctx, b, callback.ID, "⌛ Повторите поиск: /courses")
			return
		}
		h.answerCallback(ctx, b, callback.ID, "")
		h.editReply(ctx, b, msg, h.searchReply(ctx, telegramID, query, page))
		return
	}

	user, ok := h.lookupUser(ctx, b, telegramID, msg.Chat.ID)
	if !ok {
		h.answerCallback(ctx, b, callback.ID, "")
		return
	}

	switch {
	case strings.HasPrefix(data, CallbackAddCourse):
		r := h.addReply(ctx, user.ID, strings.TrimPrefix(data, CallbackAddCourse))
		h.answerCallback(ctx, b, callback.ID, "")
		h.sendReply(ctx, b, msg.Chat.ID, r)
	case strings.HasPrefix(data, CallbackRemoveCourse):
		h.stateManager.ResetState(telegramID)
		r := h.removeReply(ctx, user.ID, strings.TrimPrefix(data, CallbackRemoveCourse))
		h.answerCallback(ctx, b, callback.ID, r.text)
		h.editReply(ctx, b, msg, h.selectionReply(ctx, user.ID))
	case data == CallbackClear:
		h.answerCallback(ctx, b, callback.ID, "")
		h.editReply(ctx, b, msg, reply{
			text: "🗑 Убрать все курсы из списка?",
			keyboard: keyboard.NewBuilder().Row(
				keyboard.Button("✅ Очистить", CallbackClearConfirm),
				keyboard.Button("❌ Отмена", CallbackCancel),
			).Build(),
		})
	case data == CallbackClearConfirm:
		h.stateManager.ResetState(telegramID)
		h.answerCallback(ctx, b, callback.ID, "")
		h.editReply(ctx, b, msg, h.clearReply(ctx, user.ID))
	case data == CallbackCancel:
		h.answerCallback(ctx, b, callback.ID, "Отменено")
		h.editReply(ctx, b, msg, h.selectionReply(ctx, user.ID))
	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		h.answerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}

// answerCallback отвечает на callback query (без alert)
func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		h.logger.Error("Failed to answer callback", zap.Error(err))
	}
}
