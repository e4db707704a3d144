package handlers

import (
	"context"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireUser проверяет что пользователь существует
// Возвращает user и true если OK, nil и false если нет
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	return h.lookupUser(ctx, b, update.Message.From.ID, update.Message.Chat.ID)
}

// lookupUser ищет зарегистрированного пользователя и сообщает в чат если его нет
func (h *Handlers) lookupUser(ctx context.Context, b *bot.Bot, telegramID, chatID int64) (*model.User, bool) {
	user, err := h.userService.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}

	if user == nil {
		h.sendError(ctx, b, chatID, "❌ Пользователь не найден. Используйте /start для регистрации.")
		return nil, false
	}

	return user, true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendReply отправляет ответ с клавиатурой и логирует если не удалось
func (h *Handlers) sendReply(ctx context.Context, b *bot.Bot, chatID int64, r reply) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   r.text,
	}
	if r.keyboard != nil {
		params.ReplyMarkup = r.keyboard
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// editReply заменяет текст и клавиатуру сообщения с inline кнопками
func (h *Handlers) editReply(ctx context.Context, b *bot.Bot, msg *models.Message, r reply) {
	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      r.text,
	}
	if r.keyboard != nil {
		params.ReplyMarkup = r.keyboard
	}

	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Error("Failed to edit message",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int("message_id", msg.ID),
			zap.Error(err),
		)
	}
}
