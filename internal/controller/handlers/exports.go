package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Freeeeeet/timetable_bot/internal/export"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// attachment файл для отправки в чат
type attachment struct {
	filename string
	data     []byte
	caption  string
}

// HandleGrid обрабатывает команду /grid - картинка недельной сетки
func (h *Handlers) HandleGrid(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	file, r := h.gridImage(ctx, user.ID)
	if file == nil {
		h.sendReply(ctx, b, chatID, r)
		return
	}

	_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: file.filename, Data: bytes.NewReader(file.data)},
		Caption: file.caption,
	})
	if err != nil {
		h.logger.Error("Failed to send grid image", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось отправить картинку. Попробуйте позже.")
	}
}

// gridImage рисует PNG с занятиями выбранных курсов.
// Если картинку построить нельзя, возвращает nil и текст ответа.
func (h *Handlers) gridImage(ctx context.Context, userID int64) (*attachment, reply) {
	codes, ok, r := h.selectedCodes(ctx, userID)
	if !ok {
		return nil, r
	}

	meetings, err := h.timetableService.Meetings(ctx, codes)
	if err != nil {
		h.logger.Error("Failed to get meetings", zap.Int64("user_id", userID), zap.Error(err))
		return nil, reply{text: "❌ Не удалось загрузить расписание. Попробуйте позже."}
	}
	if len(meetings) == 0 {
		return nil, reply{text: "📭 У выбранных курсов нет занятий в расписании."}
	}

	png, err := export.RenderWeekImage(export.WeekImage{
		Title:    "Моё расписание",
		Selected: codes,
		Meetings: meetings,
	})
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Int64("user_id", userID), zap.Error(err))
		return nil, reply{text: "❌ Не удалось построить картинку. Попробуйте позже."}
	}

	caption := fmt.Sprintf("🗓 %d %s, %d %s", len(codes), PluralizeCourses(len(codes)), len(meetings), PluralizeMeetings(len(meetings)))
	if conflicts, err := h.timetableService.Conflicts(ctx, codes); err == nil && len(conflicts) > 0 {
		caption += fmt.Sprintf("\n⚠️ %d %s, подробнее: /conflicts", len(conflicts), PluralizeConflicts(len(conflicts)))
	}

	return &attachment{filename: "timetable.png", data: png, caption: caption}, reply{}
}

// HandleConflicts обрабатывает команду /conflicts
func (h *Handlers) HandleConflicts(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.sendReply(ctx, b, update.Message.Chat.ID, h.conflictsReply(ctx, user.ID))
}

func (h *Handlers) conflictsReply(ctx context.Context, userID int64) reply {
	codes, ok, r := h.selectedCodes(ctx, userID)
	if !ok {
		return r
	}

	conflicts, err := h.timetableService.Conflicts(ctx, codes)
	if err != nil {
		h.logger.Error("Failed to find conflicts", zap.Int64("user_id", userID), zap.Error(err))
		return reply{text: "❌ Не удалось проверить пересечения. Попробуйте позже."}
	}
	return reply{text: FormatConflicts(conflicts, MaxConflictsShown)}
}

// HandleICS обрабатывает команду /ics - календарь на семестр
func (h *Handlers) HandleICS(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	file, r := h.calendarFile(ctx, user.ID)
	if file == nil {
		h.sendReply(ctx, b, chatID, r)
		return
	}

	_, err := b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: file.filename, Data: bytes.NewReader(file.data)},
		Caption:  file.caption,
	})
	if err != nil {
		h.logger.Error("Failed to send calendar", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось отправить календарь. Попробуйте позже.")
	}
}

// calendarFile собирает .ics с еженедельными событиями выбранных курсов
func (h *Handlers) calendarFile(ctx context.Context, userID int64) (*attachment, reply) {
	if h.calendar.SemesterStart.IsZero() {
		return nil, reply{text: "❌ Дата начала семестра не настроена, календарь недоступен."}
	}

	codes, ok, r := h.selectedCodes(ctx, userID)
	if !ok {
		return nil, r
	}

	meetings, err := h.timetableService.Meetings(ctx, codes)
	if err != nil {
		h.logger.Error("Failed to get meetings", zap.Int64("user_id", userID), zap.Error(err))
		return nil, reply{text: "❌ Не удалось загрузить расписание. Попробуйте позже."}
	}
	if len(meetings) == 0 {
		return nil, reply{text: "📭 У выбранных курсов нет занятий в расписании."}
	}

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, meetings, h.calendar); err != nil {
		h.logger.Error("Failed to write calendar", zap.Int64("user_id", userID), zap.Error(err))
		return nil, reply{text: "❌ Не удалось собрать календарь. Попробуйте позже."}
	}

	weeks := h.calendar.Weeks
	if weeks <= 0 {
		weeks = export.DefaultSemesterWeeks
	}
	caption := fmt.Sprintf("📅 %d %s с %s, %d нед.",
		len(meetings), PluralizeMeetings(len(meetings)),
		h.calendar.SemesterStart.Format("02.01.2006"), weeks)

	return &attachment{filename: "timetable.ics", data: buf.Bytes(), caption: caption}, reply{}
}

// selectedCodes коды выбранных курсов; ok=false если выбор пуст или произошла ошибка
func (h *Handlers) selectedCodes(ctx context.Context, userID int64) ([]string, bool, reply) {
	codes, err := h.selectionService.Codes(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to list selections", zap.Int64("user_id", userID), zap.Error(err))
		return nil, false, reply{text: "❌ Произошла ошибка. Попробуйте позже."}
	}
	if len(codes) == 0 {
		return nil, false, reply{text: FormatSelection(nil)}
	}
	return codes, true, reply{}
}
