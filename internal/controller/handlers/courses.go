package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/timetable_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/timetable_bot/internal/controller/state"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCourses обрабатывает команду /courses [запрос].
// Без запроса бот ждёт его следующим сообщением.
func (h *Handlers) HandleCourses(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	query := commandArgs(update.Message.Text)
	if query == "" {
		h.stateManager.SetState(telegramID, state.StateSearchingCourses)
		h.sendReply(ctx, b, update.Message.Chat.ID, reply{
			text: "🔎 Введите код или часть названия курса.\n\nДля отмены: /cancel",
		})
		return
	}

	h.stateManager.ResetState(telegramID)
	h.sendReply(ctx, b, update.Message.Chat.ID, h.searchReply(ctx, telegramID, query, 0))
}

// searchReply страница результатов поиска с кнопками добавления.
// Запрос сохраняется в данных диалога для пагинации.
func (h *Handlers) searchReply(ctx context.Context, telegramID int64, query string, page int) reply {
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return reply{text: fmt.Sprintf("❌ Слишком длинный запрос (максимум %d символов).", MaxQueryLength)}
	}

	courses, err := h.timetableService.SearchCourses(ctx, query, 0)
	if err != nil {
		h.logger.Error("Failed to search courses", zap.String("query", query), zap.Error(err))
		return reply{text: "❌ Ошибка при поиске курсов. Попробуйте позже."}
	}

	if len(courses) == 0 {
		return reply{text: fmt.Sprintf("🔎 По запросу «%s» ничего не найдено.", query)}
	}

	h.stateManager.SetData(telegramID, state.DataLastQuery, query)

	start, end, current, pages := keyboard.Page(len(courses), CoursesPerPage, page)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔎 «%s»: %d %s\n\n", query, len(courses), PluralizeCourses(len(courses)))
	kb := keyboard.NewBuilder()
	for _, c := range courses[start:end] {
		fmt.Fprintf(&sb, "• %s\n", FormatCourse(c))
		kb.Row(keyboard.Button("➕ "+c.Display, CallbackAddCourse+c.Code))
	}
	kb.AddPagination(CallbackCoursesPage, current, pages)

	return reply{text: strings.TrimRight(sb.String(), "\n"), keyboard: kb.Build()}
}

// HandleAdd обрабатывает команду /add КОД
func (h *Handlers) HandleAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	code := commandArgs(update.Message.Text)
	if code == "" {
		h.stateManager.SetState(user.TelegramID, state.StateAddingCourse)
		h.sendReply(ctx, b, update.Message.Chat.ID, reply{
			text: "➕ Введите код курса, например CS101.\n\nДля отмены: /cancel",
		})
		return
	}

	h.sendReply(ctx, b, update.Message.Chat.ID, h.addReply(ctx, user.ID, code))
}

// addReply добавляет курс в выборку и описывает результат
func (h *Handlers) addReply(ctx context.Context, userID int64, code string) reply {
	course, err := h.selectionService.Add(ctx, userID, code)
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return reply{text: fmt.Sprintf("❌ Курс «%s» не найден. Попробуйте /courses %s", code, code)}
	case errors.Is(err, service.ErrAlreadySelected):
		return reply{text: fmt.Sprintf("ℹ️ %s уже в вашем списке.", course.Display)}
	case errors.Is(err, service.ErrTooManySelections):
		return reply{text: fmt.Sprintf(
			"❌ Можно выбрать не больше %d курсов.\n\nУберите курс командой /remove КОД или очистите выбор /clear.",
			timetable.MaxSelections,
		)}
	case err != nil:
		h.logger.Error("Failed to add course",
			zap.Int64("user_id", userID),
			zap.String("code", code),
			zap.Error(err))
		return reply{text: "❌ Не удалось добавить курс. Попробуйте позже."}
	}

	text := fmt.Sprintf("✅ Добавлен курс %s", course.Display)
	if course.Instructor != "" {
		text += "\n👤 " + course.Instructor
	}

	// сразу предупреждаем о пересечениях с уже выбранными курсами
	if codes, err := h.selectionService.Codes(ctx, userID); err == nil {
		if conflicts, err := h.timetableService.Conflicts(ctx, codes); err == nil && len(conflicts) > 0 {
			text += fmt.Sprintf("\n\n⚠️ В расписании %d %s, подробнее: /conflicts", len(conflicts), PluralizeConflicts(len(conflicts)))
		}
	}

	return reply{text: text}
}

// HandleRemove обрабатывает команду /remove КОД
func (h *Handlers) HandleRemove(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	code := commandArgs(update.Message.Text)
	if code == "" {
		// без аргумента показываем выбранные курсы с кнопками удаления
		r := h.selectionReply(ctx, user.ID)
		if r.keyboard != nil {
			h.stateManager.SetState(user.TelegramID, state.StateRemovingCourse)
			r.text += "\n\n➖ Нажмите на курс или введите его код. Для отмены: /cancel"
		}
		h.sendReply(ctx, b, update.Message.Chat.ID, r)
		return
	}

	h.sendReply(ctx, b, update.Message.Chat.ID, h.removeReply(ctx, user.ID, code))
}

// removeReply убирает курс из выборки и описывает результат
func (h *Handlers) removeReply(ctx context.Context, userID int64, code string) reply {
	err := h.selectionService.Remove(ctx, userID, code)
	switch {
	case errors.Is(err, service.ErrNotSelected):
		return reply{text: fmt.Sprintf("ℹ️ Курса «%s» нет в вашем списке. Посмотреть список: /my", code)}
	case err != nil:
		h.logger.Error("Failed to remove course",
			zap.Int64("user_id", userID),
			zap.String("code", code),
			zap.Error(err))
		return reply{text: "❌ Не удалось убрать курс. Попробуйте позже."}
	}

	return reply{text: fmt.Sprintf("✅ Курс %s убран из списка.", strings.ToUpper(timetable.NormalizeCode(code)))}
}

// HandleClear обрабатывает команду /clear - просит подтверждение
func (h *Handlers) HandleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	codes, err := h.selectionService.Codes(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list selections", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if len(codes) == 0 {
		h.sendReply(ctx, b, update.Message.Chat.ID, reply{text: "📭 Список курсов и так пуст."})
		return
	}

	kb := keyboard.NewBuilder().Row(
		keyboard.Button("✅ Очистить", CallbackClearConfirm),
		keyboard.Button("❌ Отмена", CallbackCancel),
	)
	h.sendReply(ctx, b, update.Message.Chat.ID, reply{
		text:     fmt.Sprintf("🗑 Убрать все %d %s из списка?", len(codes), PluralizeCourses(len(codes))),
		keyboard: kb.Build(),
	})
}

// clearReply очищает выборку пользователя
func (h *Handlers) clearReply(ctx context.Context, userID int64) reply {
	n, err := h.selectionService.Clear(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to clear selections", zap.Int64("user_id", userID), zap.Error(err))
		return reply{text: "❌ Не удалось очистить список. Попробуйте позже."}
	}
	return reply{text: fmt.Sprintf("🗑 Убрано %d %s. Найти новые: /courses", n, PluralizeCourses(int(n)))}
}

// HandleMy обрабатывает команду /my - выбранные курсы и их занятия
func (h *Handlers) HandleMy(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.sendReply(ctx, b, update.Message.Chat.ID, h.selectionReply(ctx, user.ID))
}

// selectionReply список выбранных курсов с кнопками удаления и расписанием по дням
func (h *Handlers) selectionReply(ctx context.Context, userID int64) reply {
	codes, err := h.selectionService.Codes(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to list selections", zap.Int64("user_id", userID), zap.Error(err))
		return reply{text: "❌ Произошла ошибка. Попробуйте позже."}
	}

	courses := h.resolveCourses(ctx, codes)
	if len(courses) == 0 {
		return reply{text: FormatSelection(nil)}
	}

	text := FormatSelection(courses)
	if meetings, err := h.timetableService.Meetings(ctx, codes); err == nil && len(meetings) > 0 {
		text += "\n\n" + FormatMeetings(meetings)
	}

	kb := keyboard.NewBuilder()
	for _, c := range courses {
		kb.Row(keyboard.Button("➖ "+c.Code, CallbackRemoveCourse+c.Code))
	}
	kb.Row(keyboard.Button("🗑 Очистить всё", CallbackClear))

	return reply{text: text, keyboard: kb.Build()}
}

// resolveCourses курсы по кодам выборки; код, пропавший после повторного импорта,
// показывается без названия
func (h *Handlers) resolveCourses(ctx context.Context, codes []string) []model.Course {
	courses := make([]model.Course, 0, len(codes))
	for _, code := range codes {
		course, err := h.timetableService.ResolveCourse(ctx, code)
		if err != nil || course == nil {
			courses = append(courses, model.Course{Code: code, Display: code + " (нет в текущем расписании)"})
			continue
		}
		courses = append(courses, *course)
	}
	return courses
}
