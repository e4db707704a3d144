package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/controller/state"
	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	// Регистрируем пользователя
	registeredUser, err := h.userService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	h.stateManager.ClearState(user.ID)

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Я помогу собрать расписание на семестр: выберите до %d курсов, "+
			"и я покажу недельную сетку и пересечения занятий.\n\n"+
			"%s",
		registeredUser.FirstName,
		timetable.MaxSelections,
		commandList,
	)

	h.sendReply(ctx, b, update.Message.Chat.ID, reply{text: welcomeText})
}

const commandList = "Доступные команды:\n" +
	"/courses ЗАПРОС - Найти курс\n" +
	"/add КОД - Добавить курс\n" +
	"/remove КОД - Убрать курс\n" +
	"/my - Мои курсы\n" +
	"/grid - Недельная сетка (картинка)\n" +
	"/conflicts - Пересечения занятий\n" +
	"/ics - Календарь на семестр\n" +
	"/clear - Очистить выбор\n" +
	"/status - Последняя загрузка расписания\n" +
	"/cancel - Отменить текущий ввод\n" +
	"/help - Справка"

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		commandList + "\n\n" +
		"Курс ищется по коду или названию без учёта регистра. " +
		"Код можно вводить с пробелами: «cs 101» и «CS101» одно и то же.\n" +
		fmt.Sprintf("Одновременно можно выбрать не больше %d курсов.", timetable.MaxSelections)

	h.sendReply(ctx, b, update.Message.Chat.ID, reply{text: helpText})
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ResetState(telegramID)

	h.sendReply(ctx, b, update.Message.Chat.ID, reply{
		text: "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.",
	})
}

// HandleStatus обрабатывает команду /status - сведения о последнем импорте
func (h *Handlers) HandleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendReply(ctx, b, update.Message.Chat.ID, h.statusReply(ctx))
}

func (h *Handlers) statusReply(ctx context.Context) reply {
	run, err := h.timetableService.LatestRun(ctx)
	if errors.Is(err, service.ErrNoTimetable) {
		return reply{text: "📭 Расписание ещё не загружено."}
	}
	if err != nil {
		h.logger.Error("Failed to get latest import run", zap.Error(err))
		return reply{text: "❌ Не удалось получить сведения о расписании."}
	}
	return reply{text: FormatImportRun(run)}
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
		return
	}

	h.logger.Info("Handling dialog step",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	switch currentState {
	case state.StateSearchingCourses:
		h.stateManager.ResetState(telegramID)
		h.sendReply(ctx, b, chatID, h.searchReply(ctx, telegramID, text, 0))
	case state.StateAddingCourse, state.StateRemovingCourse:
		user, ok := h.lookupUser(ctx, b, telegramID, chatID)
		if !ok {
			return
		}
		h.stateManager.ResetState(telegramID)
		if currentState == state.StateAddingCourse {
			h.sendReply(ctx, b, chatID, h.addReply(ctx, user.ID, text))
		} else {
			h.sendReply(ctx, b, chatID, h.removeReply(ctx, user.ID, text))
		}
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}
