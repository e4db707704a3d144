package controller

import (
	"context"

	"github.com/Freeeeeet/timetable_bot/internal/controller/handlers"
	"github.com/Freeeeeet/timetable_bot/internal/controller/state"
	"github.com/Freeeeeet/timetable_bot/internal/export"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService handlers.UserService,
	timetableService handlers.TimetableService,
	selectionService handlers.SelectionService,
	calendar export.Calendar,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		userService,
		timetableService,
		selectionService,
		stateManager,
		calendar,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды без аргументов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypeExact, c.handlers.HandleStatus)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/my", bot.MatchTypeExact, c.handlers.HandleMy)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypeExact, c.handlers.HandleClear)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/grid", bot.MatchTypeExact, c.handlers.HandleGrid)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/conflicts", bot.MatchTypeExact, c.handlers.HandleConflicts)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ics", bot.MatchTypeExact, c.handlers.HandleICS)

	// Команды с аргументом: "/add CS101"
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/courses", bot.MatchTypePrefix, c.handlers.HandleCourses)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add", bot.MatchTypePrefix, c.handlers.HandleAdd)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/remove", bot.MatchTypePrefix, c.handlers.HandleRemove)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "courses", Description: "🔎 Найти курс"},
		{Command: "add", Description: "➕ Добавить курс по коду"},
		{Command: "remove", Description: "➖ Убрать курс"},
		{Command: "my", Description: "📚 Мои курсы"},
		{Command: "grid", Description: "🗓 Недельная сетка"},
		{Command: "conflicts", Description: "⚠️ Пересечения занятий"},
		{Command: "ics", Description: "📅 Календарь на семестр"},
		{Command: "clear", Description: "🗑 Очистить выбор"},
		{Command: "status", Description: "🗂 Последняя загрузка расписания"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
