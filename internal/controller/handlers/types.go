package handlers

import (
	"context"

	"github.com/Freeeeeet/timetable_bot/internal/controller/state"
	"github.com/Freeeeeet/timetable_bot/internal/export"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// TimetableService запросы к текущему расписанию
type TimetableService interface {
	SearchCourses(ctx context.Context, query string, limit int) ([]model.Course, error)
	ResolveCourse(ctx context.Context, code string) (*model.Course, error)
	Meetings(ctx context.Context, codes []string) ([]model.Meeting, error)
	Conflicts(ctx context.Context, codes []string) ([]timetable.Conflict, error)
	LatestRun(ctx context.Context) (*model.ImportRun, error)
}

// SelectionService выбор курсов пользователем
type SelectionService interface {
	Codes(ctx context.Context, userID int64) ([]string, error)
	Add(ctx context.Context, userID int64, code string) (*model.Course, error)
	Remove(ctx context.Context, userID int64, code string) error
	Clear(ctx context.Context, userID int64) (int64, error)
}

// UserService регистрация пользователей бота
type UserService interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService      UserService
	timetableService TimetableService
	selectionService SelectionService
	stateManager     *state.Manager
	calendar         export.Calendar
	logger           *zap.Logger
}

// NewHandlers создаёт новый обработчик команд.
// calendar задаёт начало семестра и число недель для /ics.
func NewHandlers(
	userService UserService,
	timetableService TimetableService,
	selectionService SelectionService,
	stateManager *state.Manager,
	calendar export.Calendar,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:      userService,
		timetableService: timetableService,
		selectionService: selectionService,
		stateManager:     stateManager,
		calendar:         calendar,
		logger:           logger,
	}
}

// reply ответ бота: текст и необязательная клавиатура
type reply struct {
	text     string
	keyboard *models.InlineKeyboardMarkup
}
