package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"go.uber.org/zap"
)

// SelectionStore хранилище выбранных курсов
type SelectionStore interface {
	List(ctx context.Context, userID int64) ([]model.Selection, error)
	Add(ctx context.Context, userID int64, code string, limit int) (bool, error)
	Remove(ctx context.Context, userID int64, code string) (bool, error)
	Clear(ctx context.Context, userID int64) (int64, error)
}

// CourseResolver находит курс по введённому коду
type CourseResolver interface {
	ResolveCourse(ctx context.Context, code string) (*model.Course, error)
}

// SelectionService выбор курсов пользователем, не больше timetable.MaxSelections
type SelectionService struct {
	selections SelectionStore
	courses    CourseResolver
	logger     *zap.Logger
}

func NewSelectionService(selections SelectionStore, courses CourseResolver, logger *zap.Logger) *SelectionService {
	return &SelectionService{
		selections: selections,
		courses:    courses,
		logger:     logger,
	}
}

// Codes коды выбранных курсов в порядке выбора
func (s *SelectionService) Codes(ctx context.Context, userID int64) ([]string, error) {
	selections, err := s.selections.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}

	codes := make([]string, 0, len(selections))
	for _, sel := range selections {
		codes = append(codes, sel.CourseCode)
	}
	return codes, nil
}

// Add добавляет курс в выборку пользователя
func (s *SelectionService) Add(ctx context.Context, userID int64, code string) (*model.Course, error) {
	course, err := s.courses.ResolveCourse(ctx, code)
	if err != nil {
		return nil, err
	}

	codes, err := s.Codes(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, c := range codes {
		if c == course.Code {
			return course, ErrAlreadySelected
		}
	}
	if len(codes) >= timetable.MaxSelections {
		return nil, ErrTooManySelections
	}

	added, err := s.selections.Add(ctx, userID, course.Code, timetable.MaxSelections)
	if err != nil {
		return nil, fmt.Errorf("add selection: %w", err)
	}
	if !added {
		// выборка могла измениться между проверкой и вставкой
		codes, err := s.Codes(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, c := range codes {
			if c == course.Code {
				return course, ErrAlreadySelected
			}
		}
		return nil, ErrTooManySelections
	}

	s.logger.Info("Course selected",
		zap.Int64("user_id", userID),
		zap.String("course_code", course.Code),
		zap.Int("selected", len(codes)+1),
	)

	return course, nil
}

// Remove убирает курс из выборки
func (s *SelectionService) Remove(ctx context.Context, userID int64, code string) error {
	code = timetable.NormalizeCode(code)
	if course, err := s.courses.ResolveCourse(ctx, code); err == nil {
		code = course.Code
	}

	removed, err := s.selections.Remove(ctx, userID, code)
	if err != nil {
		return fmt.Errorf("remove selection: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: %q", ErrNotSelected, code)
	}

	s.logger.Info("Course unselected",
		zap.Int64("user_id", userID),
		zap.String("course_code", code),
	)
	return nil
}

// Clear очищает выборку
func (s *SelectionService) Clear(ctx context.Context, userID int64) (int64, error) {
	n, err := s.selections.Clear(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear selections: %w", err)
	}
	return n, nil
}
