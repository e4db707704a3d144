package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/source"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// snapshot текущие таблицы в памяти, неизменяемы после построения
type snapshot struct {
	courses  []model.Course
	meetings []model.Meeting
	byCode   map[string]*model.Course
}

func newSnapshot(courses []model.Course, meetings []model.Meeting) *snapshot {
	s := &snapshot{
		courses:  courses,
		meetings: meetings,
		byCode:   make(map[string]*model.Course, len(courses)),
	}
	for i := range courses {
		s.byCode[courses[i].Code] = &courses[i]
	}
	return s
}

// find ищет курс по коду; регистр и пробелы не важны
func (s *snapshot) find(code string) *model.Course {
	code = timetable.NormalizeCode(code)
	if c, ok := s.byCode[code]; ok {
		return c
	}
	for i := range s.courses {
		if strings.EqualFold(s.courses[i].Code, code) {
			return &s.courses[i]
		}
	}
	return nil
}

// selection приводит коды к виду из таблицы курсов.
// Неизвестные коды остаются в выборке и ничему не соответствуют.
func (s *snapshot) selection(codes []string) timetable.Selection {
	resolved := make([]string, 0, len(codes))
	for _, code := range codes {
		if c := s.find(code); c != nil {
			code = c.Code
		} else {
			code = timetable.NormalizeCode(code)
		}
		resolved = append(resolved, code)
	}
	return timetable.NewSelection(resolved...)
}

// keepImportRuns сколько последних прогонов импорта хранить вместе с их проблемами разбора
const keepImportRuns = 20

type TimetableService struct {
	store  TimetableStore
	runs   ImportRunStore
	opts   timetable.Options
	layout timetable.Layout
	logger *zap.Logger

	mu   sync.RWMutex
	snap *snapshot
}

func NewTimetableService(store TimetableStore, runs ImportRunStore, opts timetable.Options, logger *zap.Logger) *TimetableService {
	return &TimetableService{
		store:  store,
		runs:   runs,
		opts:   opts,
		layout: timetable.DefaultLayout(),
		logger: logger,
	}
}

// Import читает файл расписания и заменяет им текущие таблицы
func (s *TimetableService) Import(ctx context.Context, path string) (*model.ImportRun, error) {
	table, err := source.Open(path, source.Options{})
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return s.ImportTable(ctx, path, table)
}

// ImportTable нормализует таблицу и атомарно сохраняет результат
func (s *TimetableService) ImportTable(ctx context.Context, name string, table *source.Table) (*model.ImportRun, error) {
	run := &model.ImportRun{
		ID:        uuid.New(),
		Source:    name,
		StartedAt: time.Now(),
	}

	res, err := timetable.NormalizeRecords(ctx, table.Header, table.Records, table.Lines, s.opts)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", name, err)
	}

	finished := time.Now()
	run.FinishedAt = &finished
	run.Rows = res.Rows
	run.Courses = len(res.Courses)
	run.Meetings = len(res.Meetings)
	run.Issues = len(res.Issues)

	if err := s.store.Replace(ctx, run, res.Courses, res.Meetings, res.Issues); err != nil {
		return nil, fmt.Errorf("store timetable: %w", err)
	}

	s.mu.Lock()
	s.snap = newSnapshot(res.Courses, res.Meetings)
	s.mu.Unlock()

	if pruned, err := s.runs.DeleteOlderThan(ctx, keepImportRuns); err != nil {
		s.logger.Warn("Failed to prune old import runs", zap.Error(err))
	} else if pruned > 0 {
		s.logger.Debug("Pruned old import runs", zap.Int64("deleted", pruned))
	}

	for _, is := range res.Issues {
		s.logger.Debug("Parse issue",
			zap.Int("row", is.Row),
			zap.String("kind", string(is.Kind)),
			zap.String("course", is.Course),
			zap.String("detail", is.Detail),
		)
	}

	s.logger.Info("Timetable imported",
		zap.String("run_id", run.ID.String()),
		zap.String("source", name),
		zap.Int("rows", run.Rows),
		zap.Int("courses", run.Courses),
		zap.Int("meetings", run.Meetings),
		zap.Int("issues", run.Issues),
		zap.Duration("took", finished.Sub(run.StartedAt)),
	)

	return run, nil
}

// Reload перечитывает таблицы из хранилища
func (s *TimetableService) Reload(ctx context.Context) error {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("load courses: %w", err)
	}
	meetings, err := s.store.ListMeetings(ctx)
	if err != nil {
		return fmt.Errorf("load meetings: %w", err)
	}

	s.mu.Lock()
	s.snap = newSnapshot(courses, meetings)
	s.mu.Unlock()

	s.logger.Info("Timetable loaded",
		zap.Int("courses", len(courses)),
		zap.Int("meetings", len(meetings)),
	)
	return nil
}

// current возвращает снимок таблиц, при первом обращении загружает его из хранилища
func (s *TimetableService) current(ctx context.Context) (*snapshot, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, nil
}

// Courses возвращает все курсы в порядке источника
func (s *TimetableService) Courses(ctx context.Context) ([]model.Course, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.courses, nil
}

// SearchCourses ищет курсы по подстроке в "CODE - TITLE"
func (s *TimetableService) SearchCourses(ctx context.Context, query string, limit int) ([]model.Course, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return timetable.SearchCourses(snap.courses, query, limit), nil
}

// ResolveCourse находит курс по коду; регистр и пробелы не важны
func (s *TimetableService) ResolveCourse(ctx context.Context, code string) (*model.Course, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	if c := snap.find(code); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrCourseNotFound, timetable.NormalizeCode(code))
}

// Meetings возвращает занятия выбранных курсов
func (s *TimetableService) Meetings(ctx context.Context, codes []string) ([]model.Meeting, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return timetable.MeetingsFor(snap.selection(codes), snap.meetings), nil
}

// Lookup что занимает слот [start, end) в день day среди выбранных курсов
func (s *TimetableService) Lookup(ctx context.Context, codes []string, day model.Day, start, end model.Clock) (timetable.CellResult, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return timetable.CellResult{}, err
	}
	selected := snap.selection(codes)
	if err := selected.Validate(); err != nil {
		return timetable.CellResult{}, err
	}
	return timetable.Lookup(selected, day, start, end, snap.meetings), nil
}

// Grid недельная сетка для выбранных курсов
func (s *TimetableService) Grid(ctx context.Context, codes []string) (*timetable.Grid, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return timetable.BuildGrid(s.layout, snap.selection(codes), snap.meetings)
}

// Conflicts пересечения занятий выбранных курсов
func (s *TimetableService) Conflicts(ctx context.Context, codes []string) ([]timetable.Conflict, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	selected := snap.selection(codes)
	if err := selected.Validate(); err != nil {
		return nil, err
	}
	return timetable.FindConflicts(selected, snap.meetings), nil
}

// LatestRun последний завершённый импорт или ErrNoTimetable
func (s *TimetableService) LatestRun(ctx context.Context) (*model.ImportRun, error) {
	run, err := s.runs.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest run: %w", err)
	}
	if run == nil {
		return nil, ErrNoTimetable
	}
	return run, nil
}

// Issues диагностика разбора последнего импорта
func (s *TimetableService) Issues(ctx context.Context) ([]model.ParseIssue, error) {
	run, err := s.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	issues, err := s.runs.ListIssues(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}
