package service

import (
	"context"
	"sync"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/google/uuid"
)

// TimetableStore хранилище текущих таблиц курсов и занятий
type TimetableStore interface {
	Replace(ctx context.Context, run *model.ImportRun, courses []model.Course, meetings []model.Meeting, issues []model.ParseIssue) error
	ListCourses(ctx context.Context) ([]model.Course, error)
	ListMeetings(ctx context.Context) ([]model.Meeting, error)
}

// ImportRunStore история прогонов импорта
type ImportRunStore interface {
	Latest(ctx context.Context) (*model.ImportRun, error)
	ListIssues(ctx context.Context, runID uuid.UUID) ([]model.ParseIssue, error)
	DeleteOlderThan(ctx context.Context, keep int) (int64, error)
}

// MemoryStore хранилище в памяти для CLI без базы и для тестов
type MemoryStore struct {
	mu       sync.RWMutex
	run      *model.ImportRun
	courses  []model.Course
	meetings []model.Meeting
	issues   []model.ParseIssue
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Replace(_ context.Context, run *model.ImportRun, courses []model.Course, meetings []model.Meeting, issues []model.ParseIssue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := *run
	s.run = &r
	s.courses = append([]model.Course(nil), courses...)
	s.meetings = append([]model.Meeting(nil), meetings...)
	s.issues = append([]model.ParseIssue(nil), issues...)
	return nil
}

func (s *MemoryStore) ListCourses(context.Context) ([]model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Course(nil), s.courses...), nil
}

func (s *MemoryStore) ListMeetings(context.Context) ([]model.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Meeting(nil), s.meetings...), nil
}

func (s *MemoryStore) Latest(context.Context) (*model.ImportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.run == nil {
		return nil, nil
	}
	r := *s.run
	return &r, nil
}

func (s *MemoryStore) ListIssues(_ context.Context, runID uuid.UUID) ([]model.ParseIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.run == nil || s.run.ID != runID {
		return nil, nil
	}
	return append([]model.ParseIssue(nil), s.issues...), nil
}

// DeleteOlderThan в памяти хранится только последний прогон
func (s *MemoryStore) DeleteOlderThan(context.Context, int) (int64, error) {
	return 0, nil
}
