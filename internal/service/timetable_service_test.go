package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/source"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testTable() *source.Table {
	return &source.Table{
		Header: []string{"Course Name/Group Name", "Instructor", "Time", "Venue", "Time.1", "Venue.1"},
		Records: [][]string{
			{"Fluid Mechanics (CE612)", "Dr. Rao", "M (L11) W (L11) 09:00-10:00", "", "", ""},
			{"CS101 - Intro to Programming", "Dr. Das", "M 09:30-10:30", "L1", "Th 14:00-15:00", "L2"},
			{"Linear Algebra (MA201)", "Dr. Roy", "F 11:00-12:00", "L5", "12:00-13:00", ""},
			{"Department notice", "", "", "", "", ""},
		},
	}
}

func newTestService(t *testing.T) (*TimetableService, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc := NewTimetableService(store, store, timetable.Options{}, zap.NewNop())
	_, err := svc.ImportTable(context.Background(), "test.csv", testTable())
	require.NoError(t, err)
	return svc, store
}

func TestTimetableServiceImport(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewTimetableService(store, store, timetable.Options{Workers: 2}, zap.NewNop())

	_, err := svc.LatestRun(ctx)
	assert.ErrorIs(t, err, ErrNoTimetable)

	run, err := svc.ImportTable(ctx, "test.csv", testTable())
	require.NoError(t, err)
	assert.Equal(t, "test.csv", run.Source)
	assert.Equal(t, 4, run.Rows)
	assert.Equal(t, 3, run.Courses)
	assert.Equal(t, 5, run.Meetings)
	assert.Equal(t, 2, run.Issues)
	require.NotNil(t, run.FinishedAt)

	latest, err := svc.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.ID)

	issues, err := svc.Issues(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, model.IssueNoDays, issues[0].Kind)
	assert.Equal(t, model.IssueInvalidCode, issues[1].Kind)

	stored, err := store.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestTimetableServiceImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.csv")
	csv := "Course Name/Group Name,Instructor,Time,Venue\nFluid Mechanics (CE612),Dr. Rao,T 10:00-11:00,L7\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	store := NewMemoryStore()
	svc := NewTimetableService(store, store, timetable.Options{}, zap.NewNop())

	run, err := svc.Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Meetings)

	_, err = svc.Import(context.Background(), filepath.Join(t.TempDir(), "schedule.txt"))
	assert.ErrorIs(t, err, source.ErrUnsupportedSource)
}

func TestTimetableServiceIssueRowsFollowSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.csv")
	csv := "Course Name/Group Name,Instructor,Time,Venue\n" +
		"A (CE612),X,M 09:00-10:00,L1\n" +
		"\n" +
		"B (CE613),X,10:00-11:00,L1\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	store := NewMemoryStore()
	svc := NewTimetableService(store, store, timetable.Options{}, zap.NewNop())

	_, err := svc.Import(context.Background(), path)
	require.NoError(t, err)

	issues, err := svc.Issues(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, model.IssueNoDays, issues[0].Kind)
	assert.Equal(t, 4, issues[0].Row)
}

func TestTimetableServiceImportMissingColumn(t *testing.T) {
	store := NewMemoryStore()
	svc := NewTimetableService(store, store, timetable.Options{}, zap.NewNop())

	_, err := svc.ImportTable(context.Background(), "bad.csv", &source.Table{Header: []string{"Name", "Time"}})
	assert.ErrorIs(t, err, timetable.ErrNoCourseColumn)
}

func TestTimetableServiceQueries(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	found, err := svc.SearchCourses(ctx, "ALGEBRA", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "MA201", found[0].Code)

	course, err := svc.ResolveCourse(ctx, "cs 101")
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.Code)

	_, err = svc.ResolveCourse(ctx, "XX999")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	meetings, err := svc.Meetings(ctx, []string{"CS101"})
	require.NoError(t, err)
	assert.Len(t, meetings, 2)

	cell, err := svc.Lookup(ctx, []string{"CE612", "CS101"}, model.DayMon, model.MustParseClock("09:30"), model.MustParseClock("09:45"))
	require.NoError(t, err)
	assert.Equal(t, timetable.CellConflict, cell.Kind)

	grid, err := svc.Grid(ctx, []string{"CE612", "CS101"})
	require.NoError(t, err)
	assert.True(t, grid.HasConflicts())

	conflicts, err := svc.Conflicts(ctx, []string{"CE612", "CS101", "MA201"})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "09:30", conflicts[0].Start)
	assert.Equal(t, "10:00", conflicts[0].End)

	_, err = svc.Conflicts(ctx, []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7"})
	assert.ErrorIs(t, err, ErrTooManySelections)
}

func TestTimetableServiceQueriesIgnoreCodeCase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	meetings, err := svc.Meetings(ctx, []string{"cs101", "CS 101"})
	require.NoError(t, err)
	assert.Len(t, meetings, 2)

	cell, err := svc.Lookup(ctx, []string{"ce612"}, model.DayMon, model.MustParseClock("09:00"), model.MustParseClock("09:15"))
	require.NoError(t, err)
	assert.Equal(t, timetable.CellSingle, cell.Kind)
	assert.Equal(t, "CE612", cell.CourseCode)

	conflicts, err := svc.Conflicts(ctx, []string{"ce612", "cs101"})
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)

	grid, err := svc.Grid(ctx, []string{"ce612", "Cs101"})
	require.NoError(t, err)
	assert.True(t, grid.HasConflicts())

	// семь вариантов написания одного курса это один выбранный курс
	_, err = svc.Conflicts(ctx, []string{"ce612", "CE612", "Ce612", "cE612", "ce 612", "CE 612", "c e612"})
	assert.NoError(t, err)

	cell, err = svc.Lookup(ctx, []string{"XX999"}, model.DayMon, model.MustParseClock("09:00"), model.MustParseClock("09:15"))
	require.NoError(t, err)
	assert.Equal(t, timetable.CellEmpty, cell.Kind)
}

func TestTimetableServiceLoadsFromStore(t *testing.T) {
	ctx := context.Background()
	_, store := newTestService(t)

	// новый экземпляр сервиса без импорта читает таблицы из хранилища
	fresh := NewTimetableService(store, store, timetable.Options{}, zap.NewNop())
	courses, err := fresh.Courses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 3)
}
