package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticCourses map[string]model.Course

func (s staticCourses) ResolveCourse(_ context.Context, code string) (*model.Course, error) {
	c, ok := s[strings.ToUpper(timetable.NormalizeCode(code))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCourseNotFound, code)
	}
	return &c, nil
}

func coursesFixture(n int) staticCourses {
	courses := make(staticCourses, n)
	for i := 1; i <= n; i++ {
		code := fmt.Sprintf("C%03d", i)
		courses[code] = model.Course{Code: code, Title: "Course", Display: code + " - Course"}
	}
	return courses
}

func TestSelectionServiceAdd(t *testing.T) {
	ctx := context.Background()
	svc := NewSelectionService(newFakeSelections(), coursesFixture(8), zap.NewNop())

	for i := 1; i <= timetable.MaxSelections; i++ {
		course, err := svc.Add(ctx, 1, fmt.Sprintf("C%03d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("C%03d", i), course.Code)
	}

	_, err := svc.Add(ctx, 1, "C007")
	assert.ErrorIs(t, err, ErrTooManySelections)

	_, err = svc.Add(ctx, 1, "C001")
	assert.ErrorIs(t, err, ErrAlreadySelected)

	_, err = svc.Add(ctx, 1, "ZZZ")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	codes, err := svc.Codes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"C001", "C002", "C003", "C004", "C005", "C006"}, codes)

	// выборки пользователей независимы
	_, err = svc.Add(ctx, 2, "C007")
	require.NoError(t, err)
}

func TestSelectionServiceAddConcurrent(t *testing.T) {
	ctx := context.Background()
	store := newFakeSelections()
	svc := NewSelectionService(store, coursesFixture(12), zap.NewNop())

	var (
		wg       sync.WaitGroup
		added    atomic.Int32
		tooMany  atomic.Int32
		otherErr atomic.Int32
	)
	for i := 1; i <= 12; i++ {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			_, err := svc.Add(ctx, 1, code)
			switch {
			case err == nil:
				added.Add(1)
			case errors.Is(err, ErrTooManySelections):
				tooMany.Add(1)
			default:
				otherErr.Add(1)
			}
		}(fmt.Sprintf("C%03d", i))
	}
	wg.Wait()

	assert.Equal(t, int32(timetable.MaxSelections), added.Load())
	assert.Equal(t, int32(12-timetable.MaxSelections), tooMany.Load())
	assert.Zero(t, otherErr.Load())

	codes, err := svc.Codes(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, codes, timetable.MaxSelections)
}

func TestSelectionServiceRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	svc := NewSelectionService(newFakeSelections(), coursesFixture(3), zap.NewNop())

	for _, code := range []string{"C001", "C002", "C003"} {
		_, err := svc.Add(ctx, 1, code)
		require.NoError(t, err)
	}

	require.NoError(t, svc.Remove(ctx, 1, "c 002"))
	assert.ErrorIs(t, svc.Remove(ctx, 1, "C002"), ErrNotSelected)

	codes, err := svc.Codes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"C001", "C003"}, codes)

	// после удаления курс снова можно выбрать, он встаёт в конец
	_, err = svc.Add(ctx, 1, "C002")
	require.NoError(t, err)
	codes, err = svc.Codes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"C001", "C003", "C002"}, codes)

	n, err := svc.Clear(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	codes, err = svc.Codes(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestSelectionServiceStoreError(t *testing.T) {
	store := newFakeSelections()
	store.err = errors.New("connection refused")
	svc := NewSelectionService(store, coursesFixture(1), zap.NewNop())

	_, err := svc.Add(context.Background(), 1, "C001")
	assert.ErrorContains(t, err, "connection refused")
}

func TestUserServiceRegister(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := NewUserService(users, zap.NewNop())

	u, err := svc.RegisterUser(ctx, 42, "alex", "Alex", "", "ru")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	again, err := svc.RegisterUser(ctx, 42, "alex", "Alex", "", "ru")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Zero(t, users.updates)

	renamed, err := svc.RegisterUser(ctx, 42, "alex_k", "Alex", "", "ru")
	require.NoError(t, err)
	assert.Equal(t, "alex_k", renamed.Username)
	assert.Equal(t, 1, users.updates)

	got, err := svc.GetByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "alex_k", got.Username)
}
