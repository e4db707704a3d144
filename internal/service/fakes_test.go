package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/model"
)

type fakeSelections struct {
	mu     sync.Mutex
	byUser map[int64][]model.Selection
	err    error
}

func newFakeSelections() *fakeSelections {
	return &fakeSelections{byUser: make(map[int64][]model.Selection)}
}

func (f *fakeSelections) List(_ context.Context, userID int64) ([]model.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := append([]model.Selection(nil), f.byUser[userID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeSelections) Add(_ context.Context, userID int64, code string, limit int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.byUser[userID]) >= limit {
		return false, nil
	}
	pos := 0
	for _, s := range f.byUser[userID] {
		if s.CourseCode == code {
			return false, nil
		}
		pos = max(pos, s.Position)
	}
	f.byUser[userID] = append(f.byUser[userID], model.Selection{UserID: userID, CourseCode: code, Position: pos + 1, CreatedAt: time.Now()})
	return true, nil
}

func (f *fakeSelections) Remove(_ context.Context, userID int64, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.byUser[userID]
	for i, s := range list {
		if s.CourseCode == code {
			f.byUser[userID] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSelections) Clear(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.byUser[userID]))
	delete(f.byUser, userID)
	return n, nil
}

type fakeUsers struct {
	byTelegram map[int64]*model.User
	nextID     int64
	updates    int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byTelegram: make(map[int64]*model.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	if _, ok := f.byTelegram[user.TelegramID]; ok {
		return errors.New("duplicate telegram id")
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	u := *user
	f.byTelegram[user.TelegramID] = &u
	return nil
}

func (f *fakeUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	u, ok := f.byTelegram[telegramID]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) Update(_ context.Context, user *model.User) error {
	f.updates++
	u := *user
	f.byTelegram[user.TelegramID] = &u
	return nil
}
