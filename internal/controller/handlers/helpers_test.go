package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/stretchr/testify/assert"
)

func TestPluralizeCourses(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{1, "курс"},
		{2, "курса"},
		{4, "курса"},
		{5, "курсов"},
		{11, "курсов"},
		{12, "курсов"},
		{21, "курс"},
		{22, "курса"},
		{111, "курсов"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PluralizeCourses(tt.count), "count %d", tt.count)
	}
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/add CS101", "CS101"},
		{"/add   cs 101  ", "cs 101"},
		{"/courses@timetable_bot fluid mech", "fluid mech"},
		{"/my", ""},
		{"  fluid  ", "fluid"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, commandArgs(tt.text), tt.text)
	}
}

func TestFormatSelection(t *testing.T) {
	assert.Contains(t, FormatSelection(nil), "не выбрали")

	text := FormatSelection([]model.Course{
		{Code: "CE612", Display: "CE612 - Fluid Mechanics", Instructor: "Dr. Rao"},
		{Code: "XX1", Display: "XX1"},
	})
	assert.Equal(t, "📚 Выбрано 2 курса из 6:\n\n1. CE612 - Fluid Mechanics\n   👤 Dr. Rao\n2. XX1", text)
}

func TestFormatConflictsLimit(t *testing.T) {
	c := timetable.Conflict{
		Day:    model.DayTue,
		Start:  "10:00",
		End:    "10:30",
		First:  model.Meeting{DisplayCourse: "A1 - A", Venue: "L1"},
		Second: model.Meeting{DisplayCourse: "B1 - B", Venue: "L2"},
	}

	text := FormatConflicts([]timetable.Conflict{c, c, c}, 2)
	assert.Contains(t, text, "Найдено 3 пересечения")
	assert.Contains(t, text, "Вторник 10:00-10:30\n  • A1 - A @ L1\n  • B1 - B @ L2")
	assert.Contains(t, text, "… и ещё 1")
}

func TestFormatImportRun(t *testing.T) {
	run := &model.ImportRun{
		Source:    "timetable.xlsx",
		StartedAt: time.Date(2026, time.March, 2, 9, 5, 0, 0, time.UTC),
		Courses:   120,
		Meetings:  431,
		Issues:    3,
	}

	text := FormatImportRun(run)
	assert.Contains(t, text, "02.03.2026 09:05")
	assert.Contains(t, text, "Курсов: 120")
	assert.Contains(t, text, "Проблем разбора: 3")
}
