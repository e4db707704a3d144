package service

import (
	"errors"

	"github.com/Freeeeeet/timetable_bot/internal/timetable"
)

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrAlreadySelected   = errors.New("course already selected")
	ErrNotSelected       = errors.New("course is not selected")
	ErrNoTimetable       = errors.New("timetable has not been imported yet")
	ErrTooManySelections = timetable.ErrTooManySelections
)
