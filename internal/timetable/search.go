package timetable

import (
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"golang.org/x/text/cases"
)

// SearchCourses фильтрует курсы по подстроке в DisplayCourse без учёта регистра.
// Пустой запрос возвращает все курсы. limit <= 0 без ограничения.
func SearchCourses(courses []model.Course, query string, limit int) []model.Course {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	var found []model.Course
	for _, c := range courses {
		if q != "" && !strings.Contains(fold.String(c.Display), q) {
			continue
		}
		found = append(found, c)
		if limit > 0 && len(found) >= limit {
			break
		}
	}
	return found
}

// MeetingsFor возвращает занятия выбранных курсов в исходном порядке
func MeetingsFor(selected Selection, meetings []model.Meeting) []model.Meeting {
	var out []model.Meeting
	for _, m := range meetings {
		if selected.Has(m.CourseCode) {
			out = append(out, m)
		}
	}
	return out
}
