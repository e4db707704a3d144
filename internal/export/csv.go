package export

import (
	"fmt"
	"io"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/gocarina/gocsv"
)

// WriteCoursesCSV пишет таблицу курсов, отсортированную по DisplayCourse
func WriteCoursesCSV(w io.Writer, courses []model.Course) error {
	sorted := SortedCourses(courses)
	if err := gocsv.Marshal(&sorted, w); err != nil {
		return fmt.Errorf("marshal courses: %w", err)
	}
	return nil
}

// WriteMeetingsCSV пишет таблицу занятий
func WriteMeetingsCSV(w io.Writer, meetings []model.Meeting) error {
	if err := gocsv.Marshal(&meetings, w); err != nil {
		return fmt.Errorf("marshal meetings: %w", err)
	}
	return nil
}

// WriteIssuesCSV пишет диагностику разбора
func WriteIssuesCSV(w io.Writer, issues []model.ParseIssue) error {
	if err := gocsv.Marshal(&issues, w); err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}
	return nil
}
