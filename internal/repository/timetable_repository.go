package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TimetableRepository хранит текущие таблицы курсов и занятий
type TimetableRepository struct {
	*base.Repository
}

func NewTimetableRepository(pool *pgxpool.Pool) *TimetableRepository {
	return &TimetableRepository{Repository: base.NewRepository(pool)}
}

// Replace атомарно заменяет курсы, занятия и диагностику результатом прогона импорта
// и записывает сам прогон
func (r *TimetableRepository) Replace(ctx context.Context, run *model.ImportRun, courses []model.Course, meetings []model.Meeting, issues []model.ParseIssue) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM meetings`); err != nil {
			return fmt.Errorf("clear meetings: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM courses`); err != nil {
			return fmt.Errorf("clear courses: %w", err)
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO import_runs (id, source, row_count, courses, meetings, issues, started_at, finished_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, run.ID, run.Source, run.Rows, run.Courses, run.Meetings, run.Issues, run.StartedAt, run.FinishedAt)
		if err != nil {
			return fmt.Errorf("insert import run: %w", err)
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"courses"},
			[]string{"code", "title", "display", "instructor", "raw_name", "position"},
			pgx.CopyFromSlice(len(courses), func(i int) ([]any, error) {
				c := courses[i]
				return []any{c.Code, c.Title, c.Display, c.Instructor, c.RawName, i}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy courses: %w", err)
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"meetings"},
			[]string{"course_code", "course_title", "display_course", "instructor", "day", "start_time", "end_time", "venue", "position"},
			pgx.CopyFromSlice(len(meetings), func(i int) ([]any, error) {
				m := meetings[i]
				return []any{m.CourseCode, m.CourseTitle, m.DisplayCourse, m.Instructor, string(m.Day), m.StartTime, m.EndTime, m.Venue, i}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy meetings: %w", err)
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"parse_issues"},
			[]string{"run_id", "row_no", "kind", "course", "raw_time", "raw_venue", "detail"},
			pgx.CopyFromSlice(len(issues), func(i int) ([]any, error) {
				is := issues[i]
				return []any{run.ID, is.Row, string(is.Kind), is.Course, is.RawTime, is.RawVenue, is.Detail}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy parse issues: %w", err)
		}

		return nil
	})
}

// ListCourses возвращает курсы в порядке первого появления в источнике
func (r *TimetableRepository) ListCourses(ctx context.Context) ([]model.Course, error) {
	query := `
		SELECT code, title, display, instructor, raw_name
		FROM courses
		ORDER BY position
	`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.Code, &c.Title, &c.Display, &c.Instructor, &c.RawName); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	return courses, nil
}

// ListMeetings возвращает все занятия в порядке таблицы
func (r *TimetableRepository) ListMeetings(ctx context.Context) ([]model.Meeting, error) {
	query := `
		SELECT course_code, course_title, display_course, instructor, day, start_time, end_time, venue
		FROM meetings
		ORDER BY position
	`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []model.Meeting
	for rows.Next() {
		var m model.Meeting
		err := rows.Scan(
			&m.CourseCode,
			&m.CourseTitle,
			&m.DisplayCourse,
			&m.Instructor,
			&m.Day,
			&m.StartTime,
			&m.EndTime,
			&m.Venue,
		)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meetings: %w", err)
	}

	return meetings, nil
}
