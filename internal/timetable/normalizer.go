package timetable

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"golang.org/x/sync/errgroup"
)

// RowResult результат нормализации одной строки
type RowResult struct {
	Row      int
	Course   *model.Course // nil если строка отброшена
	Meetings []model.Meeting
	Issues   []model.ParseIssue
}

// Result таблицы курсов и занятий за один прогон
type Result struct {
	Rows     int
	Courses  []model.Course
	Meetings []model.Meeting
	Issues   []model.ParseIssue
}

// Options настройки нормализации таблицы
type Options struct {
	CourseColumn     string
	InstructorColumn string
	Workers          int // <= 1 означает последовательную обработку
}

// NormalizeRow превращает строку источника в занятия и запись курса.
// Строка с невалидным кодом отбрасывается целиком.
func NormalizeRow(row Row) RowResult {
	res := RowResult{Row: row.Number}

	if isBlankRow(row) {
		return res
	}

	identity := ExtractIdentity(row.CourseName)
	code := NormalizeCode(identity.Code)

	if err := ValidateCode(code); err != nil {
		res.Issues = append(res.Issues, model.ParseIssue{
			Row:    row.Number,
			Kind:   model.IssueInvalidCode,
			Course: row.CourseName,
			Detail: fmt.Sprintf("%s: %q", err, code),
		})
		return res
	}

	display := model.DisplayCourse(code, identity.Title)
	res.Course = &model.Course{
		Code:       code,
		Title:      identity.Title,
		Display:    display,
		Instructor: row.Instructor,
		RawName:    row.CourseName,
	}

	for _, slot := range row.Slots {
		if strings.TrimSpace(slot.Time) == "" {
			continue
		}

		parsed := ParseCellDetailed(slot.Time, slot.Venue)
		for _, si := range parsed.Issues {
			res.Issues = append(res.Issues, model.ParseIssue{
				Row:      row.Number,
				Kind:     si.Kind,
				Course:   display,
				RawTime:  slot.Time,
				RawVenue: slot.Venue,
				Detail:   fmt.Sprintf("%s: %q", si.Detail, si.Segment),
			})
		}
		if len(parsed.Meetings) == 0 && len(parsed.Issues) == 0 {
			res.Issues = append(res.Issues, model.ParseIssue{
				Row:      row.Number,
				Kind:     model.IssueEmptyCell,
				Course:   display,
				RawTime:  slot.Time,
				RawVenue: slot.Venue,
				Detail:   "cell produced no meetings",
			})
		}

		for _, pm := range parsed.Meetings {
			res.Meetings = append(res.Meetings, model.Meeting{
				CourseCode:    code,
				CourseTitle:   identity.Title,
				DisplayCourse: display,
				Instructor:    row.Instructor,
				Day:           pm.Day,
				StartTime:     pm.Start,
				EndTime:       pm.End,
				Venue:         pm.Venue,
			})
		}
	}

	return res
}

func isBlankRow(row Row) bool {
	if strings.TrimSpace(row.CourseName) != "" {
		return false
	}
	for _, s := range row.Slots {
		if strings.TrimSpace(s.Time) != "" {
			return false
		}
	}
	return true
}

// Accumulator сворачивает результаты строк в таблицы с дедупликацией.
// Состояние принадлежит одному прогону, глобальных множеств нет.
type Accumulator struct {
	res          Result
	seenCourses  map[string]struct{}
	seenMeetings map[model.MeetingKey]struct{}
}

// NewAccumulator создаёт пустой аккумулятор
func NewAccumulator() *Accumulator {
	return &Accumulator{
		seenCourses:  make(map[string]struct{}),
		seenMeetings: make(map[model.MeetingKey]struct{}),
	}
}

// Add добавляет результат строки. Порядок вызовов определяет порядок таблиц.
func (a *Accumulator) Add(r RowResult) {
	a.res.Rows++
	a.res.Issues = append(a.res.Issues, r.Issues...)

	if r.Course == nil {
		return
	}

	// курс: первое вхождение кода побеждает
	if _, ok := a.seenCourses[r.Course.Code]; !ok {
		a.seenCourses[r.Course.Code] = struct{}{}
		a.res.Courses = append(a.res.Courses, *r.Course)
	}

	for _, m := range r.Meetings {
		key := m.Key()
		if _, ok := a.seenMeetings[key]; ok {
			continue
		}
		a.seenMeetings[key] = struct{}{}
		a.res.Meetings = append(a.res.Meetings, m)
	}
}

// Result возвращает накопленные таблицы
func (a *Accumulator) Result() Result {
	return a.res
}

// Normalize последовательно нормализует строки
func Normalize(rows []Row) Result {
	acc := NewAccumulator()
	for _, row := range rows {
		acc.Add(NormalizeRow(row))
	}
	return acc.Result()
}

// NormalizeParallel нормализует строки в workers горутин.
// Результат совпадает с Normalize: свёртка идёт в порядке строк.
func NormalizeParallel(ctx context.Context, rows []Row, workers int) (Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]RowResult, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = NormalizeRow(rows[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("normalize rows: %w", err)
	}

	acc := NewAccumulator()
	for _, r := range results {
		acc.Add(r)
	}
	return acc.Result(), nil
}

// NormalizeRecords нормализует таблицу "заголовок + записи", lines номера строк записей в источнике
func NormalizeRecords(ctx context.Context, header []string, records [][]string, lines []int, opts Options) (Result, error) {
	schema, err := DiscoverSchema(header, opts.CourseColumn, opts.InstructorColumn)
	if err != nil {
		return Result{}, err
	}

	rows := schema.Rows(records, lines)
	if opts.Workers <= 1 {
		return Normalize(rows), nil
	}
	return NormalizeParallel(ctx, rows, opts.Workers)
}
