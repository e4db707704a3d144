package timetable

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultCourseColumn     = "Course Name/Group Name"
	DefaultInstructorColumn = "Instructor"

	timeColumnPrefix  = "Time"
	venueColumnPrefix = "Venue"
)

var ErrNoCourseColumn = errors.New("course column not found")

// ColumnPair пара колонок "Time<suffix>" / "Venue<suffix>"
type ColumnPair struct {
	Suffix string
	Time   int
	Venue  int // -1 если парной колонки Venue нет
}

// Schema расположение нужных колонок в заголовке таблицы
type Schema struct {
	Course     int
	Instructor int // -1 если колонки нет
	Pairs      []ColumnPair
}

// SlotCell значения одной пары время/аудитория в строке
type SlotCell struct {
	Time  string
	Venue string
}

// Row строка источника в нейтральном виде
type Row struct {
	Number     int // номер строки в таблице, заголовок = 1
	CourseName string
	Instructor string
	Slots      []SlotCell
}

// DiscoverSchema находит колонки курса, преподавателя и все пары Time*/Venue*.
// Пары идут в порядке колонок Time в заголовке.
func DiscoverSchema(header []string, courseColumn, instructorColumn string) (Schema, error) {
	if courseColumn == "" {
		courseColumn = DefaultCourseColumn
	}
	if instructorColumn == "" {
		instructorColumn = DefaultInstructorColumn
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	course, ok := index[courseColumn]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrNoCourseColumn, courseColumn)
	}

	schema := Schema{Course: course, Instructor: -1}
	if i, ok := index[instructorColumn]; ok {
		schema.Instructor = i
	}

	for i, name := range header {
		name = strings.TrimSpace(name)
		if !strings.HasPrefix(name, timeColumnPrefix) {
			continue
		}
		suffix := strings.TrimPrefix(name, timeColumnPrefix)

		pair := ColumnPair{Suffix: suffix, Time: i, Venue: -1}
		if v, ok := index[venueColumnPrefix+suffix]; ok {
			pair.Venue = v
		}
		schema.Pairs = append(schema.Pairs, pair)
	}

	return schema, nil
}

// Row собирает Row из записи. Недостающие поля считаются пустыми.
func (s Schema) Row(number int, record []string) Row {
	row := Row{
		Number:     number,
		CourseName: field(record, s.Course),
		Instructor: field(record, s.Instructor),
	}
	for _, p := range s.Pairs {
		row.Slots = append(row.Slots, SlotCell{
			Time:  field(record, p.Time),
			Venue: field(record, p.Venue),
		})
	}
	return row
}

// Rows собирает строки данных. lines[i] номер строки записи в источнике;
// без него записи нумеруются подряд со строки 2, сразу под заголовком.
func (s Schema) Rows(records [][]string, lines []int) []Row {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		number := i + 2
		if i < len(lines) {
			number = lines[i]
		}
		rows = append(rows, s.Row(number, rec))
	}
	return rows
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
