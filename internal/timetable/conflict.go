package timetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/model"
)

// MaxSelections максимум одновременно выбранных курсов
const MaxSelections = 6

var ErrTooManySelections = fmt.Errorf("at most %d courses can be selected", MaxSelections)

// Selection множество выбранных кодов курсов
type Selection map[string]struct{}

// NewSelection создаёт выборку из кодов, пустые коды пропускаются
func NewSelection(codes ...string) Selection {
	s := make(Selection, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c != "" {
			s[c] = struct{}{}
		}
	}
	return s
}

// Has проверяет выбран ли курс
func (s Selection) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Validate проверяет лимит выбранных курсов
func (s Selection) Validate() error {
	if len(s) > MaxSelections {
		return ErrTooManySelections
	}
	return nil
}

// Codes возвращает отсортированные коды
func (s Selection) Codes() []string {
	codes := make([]string, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// CellKind тип содержимого ячейки сетки
type CellKind int

const (
	CellEmpty CellKind = iota
	CellSingle
	CellConflict
)

func (k CellKind) String() string {
	switch k {
	case CellSingle:
		return "single"
	case CellConflict:
		return "conflict"
	default:
		return "empty"
	}
}

// MarshalText нужен для JSON ответов API
func (k CellKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CellResult результат поиска по ячейке (день, слот)
type CellResult struct {
	Kind       CellKind `json:"kind"`
	CourseCode string   `json:"course_code,omitempty"` // для Single
	Display    string   `json:"display,omitempty"`     // для Single
	Venue      string   `json:"venue,omitempty"`       // для Single
	Displays   []string `json:"displays,omitempty"`    // для Conflict, уникальные курсы
	Codes      []string `json:"codes,omitempty"`       // для Conflict
}

// Text форматирует ячейку как в дашборде: "CODE - TITLE\n@ VENUE" или "CONFLICT: A, B"
func (c CellResult) Text() string {
	switch c.Kind {
	case CellSingle:
		return c.Display + "\n@ " + c.Venue
	case CellConflict:
		return "CONFLICT: " + strings.Join(c.Displays, ", ")
	default:
		return ""
	}
}

// Lookup определяет что занимает слот [slotStart, slotEnd) в день day среди выбранных курсов.
// Несколько занятий одного курса в слоте это не конфликт; конфликт только между разными курсами.
func Lookup(selected Selection, day model.Day, slotStart, slotEnd model.Clock, meetings []model.Meeting) CellResult {
	var (
		codes    []string
		displays []string
		venue    string
		seen     = make(map[string]struct{})
	)

	for _, m := range meetings {
		if m.Day != day || !selected.Has(m.CourseCode) {
			continue
		}
		start, end, ok := m.Interval()
		if !ok || !model.Overlaps(start, end, slotStart, slotEnd) {
			continue
		}
		if _, dup := seen[m.CourseCode]; dup {
			continue
		}
		seen[m.CourseCode] = struct{}{}

		if len(codes) == 0 {
			venue = m.Venue
		}
		codes = append(codes, m.CourseCode)
		displays = append(displays, m.DisplayCourse)
	}

	switch len(codes) {
	case 0:
		return CellResult{Kind: CellEmpty}
	case 1:
		return CellResult{Kind: CellSingle, CourseCode: codes[0], Display: displays[0], Venue: venue}
	default:
		return CellResult{Kind: CellConflict, Displays: displays, Codes: codes}
	}
}

// Conflict пересечение двух занятий разных выбранных курсов
type Conflict struct {
	Day    model.Day     `json:"day"`
	Start  string        `json:"start"`
	End    string        `json:"end"`
	First  model.Meeting `json:"first"`
	Second model.Meeting `json:"second"`
}

// FindConflicts возвращает все попарные пересечения занятий разных выбранных курсов.
// Порядок: день, время начала пересечения, затем порядок занятий в таблице.
func FindConflicts(selected Selection, meetings []model.Meeting) []Conflict {
	type timed struct {
		m          model.Meeting
		start, end model.Clock
	}

	byDay := make(map[model.Day][]timed)
	for _, m := range meetings {
		if !selected.Has(m.CourseCode) {
			continue
		}
		start, end, ok := m.Interval()
		if !ok {
			continue
		}
		byDay[m.Day] = append(byDay[m.Day], timed{m: m, start: start, end: end})
	}

	var conflicts []Conflict
	for _, day := range model.DayOrder {
		list := byDay[day]
		var dayConflicts []Conflict
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				a, b := list[i], list[j]
				if a.m.CourseCode == b.m.CourseCode || !model.Overlaps(a.start, a.end, b.start, b.end) {
					continue
				}
				dayConflicts = append(dayConflicts, Conflict{
					Day:    day,
					Start:  max(a.start, b.start).String(),
					End:    min(a.end, b.end).String(),
					First:  a.m,
					Second: b.m,
				})
			}
		}
		sort.SliceStable(dayConflicts, func(i, j int) bool {
			return dayConflicts[i].Start < dayConflicts[j].Start
		})
		conflicts = append(conflicts, dayConflicts...)
	}

	return conflicts
}
