package timetable

import (
	"errors"

	"github.com/Freeeeeet/timetable_bot/internal/model"
)

var ErrInvalidLayout = errors.New("invalid grid layout")

// Layout недельная сетка: дни и слоты от First до Last включительно с шагом Step минут
type Layout struct {
	Days  []model.Day
	First model.Clock // начало первого слота
	Last  model.Clock // начало последнего слота
	Step  int         // минут
}

// DefaultLayout Пн-Пт, 08:00-19:30, слоты по 15 минут
func DefaultLayout() Layout {
	return Layout{
		Days:  model.Weekdays,
		First: model.NewClock(8, 0),
		Last:  model.NewClock(19, 30),
		Step:  15,
	}
}

// Validate проверяет что сетка не пустая и шаг положительный
func (l Layout) Validate() error {
	if len(l.Days) == 0 || l.Step <= 0 || l.Last < l.First {
		return ErrInvalidLayout
	}
	return nil
}

// Slots возвращает начала всех слотов
func (l Layout) Slots() []model.Clock {
	var slots []model.Clock
	for t := l.First; t <= l.Last; t = t.Add(l.Step) {
		slots = append(slots, t)
	}
	return slots
}

// GridRow одна строка сетки: слот и ячейки по дням
type GridRow struct {
	Start model.Clock  `json:"-"`
	End   model.Clock  `json:"-"`
	Label string       `json:"label"`
	Cells []CellResult `json:"cells"`
}

// Grid вычисленная недельная сетка для выборки курсов
type Grid struct {
	Days []model.Day `json:"days"`
	Rows []GridRow   `json:"rows"`
}

// HasConflicts есть ли хотя бы одна конфликтная ячейка
func (g *Grid) HasConflicts() bool {
	for _, r := range g.Rows {
		for _, c := range r.Cells {
			if c.Kind == CellConflict {
				return true
			}
		}
	}
	return false
}

// BuildGrid вызывает Lookup для каждой ячейки (день, слот)
func BuildGrid(layout Layout, selected Selection, meetings []model.Meeting) (*Grid, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if err := selected.Validate(); err != nil {
		return nil, err
	}

	relevant := make([]model.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if selected.Has(m.CourseCode) {
			relevant = append(relevant, m)
		}
	}

	grid := &Grid{Days: layout.Days}
	for _, start := range layout.Slots() {
		end := start.Add(layout.Step)
		row := GridRow{Start: start, End: end, Label: start.String(), Cells: make([]CellResult, len(layout.Days))}
		for i, day := range layout.Days {
			row.Cells[i] = Lookup(selected, day, start, end, relevant)
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid, nil
}
