package model

import (
	"fmt"
	"time"
)

// Day день недели занятия
type Day string

const (
	DayMon Day = "Mon"
	DayTue Day = "Tue"
	DayWed Day = "Wed"
	DayThu Day = "Thu"
	DayFri Day = "Fri"
	DaySat Day = "Sat"
)

// DayOrder порядок дней в сетке
var DayOrder = []Day{DayMon, DayTue, DayWed, DayThu, DayFri, DaySat}

// Weekdays рабочие дни (Пн-Пт), используются сеткой по умолчанию
var Weekdays = DayOrder[:5]

// Index возвращает позицию дня в DayOrder или -1
func (d Day) Index() int {
	for i, day := range DayOrder {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid проверяет что день входит в перечисление
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// ParseDay разбирает название дня ("Mon", "Tue", ...)
func ParseDay(s string) (Day, error) {
	d := Day(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown day %q", s)
	}
	return d, nil
}

// Weekday соответствующий день time.Weekday
func (d Day) Weekday() time.Weekday {
	return time.Weekday(d.Index() + 1)
}
