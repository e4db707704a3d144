package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock время суток в минутах от полуночи
type Clock int

// NewClock создаёт Clock из часов и минут
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock разбирает строку вида "9:05" или "09:05"
func ParseClock(s string) (Clock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	hour, err := strconv.Atoi(h)
	if err != nil || len(h) == 0 || len(h) > 2 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}

	return NewClock(hour, minute), nil
}

// MustParseClock как ParseClock, но паникует на ошибке. Только для констант и тестов.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hour часы
func (c Clock) Hour() int {
	return int(c) / 60
}

// Minute минуты
func (c Clock) Minute() int {
	return int(c) % 60
}

// Add сдвигает время на n минут
func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// String форматирует как HH:MM
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd)
func Overlaps(aStart, aEnd, bStart, bEnd Clock) bool {
	return aStart < bEnd && bStart < aEnd
}
