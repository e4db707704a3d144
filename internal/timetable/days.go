package timetable

import (
	"regexp"

	"github.com/Freeeeeet/timetable_bot/internal/model"
)

// "Th" должен стоять раньше "T", иначе "Th" разберётся как T + h
var dayTokenRe = regexp.MustCompile(`Th|M|T|W|F|S`)

var dayTokens = map[string]model.Day{
	"M":  model.DayMon,
	"T":  model.DayTue,
	"W":  model.DayWed,
	"Th": model.DayThu,
	"F":  model.DayFri,
	"S":  model.DaySat,
}

// ParseDayRun разбирает строку вида "MThF" в список дней.
// Нераспознанные символы молча игнорируются.
func ParseDayRun(s string) []model.Day {
	if s == "" {
		return nil
	}

	var days []model.Day
	for _, tok := range dayTokenRe.FindAllString(s, -1) {
		if d, ok := dayTokens[tok]; ok {
			days = append(days, d)
		}
	}
	return days
}
