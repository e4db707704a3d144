package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

const DefaultSemesterWeeks = 16

// Calendar параметры выгрузки расписания в iCalendar
type Calendar struct {
	Name          string
	SemesterStart time.Time // дата начала семестра, время суток игнорируется
	Weeks         int       // число повторений каждого занятия
	Location      *time.Location
}

// WriteICS пишет по одному еженедельному событию на каждое занятие.
// Первое событие приходится на первый подходящий день недели не раньше SemesterStart.
func WriteICS(w io.Writer, meetings []model.Meeting, c Calendar) error {
	if c.SemesterStart.IsZero() {
		return errors.New("semester start is not set")
	}
	if c.Weeks <= 0 {
		c.Weeks = DefaultSemesterWeeks
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//timetable_bot//course timetable//EN")
	if c.Name != "" {
		cal.SetXWRCalName(c.Name)
	}
	cal.SetXWRTimezone(loc.String())

	now := time.Now()
	rule := fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", c.Weeks)

	for _, m := range meetings {
		start, end, ok := m.Interval()
		if !ok || !m.Day.Valid() {
			continue
		}

		date := firstOnOrAfter(c.SemesterStart, m.Day.Weekday(), loc)
		startAt := date.Add(time.Duration(start) * time.Minute)
		endAt := date.Add(time.Duration(end) * time.Minute)

		event := cal.AddEvent(meetingUID(m))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetModifiedAt(now)
		event.SetStartAt(startAt)
		event.SetEndAt(endAt)
		event.SetSummary(m.DisplayCourse)
		event.SetLocation(m.Venue)
		if m.Instructor != "" {
			event.SetDescription("Instructor: " + m.Instructor)
		}
		event.AddProperty(ics.ComponentPropertyRrule, rule)
	}

	return cal.SerializeTo(w)
}

// firstOnOrAfter полночь первого дня weekday не раньше from в часовом поясе loc
func firstOnOrAfter(from time.Time, weekday time.Weekday, loc *time.Location) time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	shift := (int(weekday) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, shift)
}

// meetingUID стабильный UID: повторная выгрузка обновляет события, а не дублирует их
func meetingUID(m model.Meeting) string {
	key := m.Key()
	name := fmt.Sprintf("%s|%s|%s|%s|%s|%s", key.CourseCode, key.Day, key.StartTime, key.EndTime, key.Venue, key.Instructor)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String() + "@timetable_bot"
}
