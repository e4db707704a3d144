package handlers

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
)

// pluralize выбирает форму слова для числа: one (1 курс), few (2 курса), many (5 курсов)
func pluralize(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeCourses возвращает правильное склонение слова "курс"
func PluralizeCourses(count int) string {
	return pluralize(count, "курс", "курса", "курсов")
}

// PluralizeConflicts возвращает правильное склонение слова "пересечение"
func PluralizeConflicts(count int) string {
	return pluralize(count, "пересечение", "пересечения", "пересечений")
}

// PluralizeMeetings возвращает правильное склонение слова "занятие"
func PluralizeMeetings(count int) string {
	return pluralize(count, "занятие", "занятия", "занятий")
}

// commandArgs возвращает текст после команды: "/add cs 101" -> "cs 101"
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	_, args, _ := strings.Cut(text, " ")
	return strings.TrimSpace(args)
}

// FormatCourse одна строка курса для списков
func FormatCourse(c model.Course) string {
	if c.Instructor == "" {
		return c.Display
	}
	return fmt.Sprintf("%s\n   👤 %s", c.Display, c.Instructor)
}

// FormatSelection список выбранных курсов с номерами в порядке выбора
func FormatSelection(courses []model.Course) string {
	if len(courses) == 0 {
		return "📭 Вы ещё не выбрали ни одного курса.\n\nНайдите курс через /courses и добавьте его командой /add КОД."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 Выбрано %d %s из %d:\n\n", len(courses), PluralizeCourses(len(courses)), timetable.MaxSelections)
	for i, c := range courses {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, FormatCourse(c))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatMeetings занятия, сгруппированные по дням недели
func FormatMeetings(meetings []model.Meeting) string {
	byDay := make(map[model.Day][]model.Meeting)
	for _, m := range meetings {
		byDay[m.Day] = append(byDay[m.Day], m)
	}

	var sb strings.Builder
	for _, day := range model.DayOrder {
		list := byDay[day]
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "📅 %s\n", dayName(day))
		for _, m := range list {
			fmt.Fprintf(&sb, "  %s-%s %s @ %s\n", m.StartTime, m.EndTime, m.CourseCode, m.Venue)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatConflicts список пересечений занятий, не больше limit строк
func FormatConflicts(conflicts []timetable.Conflict, limit int) string {
	if len(conflicts) == 0 {
		return "✅ Пересечений нет, расписание совместимо."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ Найдено %d %s:\n\n", len(conflicts), PluralizeConflicts(len(conflicts)))
	for i, c := range conflicts {
		if limit > 0 && i >= limit {
			fmt.Fprintf(&sb, "… и ещё %d\n", len(conflicts)-limit)
			break
		}
		fmt.Fprintf(&sb, "%s %s-%s\n  • %s @ %s\n  • %s @ %s\n",
			dayName(c.Day), c.Start, c.End,
			c.First.DisplayCourse, c.First.Venue,
			c.Second.DisplayCourse, c.Second.Venue,
		)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatImportRun сведения о последнем импорте
func FormatImportRun(run *model.ImportRun) string {
	text := fmt.Sprintf(
		"🗂 Источник: %s\n"+
			"📅 Загружено: %s\n"+
			"📚 Курсов: %d\n"+
			"🕒 Занятий: %d",
		run.Source,
		run.StartedAt.Format("02.01.2006 15:04"),
		run.Courses,
		run.Meetings,
	)
	if run.Issues > 0 {
		text += fmt.Sprintf("\n⚠️ Проблем разбора: %d", run.Issues)
	}
	return text
}

// dayName полное название дня недели
func dayName(day model.Day) string {
	switch day {
	case model.DayMon:
		return "Понедельник"
	case model.DayTue:
		return "Вторник"
	case model.DayWed:
		return "Среда"
	case model.DayThu:
		return "Четверг"
	case model.DayFri:
		return "Пятница"
	case model.DaySat:
		return "Суббота"
	default:
		return string(day)
	}
}
