package timetable

import (
	"testing"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func meeting(code string, day model.Day, start, end, venue string) model.Meeting {
	return model.Meeting{
		CourseCode:    code,
		CourseTitle:   "Course " + code,
		DisplayCourse: model.DisplayCourse(code, "Course "+code),
		Day:           day,
		StartTime:     start,
		EndTime:       end,
		Venue:         venue,
	}
}

func sampleMeetings() []model.Meeting {
	return []model.Meeting{
		meeting("CE612", model.DayMon, "09:00", "10:00", "L11"),
		meeting("CS101", model.DayMon, "09:30", "10:30", "L1"),
		meeting("CE612", model.DayMon, "09:00", "10:00", "L12"),
		meeting("MA201", model.DayMon, "09:00", "11:00", "L5"),
		meeting("CS101", model.DayWed, "14:00", "15:00", "L1"),
		meeting("CE612", model.DayWed, "15:00", "16:00", "L11"),
	}
}

func TestLookup(t *testing.T) {
	selected := NewSelection("CE612", "CS101")
	meetings := sampleMeetings()

	tests := []struct {
		name  string
		day   model.Day
		start string
		want  CellResult
	}{
		{
			name:  "single course",
			day:   model.DayMon,
			start: "09:00",
			want:  CellResult{Kind: CellSingle, CourseCode: "CE612", Display: "CE612 - Course CE612", Venue: "L11"},
		},
		{
			name:  "two selected courses overlap",
			day:   model.DayMon,
			start: "09:45",
			want: CellResult{
				Kind:     CellConflict,
				Displays: []string{"CE612 - Course CE612", "CS101 - Course CS101"},
				Codes:    []string{"CE612", "CS101"},
			},
		},
		{
			name:  "meeting ending at slot start does not occupy it",
			day:   model.DayMon,
			start: "10:00",
			want:  CellResult{Kind: CellSingle, CourseCode: "CS101", Display: "CS101 - Course CS101", Venue: "L1"},
		},
		{
			name:  "unselected course is ignored",
			day:   model.DayMon,
			start: "10:30",
			want:  CellResult{Kind: CellEmpty},
		},
		{
			name:  "back to back meetings",
			day:   model.DayWed,
			start: "15:00",
			want:  CellResult{Kind: CellSingle, CourseCode: "CE612", Display: "CE612 - Course CE612", Venue: "L11"},
		},
		{
			name:  "other day",
			day:   model.DayTue,
			start: "09:00",
			want:  CellResult{Kind: CellEmpty},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := model.MustParseClock(tt.start)
			assert.Equal(t, tt.want, Lookup(selected, tt.day, start, start.Add(15), meetings))
		})
	}
}

func TestLookupSameCourseTwiceIsSingle(t *testing.T) {
	meetings := []model.Meeting{
		meeting("CE612", model.DayFri, "09:00", "10:00", "L11"),
		meeting("CE612", model.DayFri, "09:30", "10:30", "Lab 2"),
	}

	got := Lookup(NewSelection("CE612"), model.DayFri, model.MustParseClock("09:30"), model.MustParseClock("09:45"), meetings)
	assert.Equal(t, CellSingle, got.Kind)
	assert.Equal(t, "L11", got.Venue)
}

func TestCellResultText(t *testing.T) {
	single := CellResult{Kind: CellSingle, Display: "CE612 - Fluid Mechanics", Venue: "L11"}
	assert.Equal(t, "CE612 - Fluid Mechanics\n@ L11", single.Text())

	conflict := CellResult{Kind: CellConflict, Displays: []string{"CE612 - Fluid Mechanics", "CS101 - Intro"}}
	assert.Equal(t, "CONFLICT: CE612 - Fluid Mechanics, CS101 - Intro", conflict.Text())

	assert.Empty(t, CellResult{}.Text())
}

func TestSelectionValidate(t *testing.T) {
	assert.NoError(t, NewSelection("A1", "A2", "A3", "A4", "A5", "A6").Validate())
	assert.ErrorIs(t, NewSelection("A1", "A2", "A3", "A4", "A5", "A6", "A7").Validate(), ErrTooManySelections)

	s := NewSelection("CS101", " ", "CE612", "CS101")
	assert.Len(t, s, 2)
	assert.Equal(t, []string{"CE612", "CS101"}, s.Codes())
}

func TestFindConflicts(t *testing.T) {
	conflicts := FindConflicts(NewSelection("CE612", "CS101", "MA201"), sampleMeetings())

	type pair struct{ start, end, first, second string }
	var got []pair
	for _, c := range conflicts {
		assert.Equal(t, model.DayMon, c.Day)
		got = append(got, pair{c.Start, c.End, c.First.CourseCode + "@" + c.First.Venue, c.Second.CourseCode})
	}

	// сначала по началу пересечения, внутри одного времени в порядке таблицы
	assert.Equal(t, []pair{
		{"09:00", "10:00", "CE612@L11", "MA201"},
		{"09:00", "10:00", "CE612@L12", "MA201"},
		{"09:30", "10:00", "CE612@L11", "CS101"},
		{"09:30", "10:00", "CS101@L1", "CE612"},
		{"09:30", "10:30", "CS101@L1", "MA201"},
	}, got)
}

func TestFindConflictsNone(t *testing.T) {
	assert.Empty(t, FindConflicts(NewSelection("CE612", "CS101"), []model.Meeting{
		meeting("CE612", model.DayWed, "15:00", "16:00", "L11"),
		meeting("CS101", model.DayWed, "14:00", "15:00", "L1"),
		meeting("CS101", model.DayThu, "15:00", "16:00", "L1"),
	}))
}
