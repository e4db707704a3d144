package timetable

import (
	"testing"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout()
	slots := layout.Slots()

	require.Len(t, slots, 47)
	assert.Equal(t, "08:00", slots[0].String())
	assert.Equal(t, "08:15", slots[1].String())
	assert.Equal(t, "19:30", slots[46].String())
	assert.Equal(t, []model.Day{model.DayMon, model.DayTue, model.DayWed, model.DayThu, model.DayFri}, layout.Days)
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		wantErr bool
	}{
		{name: "default", layout: DefaultLayout()},
		{name: "no days", layout: Layout{First: 480, Last: 600, Step: 15}, wantErr: true},
		{name: "zero step", layout: Layout{Days: model.Weekdays, First: 480, Last: 600}, wantErr: true},
		{name: "last before first", layout: Layout{Days: model.Weekdays, First: 600, Last: 480, Step: 15}, wantErr: true},
		{name: "single slot", layout: Layout{Days: model.Weekdays, First: 480, Last: 480, Step: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLayout)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBuildGrid(t *testing.T) {
	grid, err := BuildGrid(DefaultLayout(), NewSelection("CE612", "CS101"), sampleMeetings())
	require.NoError(t, err)

	require.Len(t, grid.Rows, 47)
	assert.True(t, grid.HasConflicts())

	// 09:00 строка 4, Пн колонка 0
	row := grid.Rows[4]
	assert.Equal(t, "09:00", row.Label)
	assert.Equal(t, "09:15", row.End.String())
	require.Len(t, row.Cells, 5)
	assert.Equal(t, CellSingle, row.Cells[0].Kind)
	assert.Equal(t, CellEmpty, row.Cells[1].Kind)

	assert.Equal(t, "CONFLICT: CE612 - Course CE612, CS101 - Course CS101", grid.Rows[6].Cells[0].Text())
	assert.Equal(t, "CS101 - Course CS101\n@ L1", grid.Rows[24].Cells[2].Text())
	assert.Equal(t, "CE612 - Course CE612\n@ L11", grid.Rows[28].Cells[2].Text())
}

func TestBuildGridWithoutConflicts(t *testing.T) {
	grid, err := BuildGrid(DefaultLayout(), NewSelection("CS101"), sampleMeetings())
	require.NoError(t, err)
	assert.False(t, grid.HasConflicts())

	grid, err = BuildGrid(DefaultLayout(), NewSelection(), sampleMeetings())
	require.NoError(t, err)
	for _, r := range grid.Rows {
		for _, c := range r.Cells {
			assert.Equal(t, CellEmpty, c.Kind)
		}
	}
}

func TestBuildGridRejectsTooManySelections(t *testing.T) {
	_, err := BuildGrid(DefaultLayout(), NewSelection("A1", "A2", "A3", "A4", "A5", "A6", "A7"), sampleMeetings())
	assert.ErrorIs(t, err, ErrTooManySelections)

	_, err = BuildGrid(Layout{}, NewSelection("A1"), sampleMeetings())
	assert.ErrorIs(t, err, ErrInvalidLayout)
}
