package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "9:00", want: "09:00"},
		{in: "09:05", want: "09:05"},
		{in: " 23:59 ", want: "23:59"},
		{in: "0:00", want: "00:00"},
		{in: "24:00", wantErr: true},
		{in: "10:60", wantErr: true},
		{in: "10:5", wantErr: true},
		{in: "100:00", wantErr: true},
		{in: "1000", wantErr: true},
		{in: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestClockArithmetic(t *testing.T) {
	c := NewClock(19, 30)
	assert.Equal(t, 19, c.Hour())
	assert.Equal(t, 30, c.Minute())
	assert.Equal(t, "19:45", c.Add(15).String())
	assert.Panics(t, func() { MustParseClock("nope") })
}

func TestOverlaps(t *testing.T) {
	nine, ten, eleven := NewClock(9, 0), NewClock(10, 0), NewClock(11, 0)

	assert.True(t, Overlaps(nine, eleven, ten, eleven))
	assert.False(t, Overlaps(nine, ten, ten, eleven), "touching intervals do not overlap")
	assert.True(t, Overlaps(nine, ten, nine, ten))
	assert.True(t, Overlaps(nine, eleven, nine.Add(15), ten))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("Thu")
	require.NoError(t, err)
	assert.Equal(t, DayThu, d)
	assert.Equal(t, 3, d.Index())

	_, err = ParseDay("Sun")
	assert.Error(t, err)
	assert.Equal(t, -1, Day("Sun").Index())
	assert.Len(t, Weekdays, 5)
}

func TestMeetingInterval(t *testing.T) {
	m := Meeting{StartTime: "09:00", EndTime: "10:15"}
	start, end, ok := m.Interval()
	require.True(t, ok)
	assert.Equal(t, NewClock(9, 0), start)
	assert.Equal(t, NewClock(10, 15), end)

	_, _, ok = Meeting{StartTime: "TBA", EndTime: "10:15"}.Interval()
	assert.False(t, ok)
}
