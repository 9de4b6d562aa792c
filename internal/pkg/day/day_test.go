package day

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekday(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2026-10-12", 0}, // Monday
		{"2026-10-15", 3},
		{"2026-10-18", 6}, // Sunday
	}
	for _, tt := range tests {
		d, err := Parse(tt.date)
		require.NoError(t, err)
		assert.Equal(t, tt.want, Weekday(d), tt.date)
	}
}

func TestWeek(t *testing.T) {
	d := time.Date(2026, 10, 17, 15, 30, 0, 0, time.UTC)

	week := Week(d)

	require.Len(t, week, 7)
	assert.Equal(t, "2026-10-12", Format(week[0]))
	assert.Equal(t, "2026-10-18", Format(week[6]))
	assert.Equal(t, WeekStart(d), week[0])
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("17.10.2026")
	assert.Error(t, err)
}
