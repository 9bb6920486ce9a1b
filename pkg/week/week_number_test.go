package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var warsaw, _ = time.LoadLocation("Europe/Warsaw")

func TestWeekNumberFromDate(t *testing.T) {
	testCases := []struct {
		name         string
		date         time.Time
		weekStartDay time.Weekday
		expected     WeekNumber
	}{
		{"monday start", time.Date(2026, time.January, 14, 12, 0, 0, 0, warsaw), time.Monday, WeekNumber{2026, 3}},
		{"sunday of a monday week", time.Date(2026, time.January, 18, 12, 0, 0, 0, warsaw), time.Monday, WeekNumber{2026, 3}},
		{"sunday start", time.Date(2026, time.January, 18, 12, 0, 0, 0, warsaw), time.Sunday, WeekNumber{2026, 3}},
		{"sunday start saturday", time.Date(2026, time.January, 17, 12, 0, 0, 0, warsaw), time.Sunday, WeekNumber{2026, 2}},
		{"year boundary", time.Date(2025, time.December, 31, 12, 0, 0, 0, warsaw), time.Monday, WeekNumber{2026, 1}},
		{"invalid start day defaults to monday", time.Date(2026, time.January, 14, 12, 0, 0, 0, warsaw), time.Weekday(9), WeekNumber{2026, 3}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, WeekNumberFromDate(tc.date, tc.weekStartDay))
		})
	}
}

func TestParseWeekNumber(t *testing.T) {
	week, err := ParseWeekNumber("2026-W03")
	require.NoError(t, err)
	assert.Equal(t, WeekNumber{Year: 2026, Week: 3}, week)
	assert.Equal(t, "2026-W03", week.String())

	week, err = ParseWeekNumber("2020-W53")
	require.NoError(t, err)
	assert.Equal(t, WeekNumber{Year: 2020, Week: 53}, week)

	for _, input := range []string{"2026-03", "2026-W", "2026-W00", "2025-W53", "26-W03", "year-W03"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseWeekNumber(input)

			assert.Error(t, err)
		})
	}
}

func TestWeekNumber_Monday(t *testing.T) {
	week := WeekNumber{Year: 2026, Week: 3}

	assert.Equal(t, time.Date(2026, time.January, 12, 0, 0, 0, 0, warsaw), week.Monday(warsaw))
	assert.Equal(t, time.Date(2025, time.December, 29, 0, 0, 0, 0, warsaw), WeekNumber{Year: 2026, Week: 1}.Monday(warsaw))

	for _, w := range []int{1, 3, 27, 53} {
		n := WeekNumber{Year: 2026, Week: w}
		assert.Equal(t, n, WeekNumberFromDate(n.Monday(warsaw), time.Monday), n.String())
	}
}
