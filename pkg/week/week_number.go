package week

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekNumber is an ISO 8601 week.
type WeekNumber struct {
	Year int
	Week int
}

// WeekNumberFromDate returns the ISO week that corresponds to the week containing date,
// taking the week start day into account. A start day earlier than Monday moves the week
// into the previous ISO week.
func WeekNumberFromDate(date time.Time, weekStartDay time.Weekday) WeekNumber {
	if weekStartDay < time.Sunday || weekStartDay > time.Saturday {
		weekStartDay = time.Monday
	}
	delta := (int(date.Weekday()) - int(weekStartDay) + 7) % 7
	startOfWeek := date.AddDate(0, 0, -delta)

	year, week := startOfWeek.ISOWeek()
	return WeekNumber{Year: year, Week: week}
}

// ParseWeekNumber parses the ISO week format, e.g. "2026-W03".
func ParseWeekNumber(s string) (WeekNumber, error) {
	year, week, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(s)), "-W")
	if !ok {
		return WeekNumber{}, fmt.Errorf("invalid ISO week format: %s", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil || len(year) != 4 {
		return WeekNumber{}, fmt.Errorf("invalid year in %s", s)
	}
	w, err := strconv.Atoi(week)
	if err != nil || w < 1 || w > 53 {
		return WeekNumber{}, fmt.Errorf("invalid week in %s", s)
	}
	n := WeekNumber{Year: y, Week: w}
	if got := WeekNumberFromDate(n.Monday(time.UTC), time.Monday); !got.Equal(n) {
		return WeekNumber{}, fmt.Errorf("%d has no week %d", y, w)
	}
	return n, nil
}

// Monday returns local midnight of the Monday opening the week.
func (w WeekNumber) Monday(loc *time.Location) time.Time {
	// January 4th always falls into week 1.
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset+(w.Week-1)*7)
}

func (w WeekNumber) Equal(other WeekNumber) bool {
	return w.Year == other.Year && w.Week == other.Week
}

// String returns the ISO week format, e.g. "2026-W03".
func (w WeekNumber) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}
