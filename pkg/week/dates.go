package week

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/klokku/weekview/pkg/layout"
)

// ParseDay resolves a day selector to local midnight in loc. Accepted forms are today,
// tomorrow, yesterday, +Nd / -Nd, an ISO week (its Monday), YYYY-MM-DD and RFC3339.
func ParseDay(input string, now time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	today := layout.StartOfDay(now, loc)

	switch s {
	case "":
		return time.Time{}, fmt.Errorf("empty day")
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if (strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")) && strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid relative day: %s", input)
		}
		return today.AddDate(0, 0, n), nil
	}

	if strings.Contains(s, "-w") {
		week, err := ParseWeekNumber(s)
		if err != nil {
			return time.Time{}, err
		}
		return week.Monday(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(input)); err == nil {
		return layout.StartOfDay(t, loc), nil
	}
	return time.Time{}, fmt.Errorf("unsupported day format: %s", input)
}
