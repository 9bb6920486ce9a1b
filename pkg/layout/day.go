package layout

import (
	"time"
)

// Day holds the events touching one calendar day. Days are rebuilt for every computation;
// they have no identity beyond their date.
type Day struct {
	Date   time.Time
	Events []Event
}

// StartOfDay returns local midnight of t's day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Start is the inclusive lower bound of the day.
func (d Day) Start() time.Time {
	return d.Date
}

// End is the exclusive upper bound of the day: the next local midnight.
func (d Day) End() time.Time {
	return d.Date.AddDate(0, 0, 1)
}

func (d Day) TimedEvents() []Event {
	timed := make([]Event, 0, len(d.Events))
	for _, e := range d.Events {
		if !e.AllDay {
			timed = append(timed, e)
		}
	}
	return timed
}

func (d Day) AllDayEvents() []Event {
	allDay := make([]Event, 0)
	for _, e := range d.Events {
		if e.AllDay {
			allDay = append(allDay, e)
		}
	}
	return allDay
}

// Contains reports whether t falls inside [Start, End).
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start()) && t.Before(d.End())
}

// Intersects reports whether the event's span touches the day. A zero-duration event
// belongs to the day containing its instant.
func (d Day) Intersects(e Event) bool {
	if e.Start.Equal(e.End) {
		return d.Contains(e.Start)
	}
	return e.Start.Before(d.End()) && e.End.After(d.Start())
}

// DayRange returns n consecutive local midnights starting with reference's day.
func DayRange(reference time.Time, n int, loc *time.Location) []time.Time {
	first := StartOfDay(reference, loc)
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, first.AddDate(0, 0, i))
	}
	return dates
}

// BucketDays assigns every event to each of the given days it intersects. Events spanning
// several days appear in all of them; clipping to the day is left to the geometry mapper.
func BucketDays(events []Event, dates []time.Time) ([]Day, error) {
	if err := validateAll(events); err != nil {
		return nil, err
	}
	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		day := Day{Date: date, Events: make([]Event, 0)}
		for _, e := range events {
			if day.Intersects(e) {
				day.Events = append(day.Events, e)
			}
		}
		days = append(days, day)
	}
	return days, nil
}
