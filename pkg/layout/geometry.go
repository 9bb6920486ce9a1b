package layout

import (
	"fmt"
	"math"
	"time"
)

const (
	secondsPerHour = 3600
	secondsPerDay  = 24 * secondsPerHour
)

// Scale maps seconds of a day onto pixels: VisibleHours of the day fill ViewportHeight.
type Scale struct {
	VisibleHours   int
	ViewportHeight float64
}

func (s Scale) Validate() error {
	if s.VisibleHours < 1 || s.VisibleHours > 24 {
		return fmt.Errorf("%w: visible hours must be between 1 and 24, got %d", ErrInvalidConfig, s.VisibleHours)
	}
	if s.ViewportHeight <= 0 || math.IsNaN(s.ViewportHeight) || math.IsInf(s.ViewportHeight, 0) {
		return fmt.Errorf("%w: viewport height must be positive, got %v", ErrInvalidConfig, s.ViewportHeight)
	}
	return nil
}

// SecondHeight is the pixel height of one second.
func (s Scale) SecondHeight() float64 {
	return s.ViewportHeight / float64(s.VisibleHours) / secondsPerHour
}

// ContentHeight is the pixel height of a whole 24 hour column.
func (s Scale) ContentHeight() float64 {
	return s.SecondHeight() * secondsPerDay
}

// OffsetSeconds is the event's start relative to the day, in wall-clock seconds at minute
// precision. Events starting before the day are clipped to 0.
func OffsetSeconds(day Day, e Event) int {
	if e.Start.Before(day.Start()) {
		return 0
	}
	return clockSeconds(e.Start, day.Date.Location())
}

// EndSeconds is the event's end relative to the day. Events ending at or after the end of
// the day are clipped to the full 24 hours.
func EndSeconds(day Day, e Event) int {
	if !e.End.Before(day.End()) {
		return secondsPerDay
	}
	return clockSeconds(e.End, day.Date.Location())
}

func clockSeconds(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*secondsPerHour + local.Minute()*60
}

// VerticalOffset is the pixel offset of the event's top edge inside the day column.
func (s Scale) VerticalOffset(day Day, e Event) float64 {
	return float64(OffsetSeconds(day, e)) * s.SecondHeight()
}

// Height is the pixel height of the event clipped to the day. Zero-duration events have
// zero height.
func (s Scale) Height(day Day, e Event) float64 {
	seconds := max(EndSeconds(day, e)-OffsetSeconds(day, e), 0)
	return float64(seconds) * s.SecondHeight()
}

// NowOffset is the pixel offset of the current time indicator. Like event offsets it reads
// the local wall clock, so on DST days it stays aligned with the events around it.
func (s Scale) NowOffset(now time.Time, loc *time.Location) float64 {
	local := now.In(loc)
	seconds := float64(clockSeconds(local, loc)+local.Second()) + float64(local.Nanosecond())/float64(time.Second)
	return seconds * s.SecondHeight()
}

// TimeAt maps pixel offset y of the day back to the wall-clock time shown there, rounded
// to the second, so it inverts VerticalOffset on DST days too. y is clamped to the column.
// Wall-clock times skipped by a DST jump normalize forward.
func (s Scale) TimeAt(day Day, y float64) time.Time {
	y = min(max(y, 0), s.ContentHeight())
	seconds := int(math.Round(y / s.ViewportHeight * float64(s.VisibleHours) * secondsPerHour))
	if seconds >= secondsPerDay {
		return day.End()
	}
	year, month, date := day.Date.Date()
	h, m, sec := seconds/secondsPerHour, seconds%secondsPerHour/60, seconds%60
	return time.Date(year, month, date, h, m, sec, 0, day.Date.Location())
}

// FreeTimeAt resolves a tap at pixel offset y. ok is false when the instant falls inside
// one of the day's timed events.
func (s Scale) FreeTimeAt(day Day, y float64) (at time.Time, ok bool) {
	at = s.TimeAt(day, y)
	for _, e := range day.TimedEvents() {
		if !at.Before(e.Start) && at.Before(e.End) {
			return at, false
		}
	}
	return at, true
}
