package layout

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultVisibleDays  = 1
	DefaultVisibleHours = 12
	DefaultDaysInFuture = 15
	// MaxDaysInFuture bounds the range to a year so a single request cannot allocate without limit.
	MaxDaysInFuture = 366
)

// Config is everything the layout computation needs besides the events themselves.
type Config struct {
	VisibleDays    int
	VisibleHours   int
	DaysInFuture   int
	ViewportHeight float64
	ViewportWidth  float64
	Location       *time.Location
	// Today is the reference "now". It marks today's column and positions the time indicator.
	Today time.Time
	// From is the first day of the range; the day of Today when zero.
	From     time.Time
	Strategy LaneStrategy
}

func (c Config) Validate() error {
	if c.VisibleDays < 1 {
		return fmt.Errorf("%w: visible days must be at least 1, got %d", ErrInvalidConfig, c.VisibleDays)
	}
	if c.DaysInFuture < 1 {
		return fmt.Errorf("%w: days in future must be at least 1, got %d", ErrInvalidConfig, c.DaysInFuture)
	}
	if c.DaysInFuture > MaxDaysInFuture {
		return fmt.Errorf("%w: days in future must be at most %d, got %d", ErrInvalidConfig, MaxDaysInFuture, c.DaysInFuture)
	}
	if c.ViewportWidth < 0 {
		return fmt.Errorf("%w: viewport width must not be negative, got %v", ErrInvalidConfig, c.ViewportWidth)
	}
	if _, err := ParseLaneStrategy(string(c.Strategy)); err != nil {
		return err
	}
	return c.Scale().Validate()
}

func (c Config) Scale() Scale {
	return Scale{VisibleHours: c.VisibleHours, ViewportHeight: c.ViewportHeight}
}

// ColumnWidth is the width of a single day column.
func (c Config) ColumnWidth() float64 {
	return c.ViewportWidth / float64(c.VisibleDays)
}

// Zone is the configured location, the local zone when unset.
func (c Config) Zone() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

// Dates returns the midnights of every day covered by the configuration.
func (c Config) Dates() []time.Time {
	from := c.From
	if from.IsZero() {
		from = c.Today
	}
	return DayRange(from, c.DaysInFuture, c.Zone())
}

// EventLayout is the placement of one timed event inside one day column.
type EventLayout struct {
	EventID        uuid.UUID
	Event          Event
	LaneIndex      int
	LaneCount      int
	VerticalOffset float64
	Height         float64
	XOffset        float64
	Width          float64
}

type DayLayout struct {
	Date    time.Time
	IsToday bool
	// AllDay is ordered by Compare.
	AllDay []Event
	Timed  []EventLayout
}

type Result struct {
	Days          []DayLayout
	SecondHeight  float64
	ContentHeight float64
	ColumnWidth   float64
	// NowOffset positions the current time indicator in today's column.
	NowOffset float64
}

// ContainsToday reports whether one of the days is today.
func (r Result) ContainsToday() bool {
	return slices.ContainsFunc(r.Days, func(d DayLayout) bool { return d.IsToday })
}

// Find returns the event with the given id and the day it was laid out in.
func (r Result) Find(id uuid.UUID) (Event, DayLayout, bool) {
	for _, d := range r.Days {
		for _, l := range d.Timed {
			if l.EventID == id {
				return l.Event, d, true
			}
		}
		for _, e := range d.AllDay {
			if e.ID == id {
				return e, d, true
			}
		}
	}
	return Event{}, DayLayout{}, false
}

// ComputeLayout buckets events into the configured days, assigns lanes and maps every timed
// event to its geometry. It holds no state: callers re-run it whenever events or the
// configuration change.
func ComputeLayout(events []Event, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	days, err := BucketDays(events, cfg.Dates())
	if err != nil {
		return Result{}, err
	}

	scale := cfg.Scale()
	columnWidth := cfg.ColumnWidth()
	today := StartOfDay(cfg.Today, cfg.Zone())

	result := Result{
		Days:          make([]DayLayout, 0, len(days)),
		SecondHeight:  scale.SecondHeight(),
		ContentHeight: scale.ContentHeight(),
		ColumnWidth:   columnWidth,
		NowOffset:     scale.NowOffset(cfg.Today, cfg.Zone()),
	}
	for _, day := range days {
		result.Days = append(result.Days, layoutDay(day, scale, columnWidth, cfg.Strategy, today))
	}
	return result, nil
}

func layoutDay(day Day, scale Scale, columnWidth float64, strategy LaneStrategy, today time.Time) DayLayout {
	allDay := day.AllDayEvents()
	slices.SortStableFunc(allDay, Compare)

	timed := day.TimedEvents()
	lanes := AssignLanes(day, strategy)
	layouts := make([]EventLayout, 0, len(timed))
	for i, e := range timed {
		lane := lanes[i]
		width := columnWidth / float64(lane.LaneCount)
		layouts = append(layouts, EventLayout{
			EventID:        e.ID,
			Event:          e,
			LaneIndex:      lane.LaneIndex,
			LaneCount:      lane.LaneCount,
			VerticalOffset: scale.VerticalOffset(day, e),
			Height:         scale.Height(day, e),
			XOffset:        float64(lane.LaneIndex) * width,
			Width:          width,
		})
	}

	return DayLayout{
		Date:    day.Date,
		IsToday: day.Date.Equal(today),
		AllDay:  allDay,
		Timed:   layouts,
	}
}
