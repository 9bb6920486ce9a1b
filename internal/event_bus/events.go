package event_bus

import (
	"time"

	"github.com/klokku/weekview/pkg/layout"
)

const (
	LayoutUpdatedType   EventType = "layout.updated"
	NowTickedType       EventType = "now.ticked"
	EventTappedType     EventType = "event.tapped"
	FreeTimeTappedType  EventType = "freetime.tapped"
	ScrollRequestedType EventType = "scroll.requested"
	EventsChangedType   EventType = "calendar.events.changed"
	DayChangedType      EventType = "now.day.changed"
)

// LayoutUpdated is published after every successful layout computation.
type LayoutUpdated struct {
	Result layout.Result
}

// NowTicked carries the current time indicator position.
type NowTicked struct {
	At     time.Time
	Offset float64
}

type EventTapped struct {
	Event layout.Event
}

type FreeTimeTapped struct {
	At time.Time
}

// ScrollRequested asks the view to bring Date (and its time of day) into view.
type ScrollRequested struct {
	Date time.Time
}

// EventsChanged tells subscribers that a calendar source has new events and cached layouts
// are stale.
type EventsChanged struct {
	Source string
}

// DayChanged is published at local midnight. Date is the new day.
type DayChanged struct {
	Date time.Time
}
