package calendar

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/weekview/pkg/layout"
)

var ErrEventNotFound = errors.New("event not found")

// Manager is the calendar collaborator of the week view. It supplies events per day and
// receives the user's taps.
type Manager interface {
	// EventsFor returns the events touching the day starting at the given local midnight.
	EventsFor(ctx context.Context, day time.Time) ([]layout.Event, error)
	EventTapped(ctx context.Context, event layout.Event) error
	FreeTimeTapped(ctx context.Context, at time.Time) error
}

// idNamespace seeds the name-based IDs of events read from files that carry no UUID.
var idNamespace = uuid.MustParse("6f1c0d52-8a8e-4f57-9c1e-2b7f0b9d4c31")

func nameID(parts ...string) uuid.UUID {
	var name []byte
	for i, p := range parts {
		if i > 0 {
			name = append(name, '/')
		}
		name = append(name, p...)
	}
	return uuid.NewSHA1(idNamespace, name)
}

// eventsOn filters events down to the ones touching day, ordered for stable output.
func eventsOn(events []layout.Event, day time.Time) []layout.Event {
	d := layout.Day{Date: day}
	result := make([]layout.Event, 0)
	for _, e := range events {
		if d.Intersects(e) {
			result = append(result, e)
		}
	}
	slices.SortStableFunc(result, layout.Compare)
	return result
}
