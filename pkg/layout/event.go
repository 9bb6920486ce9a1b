package layout

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEvent  = errors.New("invalid event")
	ErrInvalidConfig = errors.New("invalid layout config")
)

type Event struct {
	ID       uuid.UUID
	Title    string
	Location string // empty when the event has no location
	Start    time.Time
	End      time.Time
	AllDay   bool
	Color    string // passed through to the renderer, never interpreted
}

// Validate rejects events that end before they start. Zero-duration events are valid.
func (e Event) Validate() error {
	if e.End.Before(e.Start) {
		return fmt.Errorf("%w: event %s ends (%s) before it starts (%s)", ErrInvalidEvent,
			e.ID, e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	return nil
}

func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Compare orders events by start, then title, then ID.
func Compare(a, b Event) int {
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

func validateAll(events []Event) error {
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}
