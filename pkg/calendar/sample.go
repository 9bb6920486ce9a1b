package calendar

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/weekview/internal/event_bus"
	"github.com/klokku/weekview/pkg/layout"
	log "github.com/sirupsen/logrus"
)

const SampleSource = "sample"

// SampleManager is an in-memory manager used for demos. It remembers the last free-time
// tap and asks the view to scroll there.
type SampleManager struct {
	mu         sync.RWMutex
	events     []layout.Event
	scrollDate time.Time
	eventBus   *event_bus.EventBus
}

// NewSampleManager creates an empty manager. eventBus may be nil.
func NewSampleManager(eventBus *event_bus.EventBus) *SampleManager {
	return &SampleManager{
		events:     make([]layout.Event, 0),
		scrollDate: time.Now(),
		eventBus:   eventBus,
	}
}

// MockEventsFor builds count+1 consecutive one hour events starting at day.
func MockEventsFor(day time.Time, count int) []layout.Event {
	events := make([]layout.Event, 0, count+1)
	for n := 0; n <= count; n++ {
		start := day.Add(time.Duration(n) * time.Hour)
		events = append(events, layout.Event{
			ID:       uuid.New(),
			Title:    fmt.Sprintf("Event%d", n),
			Location: fmt.Sprintf("Event %d sub text", n),
			Start:    start,
			End:      start.Add(time.Hour),
		})
	}
	return events
}

// SetEvents replaces all events and notifies subscribers.
func (m *SampleManager) SetEvents(ctx context.Context, events []layout.Event) error {
	m.mu.Lock()
	m.events = slices.Clone(events)
	m.mu.Unlock()
	return m.publish(ctx, event_bus.EventsChangedType, event_bus.EventsChanged{Source: SampleSource})
}

func (m *SampleManager) EventsFor(_ context.Context, day time.Time) ([]layout.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return eventsOn(m.events, day), nil
}

func (m *SampleManager) EventTapped(_ context.Context, event layout.Event) error {
	log.Infof("%s starting at %s tapped", event.Title, event.Start.Format(time.RFC3339))
	return nil
}

func (m *SampleManager) FreeTimeTapped(ctx context.Context, at time.Time) error {
	log.Infof("free time tapped at %s", at.Format(time.RFC3339))
	m.mu.Lock()
	m.scrollDate = at
	m.mu.Unlock()
	return m.publish(ctx, event_bus.ScrollRequestedType, event_bus.ScrollRequested{Date: at})
}

// ScrollDate is the date the view was last asked to scroll to.
func (m *SampleManager) ScrollDate() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scrollDate
}

func (m *SampleManager) publish(ctx context.Context, eventType event_bus.EventType, data any) error {
	if m.eventBus == nil {
		return nil
	}
	if err := m.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}
