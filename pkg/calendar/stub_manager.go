package calendar

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/klokku/weekview/pkg/layout"
)

// StubManager is a Manager for tests. Failing days return Err.
type StubManager struct {
	mu          sync.Mutex
	events      []layout.Event
	failingDays map[time.Time]error
	Tapped      []layout.Event
	FreeTaps    []time.Time
	Requests    []time.Time
}

func NewStubManager(events ...layout.Event) *StubManager {
	return &StubManager{
		events:      events,
		failingDays: map[time.Time]error{},
	}
}

func (s *StubManager) SetEvents(events ...layout.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

// FailOn makes EventsFor return err for the given day.
func (s *StubManager) FailOn(day time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failingDays[day.UTC()] = err
}

func (s *StubManager) EventsFor(_ context.Context, day time.Time) ([]layout.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, day)
	if err, ok := s.failingDays[day.UTC()]; ok {
		return nil, err
	}
	return eventsOn(s.events, day), nil
}

func (s *StubManager) EventTapped(_ context.Context, event layout.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Tapped = append(s.Tapped, event)
	return nil
}

func (s *StubManager) FreeTimeTapped(_ context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FreeTaps = append(s.FreeTaps, at)
	return nil
}

func (s *StubManager) TappedEvents() []layout.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.Tapped)
}

func (s *StubManager) FreeTimeTaps() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.FreeTaps)
}
