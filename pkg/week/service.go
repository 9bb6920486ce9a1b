package week

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/weekview/internal/event_bus"
	"github.com/klokku/weekview/internal/utils"
	"github.com/klokku/weekview/pkg/calendar"
	"github.com/klokku/weekview/pkg/layout"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNoLayout     = errors.New("no layout computed yet")
	ErrDayNotInView = errors.New("day is not in view")
	ErrNotFreeTime  = errors.New("time is occupied by an event")
)

// Service fetches events for the visible range from the calendar manager, lays them out
// and forwards taps back to the manager.
type Service struct {
	manager  calendar.Manager
	base     layout.Config
	clock    utils.Clock
	eventBus *event_bus.EventBus

	mu      sync.RWMutex
	current layout.Result
	cfg     layout.Config
	hasView bool
}

// NewService creates the service. base is the view configuration; its Today and From are
// filled in on every computation. The service recomputes the current view whenever the
// calendar reports changed events and when a new day starts.
func NewService(manager calendar.Manager, base layout.Config, clock utils.Clock, eventBus *event_bus.EventBus) *Service {
	s := &Service{
		manager:  manager,
		base:     base,
		clock:    clock,
		eventBus: eventBus,
	}
	event_bus.SubscribeTyped(eventBus, event_bus.EventsChangedType, func(e event_bus.EventT[event_bus.EventsChanged]) error {
		log.Debugf("events changed in %s calendar, refreshing the view", e.Data.Source)
		return s.Refresh(e.Context())
	})
	event_bus.SubscribeTyped(eventBus, event_bus.DayChangedType, func(e event_bus.EventT[event_bus.DayChanged]) error {
		log.Debugf("day changed to %s, refreshing the view", e.Data.Date.Format(time.DateOnly))
		return s.Refresh(e.Context())
	})
	return s
}

// Config returns the base view configuration anchored at the current time.
func (s *Service) Config() layout.Config {
	cfg := s.base
	cfg.Today = s.clock.Now()
	return cfg
}

// Week computes the layout of days days starting at from. A zero from means today and a
// non-positive days means the configured number of days.
func (s *Service) Week(ctx context.Context, from time.Time, days int) (layout.Result, error) {
	cfg := s.Config()
	cfg.From = from
	if days > 0 {
		cfg.DaysInFuture = days
	}
	return s.compute(ctx, cfg)
}

// Refresh recomputes the current view with the same range. It is a no-op before the first
// computation.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.RLock()
	cfg, ok := s.cfg, s.hasView
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	cfg.Today = s.clock.Now()
	_, err := s.compute(ctx, cfg)
	return err
}

func (s *Service) compute(ctx context.Context, cfg layout.Config) (layout.Result, error) {
	if err := cfg.Validate(); err != nil {
		return layout.Result{}, err
	}

	events := s.fetch(ctx, cfg.Dates())
	result, err := layout.ComputeLayout(events, cfg)
	if err != nil {
		return layout.Result{}, fmt.Errorf("failed to compute layout: %w", err)
	}

	s.mu.Lock()
	s.current = result
	s.cfg = cfg
	s.hasView = true
	s.mu.Unlock()

	err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.LayoutUpdatedType, event_bus.LayoutUpdated{Result: result}))
	if err != nil {
		log.Errorf("failed to publish layout update: %v", err)
	}
	return result, nil
}

// fetch collects the events of every day. A day whose source fails is logged and left
// empty; events touching several days are kept once.
func (s *Service) fetch(ctx context.Context, dates []time.Time) []layout.Event {
	seen := make(map[uuid.UUID]bool)
	events := make([]layout.Event, 0)
	for _, date := range dates {
		dayEvents, err := s.manager.EventsFor(ctx, date)
		if err != nil {
			log.Errorf("failed to get events for %s, showing the day empty: %v", date.Format(time.DateOnly), err)
			continue
		}
		for _, e := range dayEvents {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			events = append(events, e)
		}
	}
	log.Debugf("fetched %d events for %d days", len(events), len(dates))
	return events
}

// Current returns the last computed layout.
func (s *Service) Current() (layout.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasView {
		return layout.Result{}, ErrNoLayout
	}
	return s.current, nil
}

// TapEvent reports a tap on an event of the current view to the calendar manager.
func (s *Service) TapEvent(ctx context.Context, id uuid.UUID) (layout.Event, error) {
	current, err := s.Current()
	if err != nil {
		return layout.Event{}, err
	}
	event, _, ok := current.Find(id)
	if !ok {
		return layout.Event{}, fmt.Errorf("%w: %s", calendar.ErrEventNotFound, id)
	}

	if err := s.manager.EventTapped(ctx, event); err != nil {
		return layout.Event{}, fmt.Errorf("failed to report event tap: %w", err)
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.EventTappedType, event_bus.EventTapped{Event: event})); err != nil {
		log.Errorf("failed to publish event tap: %v", err)
	}
	return event, nil
}

// TapFreeTime resolves a tap at vertical offset y in the column of date. The instant is
// reported to the calendar manager only when no timed event covers it.
func (s *Service) TapFreeTime(ctx context.Context, date time.Time, y float64) (time.Time, error) {
	s.mu.RLock()
	current, cfg, ok := s.current, s.cfg, s.hasView
	s.mu.RUnlock()
	if !ok {
		return time.Time{}, ErrNoLayout
	}

	midnight := layout.StartOfDay(date, cfg.Zone())
	var day *layout.DayLayout
	for i := range current.Days {
		if current.Days[i].Date.Equal(midnight) {
			day = &current.Days[i]
			break
		}
	}
	if day == nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrDayNotInView, midnight.Format(time.DateOnly))
	}

	timed := make([]layout.Event, 0, len(day.Timed))
	for _, l := range day.Timed {
		timed = append(timed, l.Event)
	}
	at, free := cfg.Scale().FreeTimeAt(layout.Day{Date: day.Date, Events: timed}, y)
	if !free {
		return at, fmt.Errorf("%w: %s", ErrNotFreeTime, at.Format(time.RFC3339))
	}

	if err := s.manager.FreeTimeTapped(ctx, at); err != nil {
		return time.Time{}, fmt.Errorf("failed to report free time tap: %w", err)
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.FreeTimeTappedType, event_bus.FreeTimeTapped{At: at})); err != nil {
		log.Errorf("failed to publish free time tap: %v", err)
	}
	return at, nil
}
