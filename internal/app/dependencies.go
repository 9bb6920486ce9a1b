package app

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/weekview/internal/config"
	"github.com/klokku/weekview/internal/event_bus"
	"github.com/klokku/weekview/internal/utils"
	"github.com/klokku/weekview/pkg/calendar"
	"github.com/klokku/weekview/pkg/layout"
	"github.com/klokku/weekview/pkg/now_indicator"
	"github.com/klokku/weekview/pkg/scroll"
	"github.com/klokku/weekview/pkg/week"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	CalendarManager calendar.Manager
	CalendarHandler *calendar.Handler

	WeekService *week.Service
	WeekHandler *week.Handler

	NowIndicator *now_indicator.Indicator
	NowHandler   *now_indicator.Handler

	ScrollController *scroll.Controller
	ScrollHandler    *scroll.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application, clock utils.Clock) (*Dependencies, error) {
	deps := &Dependencies{
		Clock:    clock,
		EventBus: event_bus.NewEventBus(),
	}
	layoutCfg := cfg.View.LayoutConfig(clock.Now())

	manager, err := newCalendarManager(cfg.Calendar, layoutCfg, deps.EventBus)
	if err != nil {
		return nil, err
	}
	deps.CalendarManager = manager
	deps.CalendarHandler = calendar.NewHandler(manager, cfg.Calendar.Source, deps.EventBus)

	deps.WeekService = week.NewService(manager, layoutCfg, clock, deps.EventBus)
	deps.WeekHandler = week.NewHandler(deps.WeekService)

	deps.NowIndicator = now_indicator.NewIndicator(layoutCfg, cfg.Indicator.Interval, clock, deps.EventBus)
	deps.NowHandler = now_indicator.NewHandler(deps.NowIndicator)

	deps.ScrollController = scroll.NewController(layoutCfg, deps.EventBus)
	deps.ScrollHandler = scroll.NewHandler(deps.ScrollController)

	return deps, nil
}

func newCalendarManager(cfg config.Calendar, view layout.Config, eventBus *event_bus.EventBus) (calendar.Manager, error) {
	switch cfg.Source {
	case config.SourceSample:
		manager := calendar.NewSampleManager(eventBus)
		if err := manager.SetEvents(context.Background(), sampleEvents(view.Dates())); err != nil {
			return nil, err
		}
		return manager, nil
	case config.SourceFile:
		return calendar.NewFileManager(cfg.Path, view.Zone())
	case config.SourceICS:
		return calendar.NewICSManager(cfg.Path, view.Zone())
	}
	return nil, fmt.Errorf("%w: unknown calendar source %q", config.ErrInvalidConfig, cfg.Source)
}

// sampleEvents fills every day with a few hourly blocks starting in the morning.
func sampleEvents(dates []time.Time) []layout.Event {
	events := make([]layout.Event, 0)
	for i, date := range dates {
		events = append(events, calendar.MockEventsFor(date.Add(time.Duration(8+i%3)*time.Hour), 2+i%4)...)
	}
	return events
}
