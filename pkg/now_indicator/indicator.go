package now_indicator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/klokku/weekview/internal/event_bus"
	"github.com/klokku/weekview/internal/utils"
	"github.com/klokku/weekview/pkg/layout"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Indicator keeps the position of the current time line up to date while a view that
// contains today is shown. It runs only between a layout containing today and the next
// layout that does not. At local midnight it announces the new day so the view can move
// its today column.
type Indicator struct {
	scale    layout.Scale
	loc      *time.Location
	interval time.Duration
	clock    utils.Clock
	eventBus *event_bus.EventBus

	mu        sync.Mutex
	scheduler *cron.Cron
	last      event_bus.NowTicked
}

func NewIndicator(cfg layout.Config, interval time.Duration, clock utils.Clock, eventBus *event_bus.EventBus) *Indicator {
	i := &Indicator{
		scale:    cfg.Scale(),
		loc:      cfg.Zone(),
		interval: interval,
		clock:    clock,
		eventBus: eventBus,
	}
	event_bus.SubscribeTyped(eventBus, event_bus.LayoutUpdatedType, func(e event_bus.EventT[event_bus.LayoutUpdated]) error {
		if e.Data.Result.ContainsToday() {
			return i.Start(e.Context())
		}
		i.Stop()
		return nil
	})
	return i
}

// Start schedules a tick every interval plus the midnight roll over, and publishes the
// current position right away. Starting a running indicator only publishes.
func (i *Indicator) Start(ctx context.Context) error {
	i.mu.Lock()
	if i.scheduler == nil {
		scheduler := cron.New(cron.WithLocation(i.loc))
		if _, err := scheduler.AddFunc("@every "+i.interval.String(), i.scheduledTick); err != nil {
			i.mu.Unlock()
			return fmt.Errorf("failed to schedule now indicator: %w", err)
		}
		// Subscribers may stop the indicator, which waits for running jobs.
		if _, err := scheduler.AddFunc("@midnight", func() { go i.RollOver(context.Background()) }); err != nil {
			i.mu.Unlock()
			return fmt.Errorf("failed to schedule day roll over: %w", err)
		}
		scheduler.Start()
		i.scheduler = scheduler
		log.Debugf("now indicator started, ticking every %s", i.interval)
	}
	i.mu.Unlock()

	i.Tick(ctx)
	return nil
}

// Stop cancels the schedule and waits for a running tick to finish.
func (i *Indicator) Stop() {
	i.mu.Lock()
	scheduler := i.scheduler
	i.scheduler = nil
	i.mu.Unlock()
	if scheduler == nil {
		return
	}
	<-scheduler.Stop().Done()
	log.Debug("now indicator stopped")
}

func (i *Indicator) Running() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.scheduler != nil
}

// Current returns the last published position.
func (i *Indicator) Current() event_bus.NowTicked {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.last
}

// Tick recomputes the indicator offset from the clock and publishes it.
func (i *Indicator) Tick(ctx context.Context) event_bus.NowTicked {
	now := i.clock.Now()
	tick := event_bus.NowTicked{At: now, Offset: i.scale.NowOffset(now, i.loc)}

	i.mu.Lock()
	i.last = tick
	i.mu.Unlock()

	log.Tracef("now indicator at %s, offset %.2f", now.Format(time.TimeOnly), tick.Offset)
	if err := i.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.NowTickedType, tick)); err != nil {
		log.Errorf("failed to publish now indicator tick: %v", err)
	}
	return tick
}

func (i *Indicator) scheduledTick() {
	i.Tick(context.Background())
}

// RollOver publishes the start of a new local day.
func (i *Indicator) RollOver(ctx context.Context) {
	date := layout.StartOfDay(i.clock.Now(), i.loc)
	log.Infof("day changed to %s", date.Format(time.DateOnly))
	if err := i.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.DayChangedType, event_bus.DayChanged{Date: date})); err != nil {
		log.Errorf("failed to publish day change: %v", err)
	}
}
