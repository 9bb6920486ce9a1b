package scroll

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/klokku/weekview/internal/event_bus"
	"github.com/klokku/weekview/pkg/layout"
	log "github.com/sirupsen/logrus"
)

type State int

const (
	Idle State = iota
	UserScrolling
	ProgrammaticScroll
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case UserScrolling:
		return "user_scrolling"
	case ProgrammaticScroll:
		return "programmatic_scroll"
	}
	return "unknown"
}

// targetTolerance is how close a reported offset has to be to the target for a
// programmatic scroll to count as finished.
const targetTolerance = 0.5

type Snapshot struct {
	State  State
	Offset float64
	Target float64
}

// Controller tracks the vertical scroll position shared by all day columns. Offsets
// reported while a programmatic scroll is settling are echoes of that scroll and are
// not treated as user input.
type Controller struct {
	scale          layout.Scale
	loc            *time.Location
	viewportHeight float64

	mu     sync.Mutex
	state  State
	offset float64
	target float64
}

// NewController creates the controller and subscribes it to scroll requests.
func NewController(cfg layout.Config, eventBus *event_bus.EventBus) *Controller {
	c := &Controller{
		scale:          cfg.Scale(),
		loc:            cfg.Zone(),
		viewportHeight: cfg.ViewportHeight,
	}
	event_bus.SubscribeTyped(eventBus, event_bus.ScrollRequestedType, func(e event_bus.EventT[event_bus.ScrollRequested]) error {
		c.ScrollTo(e.Context(), e.Data.Date)
		return nil
	})
	return c
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{State: c.state, Offset: c.offset, Target: c.target}
}

// BeginUserScroll marks the start of a drag. A programmatic scroll in flight is abandoned.
func (c *Controller) BeginUserScroll() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = UserScrolling
	return c.snapshot()
}

func (c *Controller) EndUserScroll(offset float64) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = c.clamp(offset)
	c.state = Idle
	return c.snapshot()
}

// ScrollTo starts a programmatic scroll bringing the time of day of at to the top of the
// viewport. It is ignored while the user is scrolling.
func (c *Controller) ScrollTo(ctx context.Context, at time.Time) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == UserScrolling {
		log.WithContext(ctx).Debugf("scroll to %s ignored, user is scrolling", at.Format(time.RFC3339))
		return c.snapshot(), false
	}
	c.target = c.clamp(c.scale.NowOffset(at, c.loc))
	c.state = ProgrammaticScroll
	log.WithContext(ctx).Debugf("scrolling to %s (offset %.2f)", at.Format(time.RFC3339), c.target)
	return c.snapshot(), true
}

// OffsetChanged records an offset reported by the view. It returns false when the report
// is suppressed as the echo of a programmatic scroll. Reaching the target ends it.
func (c *Controller) OffsetChanged(offset float64) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	offset = c.clamp(offset)
	if c.state == ProgrammaticScroll {
		if math.Abs(offset-c.target) <= targetTolerance {
			c.offset = c.target
			c.state = Idle
		}
		return c.snapshot(), false
	}
	c.offset = offset
	return c.snapshot(), true
}

// clamp keeps an offset inside the scrollable range [0, content height - viewport height].
func (c *Controller) clamp(offset float64) float64 {
	limit := max(c.scale.ContentHeight()-c.viewportHeight, 0)
	return min(max(offset, 0), limit)
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{State: c.state, Offset: c.offset, Target: c.target}
}
