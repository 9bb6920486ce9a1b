package week

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/klokku/weekview/internal/rest"
	"github.com/klokku/weekview/pkg/calendar"
	"github.com/klokku/weekview/pkg/layout"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service}
}

type EventDTO struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"allDay"`
	Color    string    `json:"color,omitempty"`
}

type EventLayoutDTO struct {
	EventID        string   `json:"eventId"`
	Event          EventDTO `json:"event"`
	LaneIndex      int      `json:"laneIndex"`
	LaneCount      int      `json:"laneCount"`
	VerticalOffset float64  `json:"verticalOffset"`
	Height         float64  `json:"height"`
	XOffset        float64  `json:"xOffset"`
	Width          float64  `json:"width"`
}

type DayDTO struct {
	Date    string           `json:"date"`
	Week    string           `json:"week"`
	IsToday bool             `json:"isToday"`
	AllDay  []EventDTO       `json:"allDay"`
	Timed   []EventLayoutDTO `json:"timed"`
}

type WeekDTO struct {
	Days          []DayDTO `json:"days"`
	SecondHeight  float64  `json:"secondHeight"`
	ContentHeight float64  `json:"contentHeight"`
	ColumnWidth   float64  `json:"columnWidth"`
	NowOffset     float64  `json:"nowOffset"`
}

// LayoutRequestDTO carries events and optional view overrides for a one-off layout.
type LayoutRequestDTO struct {
	Events         []EventDTO `json:"events"`
	From           string     `json:"from,omitempty"`
	VisibleDays    int        `json:"visibleDays,omitempty"`
	VisibleHours   int        `json:"visibleHours,omitempty"`
	DaysInFuture   int        `json:"daysInFuture,omitempty"`
	ViewportHeight float64    `json:"viewportHeight,omitempty"`
	ViewportWidth  float64    `json:"viewportWidth,omitempty"`
	LaneStrategy   string     `json:"laneStrategy,omitempty"`
}

type FreeTimeTapDTO struct {
	Date string  `json:"date"`
	Y    float64 `json:"y"`
}

type FreeTimeDTO struct {
	At time.Time `json:"at"`
}

// GetWeek godoc
// @Summary Get the week layout
// @Description Lay out the configured range of days. It becomes the current view.
// @Tags Week
// @Produce json
// @Param from query string false "First day: today, tomorrow, +Nd, YYYY-Www, YYYY-MM-DD or RFC3339"
// @Param days query int false "Number of days, at most 366"
// @Success 200 {object} WeekDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid query or view configuration"
// @Failure 500 {object} rest.ErrorResponse "Calendar failure"
// @Router /api/week [get]
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	cfg := h.service.Config()

	var from time.Time
	if fromString := r.URL.Query().Get("from"); fromString != "" {
		var err error
		from, err = ParseDay(fromString, cfg.Today, cfg.Zone())
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid from (day) format", "'from' must be today, tomorrow, +Nd, YYYY-Www, YYYY-MM-DD or RFC3339")
			return
		}
	}
	days := 0
	if daysString := r.URL.Query().Get("days"); daysString != "" {
		var err error
		days, err = strconv.Atoi(daysString)
		if err != nil || days < 1 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid days", "'days' must be a positive integer")
			return
		}
	}

	result, err := h.service.Week(r.Context(), from, days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ResultToDTO(result))
}

// ComputeLayout godoc
// @Summary Lay out the given events
// @Description Lay out the events of the request body without consulting the calendar
// @Tags Week
// @Accept json
// @Produce json
// @Param layout body LayoutRequestDTO true "Events and view overrides"
// @Success 200 {object} WeekDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/layout [post]
func (h *Handler) ComputeLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	cfg := h.service.Config()
	if req.From != "" {
		from, err := ParseDay(req.From, cfg.Today, cfg.Zone())
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid from (day) format", err.Error())
			return
		}
		cfg.From = from
	}
	overrideInt(&cfg.VisibleDays, req.VisibleDays)
	overrideInt(&cfg.VisibleHours, req.VisibleHours)
	overrideInt(&cfg.DaysInFuture, req.DaysInFuture)
	if req.ViewportHeight != 0 {
		cfg.ViewportHeight = req.ViewportHeight
	}
	if req.ViewportWidth != 0 {
		cfg.ViewportWidth = req.ViewportWidth
	}
	if req.LaneStrategy != "" {
		cfg.Strategy = layout.LaneStrategy(req.LaneStrategy)
	}

	events := make([]layout.Event, 0, len(req.Events))
	for _, dto := range req.Events {
		e, err := dtoToEvent(dto)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid event id", err.Error())
			return
		}
		events = append(events, e)
	}

	result, err := layout.ComputeLayout(events, cfg)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ResultToDTO(result))
}

// TapEvent godoc
// @Summary Tap an event
// @Description Forward a tap on an event of the current view to the calendar
// @Tags Week
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid event id"
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Failure 409 {object} rest.ErrorResponse "No layout computed yet"
// @Router /api/event/{eventId}/tap [post]
func (h *Handler) TapEvent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["eventId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event id", "'eventId' must be a UUID")
		return
	}

	event, err := h.service.TapEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	log.Debugf("event %s tapped", event.ID)
	rest.WriteJSON(w, http.StatusOK, eventToDTO(event))
}

// TapFreeTime godoc
// @Summary Tap free time
// @Description Resolve a tap at a vertical offset of a day column and forward it to the calendar
// @Tags Week
// @Accept json
// @Produce json
// @Param tap body FreeTimeTapDTO true "Day and offset"
// @Success 200 {object} FreeTimeDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request or day not in view"
// @Failure 409 {object} rest.ErrorResponse "No layout yet or the offset is covered by an event"
// @Router /api/freetime/tap [post]
func (h *Handler) TapFreeTime(w http.ResponseWriter, r *http.Request) {
	var req FreeTimeTapDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	cfg := h.service.Config()
	date, err := ParseDay(req.Date, cfg.Today, cfg.Zone())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", err.Error())
		return
	}

	at, err := h.service.TapFreeTime(r.Context(), date, req.Y)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, FreeTimeDTO{At: at})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, layout.ErrInvalidConfig):
		rest.WriteError(w, http.StatusBadRequest, "Invalid view configuration", err.Error())
	case errors.Is(err, layout.ErrInvalidEvent):
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
	case errors.Is(err, ErrDayNotInView):
		rest.WriteError(w, http.StatusBadRequest, "Day is not in view", err.Error())
	case errors.Is(err, calendar.ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "Event not found", err.Error())
	case errors.Is(err, ErrNoLayout), errors.Is(err, ErrNotFreeTime):
		rest.WriteError(w, http.StatusConflict, err.Error(), "")
	default:
		log.Errorf("week request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

func overrideInt(target *int, value int) {
	if value != 0 {
		*target = value
	}
}

func eventToDTO(e layout.Event) EventDTO {
	return EventDTO{
		ID:       e.ID.String(),
		Title:    e.Title,
		Location: e.Location,
		Start:    e.Start,
		End:      e.End,
		AllDay:   e.AllDay,
		Color:    e.Color,
	}
}

// dtoToEvent converts a request event. Events without an id get a random one.
func dtoToEvent(dto EventDTO) (layout.Event, error) {
	id := uuid.New()
	if dto.ID != "" {
		var err error
		id, err = uuid.Parse(dto.ID)
		if err != nil {
			return layout.Event{}, err
		}
	}
	return layout.Event{
		ID:       id,
		Title:    dto.Title,
		Location: dto.Location,
		Start:    dto.Start,
		End:      dto.End,
		AllDay:   dto.AllDay,
		Color:    dto.Color,
	}, nil
}

// ResultToDTO converts a layout into its JSON shape.
func ResultToDTO(result layout.Result) WeekDTO {
	days := make([]DayDTO, 0, len(result.Days))
	for _, d := range result.Days {
		allDay := make([]EventDTO, 0, len(d.AllDay))
		for _, e := range d.AllDay {
			allDay = append(allDay, eventToDTO(e))
		}
		timed := make([]EventLayoutDTO, 0, len(d.Timed))
		for _, l := range d.Timed {
			timed = append(timed, EventLayoutDTO{
				EventID:        l.EventID.String(),
				Event:          eventToDTO(l.Event),
				LaneIndex:      l.LaneIndex,
				LaneCount:      l.LaneCount,
				VerticalOffset: l.VerticalOffset,
				Height:         l.Height,
				XOffset:        l.XOffset,
				Width:          l.Width,
			})
		}
		days = append(days, DayDTO{
			Date:    d.Date.Format(time.DateOnly),
			Week:    WeekNumberFromDate(d.Date, time.Monday).String(),
			IsToday: d.IsToday,
			AllDay:  allDay,
			Timed:   timed,
		})
	}
	return WeekDTO{
		Days:          days,
		SecondHeight:  result.SecondHeight,
		ContentHeight: result.ContentHeight,
		ColumnWidth:   result.ColumnWidth,
		NowOffset:     result.NowOffset,
	}
}
