package calendar

import (
	"context"
	"fmt"
	"net/http"

	"github.com/klokku/weekview/internal/event_bus"
	"github.com/klokku/weekview/internal/rest"
	log "github.com/sirupsen/logrus"
)

// Reloader is implemented by managers backed by a file.
type Reloader interface {
	Reload() error
}

// Reload re-reads a file backed manager and tells subscribers its events changed. It
// reports false for managers that have nothing to reload.
func Reload(ctx context.Context, manager Manager, source string, eventBus *event_bus.EventBus) (bool, error) {
	reloader, ok := manager.(Reloader)
	if !ok {
		return false, nil
	}
	if err := reloader.Reload(); err != nil {
		return true, err
	}
	err := eventBus.Publish(event_bus.NewEvent(ctx, event_bus.EventsChangedType, event_bus.EventsChanged{Source: source}))
	if err != nil {
		return true, fmt.Errorf("failed to publish reloaded %s calendar: %w", source, err)
	}
	return true, nil
}

type Handler struct {
	manager  Manager
	source   string
	eventBus *event_bus.EventBus
}

func NewHandler(manager Manager, source string, eventBus *event_bus.EventBus) *Handler {
	return &Handler{manager, source, eventBus}
}

type ReloadDTO struct {
	Source   string `json:"source"`
	Reloaded bool   `json:"reloaded"`
}

// Reload godoc
// @Summary Reload the calendar
// @Description Re-read a file or ICS calendar and recompute the current view
// @Tags Calendar
// @Produce json
// @Success 200 {object} ReloadDTO
// @Failure 500 {object} rest.ErrorResponse "Failed to reload calendar"
// @Router /api/calendar/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	reloaded, err := Reload(r.Context(), h.manager, h.source, h.eventBus)
	if err != nil {
		log.Errorf("failed to reload %s calendar: %v", h.source, err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to reload calendar", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, ReloadDTO{Source: h.source, Reloaded: reloaded})
}
