package scroll

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/klokku/weekview/internal/rest"
)

type Handler struct {
	controller *Controller
}

func NewHandler(controller *Controller) *Handler {
	return &Handler{controller}
}

type StateDTO struct {
	State    string  `json:"state"`
	Offset   float64 `json:"offset"`
	Target   float64 `json:"target"`
	Accepted bool    `json:"accepted"`
}

type OffsetDTO struct {
	Offset float64 `json:"offset"`
}

type ScrollToDTO struct {
	At time.Time `json:"at"`
}

// GetState godoc
// @Summary Get the scroll state
// @Tags Scroll
// @Produce json
// @Success 200 {object} StateDTO
// @Router /api/scroll [get]
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, toDTO(h.controller.Snapshot(), true))
}

// BeginUserScroll godoc
// @Summary Begin a user scroll
// @Description Mark the view as scrolled by the user. Programmatic scrolls are refused until it ends.
// @Tags Scroll
// @Produce json
// @Success 200 {object} StateDTO
// @Router /api/scroll/begin [post]
func (h *Handler) BeginUserScroll(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, toDTO(h.controller.BeginUserScroll(), true))
}

// EndUserScroll godoc
// @Summary End a user scroll
// @Tags Scroll
// @Accept json
// @Produce json
// @Param offset body OffsetDTO true "Final offset"
// @Success 200 {object} StateDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request body"
// @Router /api/scroll/end [post]
func (h *Handler) EndUserScroll(w http.ResponseWriter, r *http.Request) {
	var req OffsetDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(h.controller.EndUserScroll(req.Offset), true))
}

// OffsetChanged godoc
// @Summary Report a view offset
// @Description Report the current offset of the view. accepted is false when it was suppressed.
// @Tags Scroll
// @Accept json
// @Produce json
// @Param offset body OffsetDTO true "Offset"
// @Success 200 {object} StateDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request body"
// @Router /api/scroll/offset [post]
func (h *Handler) OffsetChanged(w http.ResponseWriter, r *http.Request) {
	var req OffsetDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	snapshot, accepted := h.controller.OffsetChanged(req.Offset)
	rest.WriteJSON(w, http.StatusOK, toDTO(snapshot, accepted))
}

// ScrollTo godoc
// @Summary Scroll to a time
// @Description Start a programmatic scroll. accepted is false while the user is scrolling.
// @Tags Scroll
// @Accept json
// @Produce json
// @Param target body ScrollToDTO true "Time to scroll to"
// @Success 200 {object} StateDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request body"
// @Router /api/scroll/to [post]
func (h *Handler) ScrollTo(w http.ResponseWriter, r *http.Request) {
	var req ScrollToDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.At.IsZero() {
		rest.WriteError(w, http.StatusBadRequest, "Missing time", "'at' must be an RFC3339 time")
		return
	}
	snapshot, accepted := h.controller.ScrollTo(r.Context(), req.At)
	rest.WriteJSON(w, http.StatusOK, toDTO(snapshot, accepted))
}

func toDTO(s Snapshot, accepted bool) StateDTO {
	return StateDTO{
		State:    s.State.String(),
		Offset:   s.Offset,
		Target:   s.Target,
		Accepted: accepted,
	}
}
