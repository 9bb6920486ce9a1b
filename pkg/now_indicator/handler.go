package now_indicator

import (
	"net/http"
	"time"

	"github.com/klokku/weekview/internal/rest"
)

type Handler struct {
	indicator *Indicator
}

func NewHandler(indicator *Indicator) *Handler {
	return &Handler{indicator}
}

type NowDTO struct {
	At      time.Time `json:"at"`
	Offset  float64   `json:"offset"`
	Running bool      `json:"running"`
}

// GetNow godoc
// @Summary Get the current time indicator
// @Description Return the last indicator position. Before the first tick at is the zero time.
// @Tags Now
// @Produce json
// @Success 200 {object} NowDTO
// @Router /api/now [get]
func (h *Handler) GetNow(w http.ResponseWriter, r *http.Request) {
	current := h.indicator.Current()
	rest.WriteJSON(w, http.StatusOK, NowDTO{
		At:      current.At,
		Offset:  current.Offset,
		Running: h.indicator.Running(),
	})
}
