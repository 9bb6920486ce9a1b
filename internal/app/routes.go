package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Week view
	r.HandleFunc("/api/week", deps.WeekHandler.GetWeek).Methods("GET")
	r.HandleFunc("/api/layout", deps.WeekHandler.ComputeLayout).Methods("POST")
	r.HandleFunc("/api/event/{eventId}/tap", deps.WeekHandler.TapEvent).Methods("POST")
	r.HandleFunc("/api/freetime/tap", deps.WeekHandler.TapFreeTime).Methods("POST")

	// Current time indicator
	r.HandleFunc("/api/now", deps.NowHandler.GetNow).Methods("GET")

	// Scrolling
	r.HandleFunc("/api/scroll", deps.ScrollHandler.GetState).Methods("GET")
	r.HandleFunc("/api/scroll/begin", deps.ScrollHandler.BeginUserScroll).Methods("POST")
	r.HandleFunc("/api/scroll/end", deps.ScrollHandler.EndUserScroll).Methods("POST")
	r.HandleFunc("/api/scroll/offset", deps.ScrollHandler.OffsetChanged).Methods("POST")
	r.HandleFunc("/api/scroll/to", deps.ScrollHandler.ScrollTo).Methods("POST")

	// Calendar source
	r.HandleFunc("/api/calendar/reload", deps.CalendarHandler.Reload).Methods("POST")
}
