// AngelaMos | 2026
// handler.go

package analytics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/habitflow/internal/core"
	"github.com/angelamos/habitflow/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/analytics", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/summary", h.Summary)
		r.Get("/habits/{habitID}", h.HabitStatistics)
	})
}

func (h *Handler) HabitStatistics(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	habitID, err := strconv.ParseInt(chi.URLParam(r, "habitID"), 10, 64)
	if err != nil || habitID <= 0 {
		core.BadRequest(w, "invalid habit id")
		return
	}

	days, ok := trackingDaysParam(w, r)
	if !ok {
		return
	}

	stats, err := h.service.HabitStatistics(r.Context(), habitID, userID, days)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	days, ok := trackingDaysParam(w, r)
	if !ok {
		return
	}

	summary, err := h.service.UserSummary(r.Context(), userID, days)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, summary)
}

// trackingDaysParam reads the optional ?days= query parameter. Zero means
// the service should fall back to the user's default window.
func trackingDaysParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, true
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		core.BadRequest(w, "days must be an integer")
		return 0, false
	}

	return days, true
}
