// AngelaMos | 2026
// handler.go

package habitlog

import (
	"encoding/json"
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
	r.Route("/habits/{habitID}/logs", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/toggle", h.Toggle)
	})
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	habitID, ok := habitIDParam(w, r)
	if !ok {
		return
	}

	var req ToggleRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
	}

	log, err := h.service.Toggle(r.Context(), habitID, userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToLogResponse(log))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	habitID, ok := habitIDParam(w, r)
	if !ok {
		return
	}

	logs, err := h.service.ListRange(
		r.Context(),
		habitID,
		userID,
		r.URL.Query().Get("from"),
		r.URL.Query().Get("to"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToLogResponseList(logs))
}

func habitIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "habitID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid habit id")
		return 0, false
	}
	return id, true
}
