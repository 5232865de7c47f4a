// AngelaMos | 2026
// handler.go

package tag

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
	r.Route("/habits/{habitID}/tags", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListForHabit)
		r.Post("/", h.Assign)
		r.Delete("/{tagID}", h.Remove)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListForUser)
		r.Get("/suggestions", h.Suggest)
		r.Delete("/unused", h.CleanupUnused)
	})
}

func (h *Handler) ListForHabit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	habitID, ok := habitIDParam(w, r)
	if !ok {
		return
	}

	tags, err := h.service.ListForHabit(r.Context(), habitID, userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToTagResponseList(tags))
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	habitID, ok := habitIDParam(w, r)
	if !ok {
		return
	}

	var req AssignTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if req.Tags == nil {
		core.BadRequest(w, "tags field is required")
		return
	}

	tags, err := h.service.Assign(r.Context(), habitID, userID, req.Tags)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToTagResponseList(tags))
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	habitID, ok := habitIDParam(w, r)
	if !ok {
		return
	}

	tagID, err := strconv.ParseInt(chi.URLParam(r, "tagID"), 10, 64)
	if err != nil || tagID <= 0 {
		core.BadRequest(w, "invalid tag id")
		return
	}

	if err := h.service.Remove(r.Context(), habitID, tagID, userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	tags, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToTagResponseList(tags))
}

func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	names, err := h.service.Suggest(
		r.Context(),
		userID,
		r.URL.Query().Get("prefix"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, names)
}

func (h *Handler) CleanupUnused(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	deleted, err := h.service.CleanupUnused(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]int64{"deleted": deleted})
}

func habitIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "habitID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid habit id")
		return 0, false
	}
	return id, true
}
