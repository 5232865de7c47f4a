// AngelaMos | 2026
// handler.go

package habit

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
	r.Route("/habits", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{habitID}", h.Get)
		r.Put("/{habitID}", h.Update)
		r.Delete("/{habitID}", h.Delete)
		r.Post("/{habitID}/archive", h.Archive)
		r.Post("/{habitID}/restore", h.Restore)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	habit, err := h.service.Create(r.Context(), userID, payload)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToHabitResponse(habit))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	habitID, ok := habitIDParam(w, r)
	if !ok {
		return
	}

	habit, err := h.service.GetByID(r.Context(), habitID, userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToHabitResponse(habit))
}

// List returns the requester's habits. Filtering is query-driven:
// ?type=useful|pleasant narrows by kind, ?category_id=N narrows to one
// category, ?include_archived=true widens the default active-only view.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if catParam := r.URL.Query().Get("category_id"); catParam != "" {
		categoryID, err := strconv.ParseInt(catParam, 10, 64)
		if err != nil || categoryID <= 0 {
			core.BadRequest(w, "invalid category id")
			return
		}
		habits, err := h.service.ListByCategory(r.Context(), userID, categoryID)
		if err != nil {
			core.JSONError(w, err)
			return
		}
		core.OK(w, ToHabitResponseList(habits))
		return
	}

	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		habits, err := h.service.ListByType(
			r.Context(), userID, HabitType(typeParam))
		if err != nil {
			core.JSONError(w, err)
			return
		}
		core.OK(w, ToHabitResponseList(habits))
		return
	}

	includeArchived := r.URL.Query().Get("include_archived") == "true"

	habits, err := h.service.ListByUser(r.Context(), userID, includeArchived)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToHabitResponseList(habits))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	habitID, ok := habitIDParam(w, r)
	if !ok {
		return
	}

	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	habit, err := h.service.Update(r.Context(), habitID, userID, payload)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToHabitResponse(habit))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	habitID, ok := habitIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), habitID, userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *Handler) setArchived(
	w http.ResponseWriter,
	r *http.Request,
	archived bool,
) {
	userID := middleware.GetUserID(r.Context())

	habitID, ok := habitIDParam(w, r)
	if !ok {
		return
	}

	var (
		habit *Habit
		err   error
	)
	if archived {
		habit, err = h.service.Archive(r.Context(), habitID, userID)
	} else {
		habit, err = h.service.Restore(r.Context(), habitID, userID)
	}
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToHabitResponse(habit))
}

func habitIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "habitID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid habit id")
		return 0, false
	}
	return id, true
}

// decodePayload reads the body as an untyped map so the payload validator
// can distinguish absent fields from explicit nulls.
func decodePayload(
	w http.ResponseWriter,
	r *http.Request,
) (map[string]any, bool) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		core.BadRequest(w, "invalid request body")
		return nil, false
	}
	return payload, true
}
