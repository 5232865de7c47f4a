// AngelaMos | 2026
// handler.go

package category

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/habitflow/internal/core"
	"github.com/angelamos/habitflow/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/categories", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/predefined", h.Predefined)
		r.Get("/{categoryID}", h.Get)
		r.Put("/{categoryID}", h.Update)
		r.Delete("/{categoryID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	categories, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToCategoryResponseList(categories))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	category, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToCategoryResponse(category))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	categoryID, ok := categoryIDParam(w, r)
	if !ok {
		return
	}

	category, err := h.service.GetByID(r.Context(), categoryID, userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToCategoryResponse(category))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	categoryID, ok := categoryIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	category, err := h.service.Update(r.Context(), categoryID, userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToCategoryResponse(category))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	categoryID, ok := categoryIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), categoryID, userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Predefined(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.service.Predefined())
}

func categoryIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid category id")
		return 0, false
	}
	return id, true
}
