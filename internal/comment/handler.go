// AngelaMos | 2026
// handler.go

package comment

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
	r.Route("/logs/{logID}/comments", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListForLog)
		r.Post("/", h.Create)
	})

	r.Route("/habits/{habitID}/comments", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListForHabit)
	})

	r.Route("/comments/{commentID}", func(r chi.Router) {
		r.Use(authenticator)

		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	logID, ok := idParam(w, r, "logID", "invalid log id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	comment, err := h.service.Create(r.Context(), logID, userID, req.Text)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToCommentResponse(comment))
}

func (h *Handler) ListForLog(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	logID, ok := idParam(w, r, "logID", "invalid log id")
	if !ok {
		return
	}

	comments, err := h.service.ListForLog(r.Context(), logID, userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToCommentResponseList(comments))
}

func (h *Handler) ListForHabit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	habitID, ok := idParam(w, r, "habitID", "invalid habit id")
	if !ok {
		return
	}

	comments, err := h.service.ListForHabit(
		r.Context(),
		habitID,
		userID,
		r.URL.Query().Get("q"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToCommentResponseList(comments))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	commentID, ok := idParam(w, r, "commentID", "invalid comment id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	comment, err := h.service.Update(r.Context(), commentID, userID, req.Text)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToCommentResponse(comment))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	commentID, ok := idParam(w, r, "commentID", "invalid comment id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), commentID, userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func idParam(
	w http.ResponseWriter,
	r *http.Request,
	name, message string,
) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, message)
		return 0, false
	}
	return id, true
}
