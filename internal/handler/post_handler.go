package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-blog-api/internal/middleware"
	"go-blog-api/internal/model"
	"go-blog-api/internal/service"
	"go-blog-api/pkg/apierror"
)

type PostHandler struct {
	service *service.PostService
}

func NewPostHandler(service *service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List serves the public feed with optional category/tag filters and
// pagination.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.PostFilter{
		CategorySlug: strings.TrimSpace(r.URL.Query().Get("category")),
		TagSlug:      strings.TrimSpace(r.URL.Query().Get("tag")),
		Page:         queryInt(r, "page", 1),
		Limit:        queryInt(r, "limit", 10),
	}
	if filter.Limit > 50 {
		filter.Limit = 50
	}

	posts, total, err := h.service.ListPublished(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, posts, paginationMeta(filter.Page, filter.Limit, total))
}

// ListMine returns the caller's posts, drafts included.
func (h *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	filter := model.PostFilter{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 10),
	}

	posts, total, err := h.service.ListMine(r.Context(), claims, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, posts, paginationMeta(filter.Page, filter.Limit, total))
}

func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	post, err := h.service.GetBySlug(r.Context(), claims, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, post, nil)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	post, err := h.service.Create(r.Context(), claims, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, post, nil)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	post, err := h.service.Update(r.Context(), claims, chi.URLParam(r, "post_id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, post, nil)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), claims, chi.URLParam(r, "post_id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func paginationMeta(page int, limit int, total int) *model.Meta {
	if limit <= 0 {
		limit = 10
	}
	totalPages := (total + limit - 1) / limit
	return &model.Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
