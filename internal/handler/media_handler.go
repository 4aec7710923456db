package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-blog-api/internal/middleware"
	"go-blog-api/internal/model"
	"go-blog-api/internal/service"
	"go-blog-api/pkg/apierror"
)

type MediaHandler struct {
	service       *service.MediaService
	maxUploadSize int64
}

func NewMediaHandler(service *service.MediaService, maxUploadSize int64) *MediaHandler {
	return &MediaHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	// The multipart envelope adds overhead on top of the file cap.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1024*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apierror.BadRequest("invalid multipart body", "a \"file\" part is required"))
		return
	}
	defer file.Close()

	media, err := h.service.Upload(r.Context(), claims, header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, media, nil)
}

func (h *MediaHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	items, err := h.service.ListByOwner(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, nil)
}

func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	media, err := h.service.Get(r.Context(), chi.URLParam(r, "media_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", media.MimeType)
	http.ServeFile(w, r, media.Path)
}

func (h *MediaHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	path, err := h.service.ThumbnailPath(r.Context(), chi.URLParam(r, "media_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeFile(w, r, path)
}
