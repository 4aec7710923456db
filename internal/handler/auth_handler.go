package handler

import (
	"encoding/json"
	"net/http"

	"go-blog-api/internal/auth"
	"go-blog-api/internal/model"
	"go-blog-api/internal/service"
	"go-blog-api/pkg/apierror"
)

type AuthHandler struct {
	service      *service.AuthService
	secureCookie bool
}

func NewAuthHandler(service *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: service, secureCookie: secureCookie}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	user, token, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, token, h.service.SessionTTL(), h.secureCookie)
	writeSuccess(w, http.StatusOK, map[string]any{"user": user}, nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	user, token, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, token, h.service.SessionTTL(), h.secureCookie)
	writeSuccess(w, http.StatusCreated, map[string]any{"user": user}, nil)
}

// Logout revokes the current token and clears the cookie. It succeeds even
// without a session; there is nothing useful to report to an anonymous
// caller.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
		writeError(w, err)
		return
	}

	auth.ClearSessionCookie(w, h.secureCookie)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "logged out"}, nil)
}

// Session is the probe the client identity cache initializes from.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	state := h.service.SessionState(r.Context(), auth.TokenFromRequest(r))
	writeSuccess(w, http.StatusOK, state, nil)
}
