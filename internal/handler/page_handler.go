package handler

import (
	"fmt"
	"html"
	"net/http"

	"go-blog-api/internal/middleware"
)

// PageHandler serves minimal placeholder pages. Real rendering belongs to
// the frontend; these exist so the access gate has concrete targets and
// browsers hitting protected paths see something after the redirect dance.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Blog", "Welcome.")
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Sign in", "Sign in to continue.")
}

func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Create account", "Join the blog.")
}

func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Profile", "Signed in as "+claimsName(r)+".")
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Dashboard", "Your posts, "+claimsName(r)+".")
}

func claimsName(r *http.Request) string {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		return claims.Name
	}
	return "unknown"
}

func (h *PageHandler) Admin(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Admin", "Administration area.")
}

func writePage(w http.ResponseWriter, title string, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><title>%s</title><h1>%s</h1><p>%s</p>",
		html.EscapeString(title), html.EscapeString(title), html.EscapeString(body))
}
