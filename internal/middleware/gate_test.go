package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"go-blog-api/internal/auth"
	"go-blog-api/internal/model"
)

// stubVerifier resolves tokens from a fixed map, standing in for the auth
// service. Unknown tokens verify to nil, like any forged or expired cookie.
type stubVerifier struct {
	sessions map[string]*auth.SessionClaims
}

func (s *stubVerifier) VerifySession(_ context.Context, token string) *auth.SessionClaims {
	return s.sessions[token]
}

func newTestGate() *Gate {
	return NewGate(&stubVerifier{
		sessions: map[string]*auth.SessionClaims{
			"user-token":  {UserID: "u1", Email: "ada@example.com", Name: "Ada", Role: model.RoleUser},
			"admin-token": {UserID: "a1", Email: "root@example.com", Name: "Root", Role: model.RoleAdmin},
		},
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doGateRequest(t *testing.T, gate *Gate, path string, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	gate.Pages(okHandler()).ServeHTTP(rec, req)
	return rec
}

func TestPagesAllowsPublicPathWithoutCookie(t *testing.T) {
	t.Parallel()

	rec := doGateRequest(t, newTestGate(), "/public", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPagesRedirectsProtectedPathWithoutCookie(t *testing.T) {
	t.Parallel()

	rec := doGateRequest(t, newTestGate(), "/profile", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestPagesRedirectsProtectedPathWithInvalidToken(t *testing.T) {
	t.Parallel()

	rec := doGateRequest(t, newTestGate(), "/profile", "forged-token")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestPagesRedirectsNonAdminFromAdminPath(t *testing.T) {
	t.Parallel()

	rec := doGateRequest(t, newTestGate(), "/admin", "user-token")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestPagesAllowsAdminOnAdminPath(t *testing.T) {
	t.Parallel()

	rec := doGateRequest(t, newTestGate(), "/admin", "admin-token")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPagesAllowsUserOnProfileSubpath(t *testing.T) {
	t.Parallel()

	rec := doGateRequest(t, newTestGate(), "/profile/settings", "user-token")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPagesDoesNotMatchPrefixAsSubstring(t *testing.T) {
	t.Parallel()

	// /profiler is not under /profile; it must pass untouched.
	rec := doGateRequest(t, newTestGate(), "/profiler", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSessionAttachesClaims(t *testing.T) {
	t.Parallel()

	gate := newTestGate()

	var seen *auth.SessionClaims
	handler := gate.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "user-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, "u1", seen.UserID)
}

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	t.Parallel()

	gate := newTestGate()
	handler := gate.RequireSession(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleRejectsInsufficientRole(t *testing.T) {
	t.Parallel()

	gate := newTestGate()
	handler := gate.RequireSession(gate.RequireRole(model.RoleAdmin)(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "user-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOptionalSessionNeverRejects(t *testing.T) {
	t.Parallel()

	gate := newTestGate()

	var ok bool
	handler := gate.OptionalSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts/slug/hello", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, ok)
}
