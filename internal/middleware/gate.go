package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go-blog-api/internal/auth"
	"go-blog-api/internal/model"
)

// sessionVerifier is the narrow slice of the auth service the gate needs:
// token in, claims or nil out. Nil covers missing, forged, expired, and
// revoked tokens alike.
type sessionVerifier interface {
	VerifySession(ctx context.Context, token string) *auth.SessionClaims
}

type contextKey string

const sessionClaimsContextKey contextKey = "session_claims"

const loginPath = "/login"

// Gate intercepts every request. Page paths under a protected prefix are
// checked and redirected; everything else passes through untouched. The
// decision is recomputed per request, never cached.
type Gate struct {
	verifier       sessionVerifier
	protectedPaths []string
	adminPaths     []string
}

func NewGate(verifier sessionVerifier) *Gate {
	return &Gate{
		verifier:       verifier,
		protectedPaths: []string{"/profile", "/dashboard", "/admin"},
		adminPaths:     []string{"/admin"},
	}
}

// Pages applies the redirect-based access policy to server-rendered routes.
func (g *Gate) Pages(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if !matchesPrefix(path, g.protectedPaths) {
			next.ServeHTTP(w, r)
			return
		}

		token := auth.TokenFromRequest(r)
		if token == "" {
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}

		claims := g.verifier.VerifySession(r.Context(), token)
		if claims == nil {
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}

		if matchesPrefix(path, g.adminPaths) && claims.Role != model.RoleAdmin {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// RequireSession guards API routes: a missing or invalid session cookie
// yields a 401 JSON response instead of a redirect.
func (g *Gate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := g.verifier.VerifySession(r.Context(), auth.TokenFromRequest(r))
		if claims == nil {
			writeDenied(w, "UNAUTHORIZED", "authentication required")
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// RequireRole stacks on RequireSession and rejects callers whose role is
// not in the allowed set.
func (g *Gate) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, role := range allowedRoles {
		roleSet[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeDenied(w, "UNAUTHORIZED", "authentication required")
				return
			}

			if _, allowed := roleSet[strings.ToLower(claims.Role)]; !allowed {
				writeDenied(w, "FORBIDDEN", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// OptionalSession attaches claims when a valid cookie is present but never
// rejects. Used on routes whose response shape depends on who is asking,
// like post detail (draft visibility).
func (g *Gate) OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := g.verifier.VerifySession(r.Context(), auth.TokenFromRequest(r)); claims != nil {
			r = r.WithContext(withClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

func withClaims(ctx context.Context, claims *auth.SessionClaims) context.Context {
	return context.WithValue(ctx, sessionClaimsContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsContextKey).(*auth.SessionClaims)
	return claims, ok
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func writeDenied(w http.ResponseWriter, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	if code == "FORBIDDEN" {
		w.WriteHeader(http.StatusForbidden)
	} else {
		w.WriteHeader(http.StatusUnauthorized)
	}

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
