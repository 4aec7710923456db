package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitAuthBucket(t *testing.T) {
	mw := NewRateLimitMiddleware(1000, 1)
	handler := mw.Handler(okHandler())

	// Burst of 1: the first login attempt passes, the immediate retry is
	// throttled.
	req1 := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)
	assert.Equal(t, http.StatusOK, rec1.Code)

	req2 := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
	assert.Equal(t, "60", rec2.Header().Get("Retry-After"))
}

func TestRateLimitGeneralBucketIsSeparate(t *testing.T) {
	mw := NewRateLimitMiddleware(1000, 1)
	handler := mw.Handler(okHandler())

	// Exhaust the auth bucket.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Non-auth traffic from the same client still flows.
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitPerClientIsolation(t *testing.T) {
	mw := NewRateLimitMiddleware(1000, 1)
	handler := mw.Handler(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	first.Header.Set("X-Forwarded-For", "203.0.113.10")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A different client has its own bucket.
	second := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	second.Header.Set("X-Forwarded-For", "203.0.113.11")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitThumbnailExemption(t *testing.T) {
	mw := NewRateLimitMiddleware(1000, 1)
	handler := mw.Handler(okHandler())

	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media/abc/thumbnail", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitDefaults(t *testing.T) {
	mw := NewRateLimitMiddleware(-1, 0)
	assert.Equal(t, 100, mw.generalRPM)
	assert.Equal(t, 10, mw.authRPM)
}
