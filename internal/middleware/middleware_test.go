package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marketpulse/pulse-api/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	rm := NewRecoveryMiddleware(zap.NewNop())
	h := rm.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insights", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:   true,
		MasterKey: "secret-key",
		SkipPaths: []string{"/api/health", "/metrics"},
	}
	am := NewAuthMiddleware(cfg, zap.NewNop())
	h := am.Handler(okHandler())

	serve := func(path, headerKey, queryKey string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if headerKey != "" {
			req.Header.Set(AuthHeaderName, headerKey)
		}
		if queryKey != "" {
			q := req.URL.Query()
			q.Set(AuthQueryParam, queryKey)
			req.URL.RawQuery = q.Encode()
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve("/api/insights", "", ""))
	assert.Equal(t, http.StatusUnauthorized, serve("/api/insights", "wrong", ""))
	assert.Equal(t, http.StatusOK, serve("/api/insights", "secret-key", ""))
	assert.Equal(t, http.StatusOK, serve("/api/insights", "", "secret-key"))
	assert.Equal(t, http.StatusOK, serve("/api/health", "", ""), "skip paths bypass auth")
}

func TestAuthMiddlewareDisabled(t *testing.T) {
	am := NewAuthMiddleware(config.AuthConfig{Enabled: false}, zap.NewNop())
	h := am.Handler(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insights", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2}
	rl := NewRateLimitMiddleware(cfg, zap.NewNop())
	h := rl.Handler(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insights", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	rl := NewRateLimitMiddleware(config.RateLimitConfig{Enabled: false}, zap.NewNop())
	h := rl.Handler(okHandler())

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insights", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	rl := NewRateLimitMiddleware(config.RateLimitConfig{Enabled: true, RPS: 10, Burst: 10}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", rl.getClientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", rl.getClientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:51234"
	assert.Equal(t, "192.0.2.1", rl.getClientIP(req))
}

func TestLoggingMiddlewareCapturesStatus(t *testing.T) {
	lm := NewLoggingMiddleware(zap.NewNop())
	h := lm.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insights", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		logger, err := NewLogger(level, "json")
		assert.NoError(t, err, level)
		assert.NotNil(t, logger)
	}

	logger, err := NewLogger("info", "console")
	assert.NoError(t, err)
	assert.NotNil(t, logger)
}
