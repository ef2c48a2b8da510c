package middleware

import (
	"bytes"
	"encoding/json"
	"loan-ledger/internal/config"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("disabled limiter passes everything", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: false, RPS: 1, Burst: 1}, logger)
		defer rl.Stop()
		handler := rl.Middleware(ok)
		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("blocks requests beyond the burst", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 0.5, Burst: 2}, logger)
		defer rl.Stop()
		handler := rl.Middleware(ok)

		send := func(remote string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
			req.RemoteAddr = remote
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			return rec
		}

		assert.Equal(t, http.StatusOK, send("127.0.0.1:1000").Code)
		assert.Equal(t, http.StatusOK, send("127.0.0.1:1001").Code)

		blocked := send("127.0.0.1:1002")
		require.Equal(t, http.StatusTooManyRequests, blocked.Code)
		assert.Equal(t, "3", blocked.Header().Get("Retry-After"))

		var body map[string]map[string]string
		require.NoError(t, json.NewDecoder(blocked.Body).Decode(&body))
		assert.Equal(t, "RATE_LIMITED", body["error"]["code"])
		assert.Equal(t, "Rate limit exceeded", body["error"]["message"])

		assert.Equal(t, http.StatusOK, send("10.0.0.9:1000").Code, "other clients keep their own bucket")
	})

	t.Run("extractIP prefers forwarding headers", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{}, logger)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1")
		assert.Equal(t, "192.168.1.1", rl.extractIP(req))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		assert.Equal(t, "10.0.0.1", rl.extractIP(req))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		assert.Equal(t, "127.0.0.1", rl.extractIP(req))
	})

	t.Run("evicts idle visitors", func(t *testing.T) {
		rl := NewRateLimiterMiddleware(config.RateLimitConfig{RPS: 1, Burst: 1}, logger)
		current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return current }

		rl.getLimiter("1.1.1.1")
		current = current.Add(limiterIdleTimeout / 2)
		rl.getLimiter("2.2.2.2")
		current = current.Add(limiterIdleTimeout/2 + time.Second)

		assert.Equal(t, 1, rl.evictIdle())
		assert.Len(t, rl.visitors, 1)
		assert.Contains(t, rl.visitors, "2.2.2.2")
	})
}
