package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"

	provisionalLockTTL = 60 * time.Second
	redisOpTimeout     = 2 * time.Second
	maxKeyLength       = 255
)

type idempotencyEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	CreatedAt   time.Time `json:"created_at"`
}

// Idempotency replays the stored response of a mutating request that repeats an
// Idempotency-Key header. Keys are scoped by method, path and caller. Reusing a key
// with a different body is a conflict. Requests without the header pass through.
type Idempotency struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewIdempotency(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Idempotency {
	return &Idempotency{rdb: rdb, ttl: ttl, logger: logger.With("component", "Idempotency")}
}

func (m *Idempotency) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		idemKey := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
		if idemKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(idemKey) > maxKeyLength {
			writeIdempotencyError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Idempotency-Key is too long")
			return
		}

		var body []byte
		if r.Body != nil {
			var err error
			if body, err = io.ReadAll(r.Body); err != nil {
				m.logger.WarnContext(r.Context(), "Failed to read request body", "error", err)
				writeIdempotencyError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "request body could not be read")
				return
			}
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		bodyHash := hashBody(body)

		key := buildIdempotencyKey(r, idemKey)
		ctx, cancel := context.WithTimeout(r.Context(), redisOpTimeout)
		defer cancel()

		acquired, err := m.provisionalSet(ctx, key, idempotencyEntry{
			InProgress: true,
			BodySHA256: bodyHash,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			m.logger.ErrorContext(r.Context(), "Idempotency store unavailable", "error", err)
			writeIdempotencyError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "idempotency store unavailable")
			return
		}
		if !acquired {
			m.handleExisting(ctx, w, r, key, bodyHash)
			return
		}

		var captured bytes.Buffer
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&captured)
		defer func() {
			if rec := recover(); rec != nil {
				m.release(r.Context(), key)
				panic(rec)
			}
		}()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		if status >= http.StatusInternalServerError {
			m.release(r.Context(), key)
			return
		}

		storeCtx, storeCancel := context.WithTimeout(context.WithoutCancel(r.Context()), redisOpTimeout)
		defer storeCancel()

		final := idempotencyEntry{
			Code:        status,
			ContentType: ww.Header().Get("Content-Type"),
			Body:        captured.Bytes(),
			BodySHA256:  bodyHash,
			CreatedAt:   time.Now().UTC(),
		}
		if err := m.saveFinal(storeCtx, key, final); err != nil {
			m.logger.WarnContext(r.Context(), "Failed to store idempotent response", "key", key, "error", err)
		}
	})
}

// release drops the provisional entry so the key can be retried.
func (m *Idempotency) release(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), redisOpTimeout)
	defer cancel()
	if err := m.rdb.Del(ctx, key).Err(); err != nil {
		m.logger.WarnContext(ctx, "Failed to release idempotency key", "key", key, "error", err)
	}
}

func (m *Idempotency) handleExisting(ctx context.Context, w http.ResponseWriter, r *http.Request, key, bodyHash string) {
	current, err := m.loadEntry(ctx, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		m.logger.WarnContext(r.Context(), "Failed to load idempotency entry", "key", key, "error", err)
	}

	if current.BodySHA256 != "" && current.BodySHA256 != bodyHash {
		writeIdempotencyError(w, http.StatusConflict, "CONFLICT", "Idempotency-Key reused with a different request body")
		return
	}
	if !current.InProgress && current.Code != 0 {
		contentType := current.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set(ReplayedHeader, "true")
		w.WriteHeader(current.Code)
		w.Write(current.Body)
		return
	}
	writeIdempotencyError(w, http.StatusConflict, "CONFLICT", "a request with this Idempotency-Key is already in progress")
}

func (m *Idempotency) provisionalSet(ctx context.Context, key string, entry idempotencyEntry) (bool, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}
	return m.rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func (m *Idempotency) loadEntry(ctx context.Context, key string) (idempotencyEntry, error) {
	var entry idempotencyEntry
	raw, err := m.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return entry, err
	}
	err = json.Unmarshal(raw, &entry)
	return entry, err
}

func (m *Idempotency) saveFinal(ctx context.Context, key string, entry idempotencyEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, key, payload, m.ttl).Err()
}

func hashBody(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func buildIdempotencyKey(r *http.Request, idemKey string) string {
	caller := UsernameFromContext(r.Context())
	if caller == "" {
		caller = strings.TrimSpace(r.Header.Get("User-Id"))
	}
	return "idemp:" + strings.ToLower(r.Method) + ":" + r.URL.Path + ":" + caller + ":" + idemKey
}

func writeIdempotencyError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
