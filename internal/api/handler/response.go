package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/api/middleware"
	"loan-ledger/internal/pkg/apperrors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	dateLayout     = "2006-01-02"
	userIDHeader   = "User-Id"
	maxRequestBody = 1 << 20
)

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"code":"INTERNAL","message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, code, message, field := http.StatusInternalServerError, "INTERNAL", "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError

	switch {
	case errors.As(err, &validationError):
		status, code, message, field = http.StatusBadRequest, "VALIDATION_FAILED", validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, code, message = http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, apperrors.ErrInvalidState):
		status, code, message = http.StatusBadRequest, "INVALID_STATE", err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		status, code, message = http.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, code, message = http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized"
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	respondJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	})
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func pathParam(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", invalidArgument("%s not found in URL path", name)
	}
	return value, nil
}

// ownerFromRequest picks the loan owner from the body, then the User-Id header, then
// the authenticated username. An empty result lets the ledger apply its default.
func ownerFromRequest(r *http.Request, bodyUserID string) string {
	if owner := strings.TrimSpace(bodyUserID); owner != "" {
		return owner
	}
	if owner := strings.TrimSpace(r.Header.Get(userIDHeader)); owner != "" {
		return owner
	}
	return middleware.UsernameFromContext(r.Context())
}

func idempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(middleware.IdempotencyKeyHeader))
}

// parseDateParam accepts YYYY-MM-DD or RFC3339. A date-only upper bound is extended
// to the last instant of that day.
func parseDateParam(name, raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		if endOfDay {
			return t.Add(24*time.Hour - time.Nanosecond), nil
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(name, "date must be YYYY-MM-DD or RFC3339")
	}
	return t.UTC(), nil
}
