package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/reservation-service/internal/application"
	"github.com/example/reservation-service/internal/logging"
)

var (
	errBadRequestBody   = errors.New("the request body is malformed")
	errInvalidBookingID = errors.New("the booking id is invalid")
	errInvalidItemID    = errors.New("the item id is invalid")
	errInvalidRoomID    = errors.New("the room id is invalid")
	errInvalidUserID    = errors.New("the user id is invalid")
	errInvalidDate      = errors.New("the date must be formatted as YYYY-MM-DD")
	errInvalidTimestamp = errors.New("timestamps must be formatted as RFC 3339")
	errMissingPrincipal = errors.New("an authenticated user is required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps application error kinds onto the HTTP contract. A
// booking lost to a concurrent commit surfaces through the same conflict
// responses as a sequential conflict.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var itemsErr *application.ItemsUnavailableError
	var vErr *application.ValidationError

	switch {
	case errors.Is(err, application.ErrForbidden):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "FORBIDDEN",
			Message:   "you do not have permission to perform this operation",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "the requested resource was not found"})
	case errors.Is(err, application.ErrRoomUnavailable):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ROOM_UNAVAILABLE",
			Message:   "the room is already booked for the requested interval",
		})
	case errors.As(err, &itemsErr):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode:          "ITEMS_UNAVAILABLE",
			Message:            "one or more requested items are already booked for the requested interval",
			ConflictingItemIDs: itemsErr.ItemIDs,
		})
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Message: "the request content is invalid",
			Errors:  vErr.FieldErrors,
		})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unhandled service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "an internal server error occurred"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

type errorResponse struct {
	ErrorCode          string            `json:"error_code,omitempty"`
	Message            string            `json:"message"`
	Errors             map[string]string `json:"errors,omitempty"`
	ConflictingItemIDs []int64           `json:"conflicting_item_ids,omitempty"`
}
