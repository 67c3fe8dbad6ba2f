package application

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrForbidden is returned when the acting principal lacks permission for
	// an operation, typically cancelling someone else's booking.
	ErrForbidden = errors.New("application: forbidden")
	// ErrNotFound is returned when a referenced booking, room or item does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrRoomUnavailable is returned when the requested room already has an
	// overlapping booking. A lost commit race reports the same error as a
	// pre-existing conflict; callers cannot and need not tell them apart.
	ErrRoomUnavailable = errors.New("application: room unavailable for interval")
)

// ItemsUnavailableError reports exactly which requested items already have an
// overlapping booking.
type ItemsUnavailableError struct {
	ItemIDs []int64
}

// Error implements the error interface.
func (e *ItemsUnavailableError) Error() string {
	if e == nil || len(e.ItemIDs) == 0 {
		return "application: items unavailable for interval"
	}
	ids := make([]string, len(e.ItemIDs))
	for i, id := range e.ItemIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return "application: items unavailable for interval: " + strings.Join(ids, ", ")
}

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
