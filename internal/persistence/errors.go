package persistence

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when an insert violates a uniqueness rule.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConstraintViolation is returned when a record violates a CHECK rule,
	// notably the start < end constraint on bookings.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a record references a missing row.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrRoomConflict is returned when a booking insert loses against an
	// existing or concurrently committed booking of the same room.
	ErrRoomConflict = errors.New("persistence: room already booked for interval")
)

// ItemConflictError reports which items of a booking insert are already
// committed elsewhere during the requested interval.
type ItemConflictError struct {
	ItemIDs []int64
}

// Error implements the error interface.
func (e *ItemConflictError) Error() string {
	if e == nil || len(e.ItemIDs) == 0 {
		return "persistence: item conflict"
	}
	ids := make([]string, len(e.ItemIDs))
	for i, id := range e.ItemIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return "persistence: items already booked for interval: " + strings.Join(ids, ", ")
}
