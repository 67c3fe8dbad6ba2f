package persistence

import (
	"context"
	"time"
)

// BookingRepository stores bookings and answers the overlap queries the
// availability and conflict checkers are built on. CreateBooking re-validates
// room and item overlap inside its own write transaction, so a check-then-act
// race between concurrent callers resolves into ErrRoomConflict or an
// ItemConflictError for the loser.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) (Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	ListBookingsForUser(ctx context.Context, userID int64) ([]Booking, error)

	// CountOverlappingRoomBookings counts bookings of the room whose window
	// intersects [start, end).
	CountOverlappingRoomBookings(ctx context.Context, roomID int64, start, end time.Time) (int, error)
	// ConflictingItemIDs returns the subset of candidate items having at least
	// one booking, in any room, that intersects [start, end).
	ConflictingItemIDs(ctx context.Context, itemIDs []int64, start, end time.Time) ([]int64, error)
	// ListRoomBookingStarts returns the start instants of the room's bookings
	// starting within [from, to), ascending.
	ListRoomBookingStarts(ctx context.Context, roomID int64, from, to time.Time) ([]time.Time, error)
	// BusyItemIDs returns all item ids attached to any booking intersecting
	// [start, end), across all rooms.
	BusyItemIDs(ctx context.Context, start, end time.Time) ([]int64, error)
}

// CatalogRepository exposes the room and item catalog. Reads serve the booking
// orchestrator and the client-facing listings; the only write reachable from
// the service API is the administrative item deletion, which detaches the item
// from all bookings and removes it in one transaction. Room and item
// provisioning happens out of band.
type CatalogRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)

	CreateItem(ctx context.Context, item Item) (Item, error)
	GetItem(ctx context.Context, id int64) (Item, error)
	// FindItems returns the items that exist among ids; missing ids are simply
	// absent from the result.
	FindItems(ctx context.Context, ids []int64) ([]Item, error)
	ListItems(ctx context.Context) ([]Item, error)

	DeleteItemDetachingBookings(ctx context.Context, id int64) error
}

// HistoryFilter narrows history queries. Zero-valued fields impose no
// constraint; supplied fields combine with AND semantics.
type HistoryFilter struct {
	UserContains  string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// HistoryRepository appends and queries immutable booking snapshots. The
// interface deliberately has no update or delete operations.
type HistoryRepository interface {
	AppendHistory(ctx context.Context, entry HistoryEntry) (HistoryEntry, error)
	// ListHistory returns entries newest first (created_at, then id, descending).
	ListHistory(ctx context.Context, filter HistoryFilter) ([]HistoryEntry, error)
}
