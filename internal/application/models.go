package application

import "time"

// Principal represents the authenticated identity invoking a service method.
// Authentication happens upstream; the services only consume the opaque user
// id and the admin flag supplied by the identity collaborator.
type Principal struct {
	UserID  int64
	IsAdmin bool
}

// BookingInput captures caller provided booking fields.
type BookingInput struct {
	RoomID  int64
	ItemIDs []int64
	Start   time.Time
	End     time.Time
}

// Booking represents a confirmed reservation.
type Booking struct {
	ID        int64
	UserID    int64
	RoomID    int64
	ItemIDs   []int64
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
}

// Room represents a room catalog entry consumed as a read-only fact.
type Room struct {
	ID       int64
	Name     string
	Capacity int
}

// Item represents an auxiliary item catalog entry.
type Item struct {
	ID   int64
	Name string
}

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	Principal Principal
	Input     BookingInput
}

// HistoryEvent labels the booking lifecycle moment a history entry snapshots.
type HistoryEvent string

const (
	// HistoryEventCreated marks a snapshot taken when a booking was committed.
	HistoryEventCreated HistoryEvent = "created"
	// HistoryEventCancelled marks a snapshot taken when a booking was cancelled.
	HistoryEventCancelled HistoryEvent = "cancelled"
)

// HistorySnapshot carries the by-value data the recorder denormalizes into an
// entry. It is captured before the source booking can change or disappear.
type HistorySnapshot struct {
	BookingID int64
	UserID    int64
	Room      Room
	Items     []Item
	Event     HistoryEvent
	Start     time.Time
	End       time.Time
}

// HistoryEntry is an immutable audit snapshot of a booking's creation or
// cancellation.
type HistoryEntry struct {
	ID        int64
	BookingID int64
	UserInfo  string
	RoomInfo  string
	ItemsInfo string
	Event     HistoryEvent
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
}

// HistoryQuery narrows history listings. Absent fields impose no constraint;
// supplied fields combine with AND semantics. FromDate and ToDate are
// interpreted as inclusive calendar days in UTC.
type HistoryQuery struct {
	UserContains string
	FromDate     *time.Time
	ToDate       *time.Time
}
