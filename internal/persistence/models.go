package persistence

import "time"

// Room represents a bookable room catalog entry. The catalog is maintained by
// an external collaborator; this service treats rooms as read-only facts.
type Room struct {
	ID        int64
	Name      string
	Capacity  int
	CreatedAt time.Time
}

// Item represents an auxiliary bookable item (projector, whiteboard, ...).
type Item struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Booking represents a confirmed reservation of one room and zero or more
// items for a half-open time window.
type Booking struct {
	ID        int64
	UserID    int64
	RoomID    int64
	ItemIDs   []int64
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
}

// HistoryEntry is an append-only, denormalized snapshot of a booking taken at
// the moment it was committed or cancelled. The textual columns are captured
// by value so entries survive deletion of the referenced user, room or items.
type HistoryEntry struct {
	ID        int64
	BookingID int64
	UserInfo  string
	RoomInfo  string
	ItemsInfo string
	Event     string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
}

// History event kinds persisted in HistoryEntry.Event.
const (
	HistoryEventCreated   = "created"
	HistoryEventCancelled = "cancelled"
)
