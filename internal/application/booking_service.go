package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/example/reservation-service/internal/booking"
	"github.com/example/reservation-service/internal/persistence"
)

// BookingRepository captures the persistence interactions needed by the
// booking orchestrator and the advisory occupancy queries.
type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	ListBookingsForUser(ctx context.Context, userID int64) ([]Booking, error)
	CountOverlappingRoomBookings(ctx context.Context, roomID int64, interval booking.Interval) (int, error)
	ConflictingItemIDs(ctx context.Context, itemIDs []int64, interval booking.Interval) ([]int64, error)
}

// RoomCatalog exposes room lookups supplied by the catalog collaborator.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id int64) (Room, error)
}

// ItemCatalog exposes item lookups supplied by the catalog collaborator.
// FindItems returns the subset of ids that exist.
type ItemCatalog interface {
	FindItems(ctx context.Context, ids []int64) ([]Item, error)
}

// HistoryRecorder receives immutable snapshots of committed and cancelled
// bookings.
type HistoryRecorder interface {
	Record(ctx context.Context, snapshot HistorySnapshot) error
}

// BookingService orchestrates validation, availability checking and the
// atomic commit for booking operations. The repository re-validates overlap
// inside the commit transaction, so the pre-checks here exist to give precise
// errors, not to carry the invariant.
type BookingService struct {
	bookings BookingRepository
	rooms    RoomCatalog
	items    ItemCatalog
	history  HistoryRecorder
	now      func() time.Time
	logger   *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(bookings BookingRepository, rooms RoomCatalog, items ItemCatalog, history HistoryRecorder, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, rooms, items, history, now, nil)
}

// NewBookingServiceWithLogger wires dependencies plus a base logger.
func NewBookingServiceWithLogger(bookings BookingRepository, rooms RoomCatalog, items ItemCatalog, history HistoryRecorder, now func() time.Time, logger *slog.Logger) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings: bookings,
		rooms:    rooms,
		items:    items,
		history:  history,
		now:      now,
		logger:   defaultLogger(logger),
	}
}

// IsRoomAvailable reports whether the room has no booking overlapping the
// interval. Pure read; safe to call speculatively, results may be stale by
// commit time.
func (s *BookingService) IsRoomAvailable(ctx context.Context, roomID int64, interval booking.Interval) (bool, error) {
	if err := interval.Validate(); err != nil {
		return false, invalidIntervalError()
	}
	count, err := s.bookings.CountOverlappingRoomBookings(ctx, roomID, interval.UTC())
	if err != nil {
		return false, mapBookingRepoError(err)
	}
	return count == 0, nil
}

// ConflictingItems returns the subset of candidate items with at least one
// booking overlapping the interval, in any room. An empty candidate set is
// trivially satisfiable.
func (s *BookingService) ConflictingItems(ctx context.Context, itemIDs []int64, interval booking.Interval) ([]int64, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	if err := interval.Validate(); err != nil {
		return nil, invalidIntervalError()
	}
	conflicting, err := s.bookings.ConflictingItemIDs(ctx, uniqueSortedIDs(itemIDs), interval.UTC())
	if err != nil {
		return nil, mapBookingRepoError(err)
	}
	return conflicting, nil
}

// CreateBooking validates the request, checks room and item availability and
// commits the booking atomically with respect to concurrent requests. The
// loser of a commit race receives the same ErrRoomUnavailable or
// ItemsUnavailableError as a sequential conflict.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (Booking, error) {
	if s == nil || s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}

	input := params.Input
	logger := serviceLogger(ctx, s.logger, "booking", "create",
		"user_id", params.Principal.UserID, "room_id", input.RoomID)

	interval := booking.Interval{Start: input.Start, End: input.End}
	if err := interval.Validate(); err != nil {
		return Booking{}, invalidIntervalError()
	}
	interval = interval.UTC()

	room, err := s.lookupRoom(ctx, input.RoomID)
	if err != nil {
		return Booking{}, err
	}

	itemIDs := uniqueSortedIDs(input.ItemIDs)
	items, err := s.lookupItems(ctx, itemIDs)
	if err != nil {
		return Booking{}, err
	}

	available, err := s.IsRoomAvailable(ctx, room.ID, interval)
	if err != nil {
		return Booking{}, err
	}
	if !available {
		return Booking{}, ErrRoomUnavailable
	}

	if len(itemIDs) > 0 {
		conflicting, err := s.ConflictingItems(ctx, itemIDs, interval)
		if err != nil {
			return Booking{}, err
		}
		if len(conflicting) > 0 {
			return Booking{}, &ItemsUnavailableError{ItemIDs: conflicting}
		}
	}

	persisted, err := s.bookings.CreateBooking(ctx, Booking{
		UserID:    params.Principal.UserID,
		RoomID:    room.ID,
		ItemIDs:   itemIDs,
		Start:     interval.Start,
		End:       interval.End,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return Booking{}, mapBookingRepoError(err)
	}

	s.recordHistory(ctx, logger, HistorySnapshot{
		BookingID: persisted.ID,
		UserID:    persisted.UserID,
		Room:      room,
		Items:     items,
		Event:     HistoryEventCreated,
		Start:     persisted.Start,
		End:       persisted.End,
	})

	logger.InfoContext(ctx, "booking committed", "booking_id", persisted.ID)
	return persisted, nil
}

// CancelBooking deletes a booking. Only the owner or an administrator may
// cancel. The snapshot for the history entry is captured before deletion so
// the cancelled record preserves the original interval and resources.
func (s *BookingService) CancelBooking(ctx context.Context, principal Principal, bookingID int64) error {
	if s == nil || s.bookings == nil {
		return fmt.Errorf("booking repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "booking", "cancel",
		"user_id", principal.UserID, "booking_id", bookingID)

	existing, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return mapBookingRepoError(err)
	}

	if existing.UserID != principal.UserID && !principal.IsAdmin {
		return ErrForbidden
	}

	snapshot, err := s.snapshotForHistory(ctx, existing, HistoryEventCancelled)
	if err != nil {
		return err
	}

	if err := s.bookings.DeleteBooking(ctx, bookingID); err != nil {
		return mapBookingRepoError(err)
	}

	s.recordHistory(ctx, logger, snapshot)

	logger.InfoContext(ctx, "booking cancelled")
	return nil
}

// ListBookingsForUser lists a user's bookings ordered by start time.
// Non-admin principals may only list their own; userID zero defaults to the
// principal.
func (s *BookingService) ListBookingsForUser(ctx context.Context, principal Principal, userID int64) ([]Booking, error) {
	if s == nil || s.bookings == nil {
		return nil, fmt.Errorf("booking repository not configured")
	}

	if userID == 0 {
		userID = principal.UserID
	}
	if userID != principal.UserID && !principal.IsAdmin {
		return nil, ErrForbidden
	}

	bookings, err := s.bookings.ListBookingsForUser(ctx, userID)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}

	ordered := make([]Booking, len(bookings))
	copy(ordered, bookings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Start.Equal(ordered[j].Start) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].Start.Before(ordered[j].Start)
	})

	return ordered, nil
}

func (s *BookingService) lookupRoom(ctx context.Context, roomID int64) (Room, error) {
	if s.rooms == nil {
		return Room{ID: roomID}, nil
	}
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return Room{}, mapBookingRepoError(err)
	}
	return room, nil
}

func (s *BookingService) lookupItems(ctx context.Context, itemIDs []int64) ([]Item, error) {
	if len(itemIDs) == 0 || s.items == nil {
		return nil, nil
	}

	items, err := s.items.FindItems(ctx, itemIDs)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}
	if len(items) != len(itemIDs) {
		return nil, ErrNotFound
	}
	return items, nil
}

// snapshotForHistory resolves the denormalized resource data for a booking
// before it is deleted. Items already detached by an administrative deletion
// are simply absent from the snapshot.
func (s *BookingService) snapshotForHistory(ctx context.Context, b Booking, event HistoryEvent) (HistorySnapshot, error) {
	snapshot := HistorySnapshot{
		BookingID: b.ID,
		UserID:    b.UserID,
		Room:      Room{ID: b.RoomID},
		Event:     event,
		Start:     b.Start,
		End:       b.End,
	}

	if s.rooms != nil {
		room, err := s.rooms.GetRoom(ctx, b.RoomID)
		if err == nil {
			snapshot.Room = room
		} else if !errors.Is(err, persistence.ErrNotFound) && !errors.Is(err, ErrNotFound) {
			return HistorySnapshot{}, mapBookingRepoError(err)
		}
	}

	if s.items != nil && len(b.ItemIDs) > 0 {
		items, err := s.items.FindItems(ctx, b.ItemIDs)
		if err != nil {
			return HistorySnapshot{}, mapBookingRepoError(err)
		}
		snapshot.Items = items
	}

	return snapshot, nil
}

// recordHistory appends a snapshot. Recording failures do not undo the
// booking operation itself; they are logged for the operator.
func (s *BookingService) recordHistory(ctx context.Context, logger *slog.Logger, snapshot HistorySnapshot) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, snapshot); err != nil {
		logger.ErrorContext(ctx, "failed to record history entry",
			"booking_id", snapshot.BookingID, "event", string(snapshot.Event), "error", err)
	}
}

func invalidIntervalError() error {
	vErr := &ValidationError{}
	vErr.add("interval", "start must be before end")
	return vErr
}

func uniqueSortedIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// mapBookingRepoError translates persistence sentinels into the error kinds
// exposed to callers. A storage-level conflict from a lost race maps to the
// same errors as a sequential conflict.
func mapBookingRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrRoomConflict) {
		return ErrRoomUnavailable
	}
	var itemConflict *persistence.ItemConflictError
	if errors.As(err, &itemConflict) {
		return &ItemsUnavailableError{ItemIDs: itemConflict.ItemIDs}
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		return invalidIntervalError()
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return ErrNotFound
	}
	return err
}
