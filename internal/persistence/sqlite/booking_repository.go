package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/reservation-service/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
//
// Timestamps are stored as RFC 3339 UTC strings; with a fixed format the
// lexicographic comparisons in the overlap predicates match chronological
// order.
type BookingRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimeField(value, column string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return ts, nil
}

func int64Placeholders(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

// CreateBooking inserts a booking and its item associations. The room and
// item overlap checks run inside the same write transaction as the insert, so
// two concurrent commits for the same resource serialize and the loser fails
// with persistence.ErrRoomConflict or a persistence.ItemConflictError exactly
// as if the conflict had existed before it started.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) (persistence.Booking, error) {
	if !booking.Start.Before(booking.End) {
		return persistence.Booking{}, persistence.ErrConstraintViolation
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	startStr := formatTime(booking.Start)
	endStr := formatTime(booking.End)

	err := r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			var overlapping int
			err := r.helper.QueryRowTx(tx, `
				SELECT COUNT(*) FROM bookings
				WHERE room_id = ? AND start_time < ? AND end_time > ?
			`, booking.RoomID, endStr, startStr).Scan(&overlapping)
			if err != nil {
				return r.mapper.MapError(err)
			}
			if overlapping > 0 {
				return persistence.ErrRoomConflict
			}

			if len(booking.ItemIDs) > 0 {
				conflicting, err := conflictingItemIDsTx(r.helper, tx, booking.ItemIDs, startStr, endStr)
				if err != nil {
					return err
				}
				if len(conflicting) > 0 {
					return &persistence.ItemConflictError{ItemIDs: conflicting}
				}
			}

			result, err := r.helper.ExecTx(tx, `
				INSERT INTO bookings (user_id, room_id, start_time, end_time, created_at)
				VALUES (?, ?, ?, ?, ?)
			`, booking.UserID, booking.RoomID, startStr, endStr, formatTime(booking.CreatedAt))
			if err != nil {
				return r.mapper.MapError(err)
			}

			id, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read booking id: %w", err)
			}
			booking.ID = id

			for _, itemID := range booking.ItemIDs {
				if _, err := r.helper.ExecTx(tx,
					"INSERT INTO booking_items (booking_id, item_id) VALUES (?, ?)",
					booking.ID, itemID,
				); err != nil {
					return r.mapper.MapError(err)
				}
			}

			return nil
		})
	})
	if err != nil {
		return persistence.Booking{}, err
	}

	return r.GetBooking(ctx, booking.ID)
}

// GetBooking retrieves a booking and its item ids.
func (r *BookingRepository) GetBooking(ctx context.Context, id int64) (persistence.Booking, error) {
	var booking persistence.Booking
	var startStr, endStr, createdStr string

	err := r.helper.QueryRow(ctx, `
		SELECT id, user_id, room_id, start_time, end_time, created_at
		FROM bookings
		WHERE id = ?
	`, id).Scan(&booking.ID, &booking.UserID, &booking.RoomID, &startStr, &endStr, &createdStr)
	if err != nil {
		return persistence.Booking{}, r.mapper.MapError(err)
	}

	if booking.Start, err = parseTimeField(startStr, "start_time"); err != nil {
		return persistence.Booking{}, err
	}
	if booking.End, err = parseTimeField(endStr, "end_time"); err != nil {
		return persistence.Booking{}, err
	}
	if booking.CreatedAt, err = parseTimeField(createdStr, "created_at"); err != nil {
		return persistence.Booking{}, err
	}

	itemIDs, err := r.loadItemIDs(ctx, booking.ID)
	if err != nil {
		return persistence.Booking{}, err
	}
	booking.ItemIDs = itemIDs

	return booking, nil
}

// DeleteBooking removes a booking and its item associations.
func (r *BookingRepository) DeleteBooking(ctx context.Context, id int64) error {
	return r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := r.helper.ExecTx(tx, "DELETE FROM booking_items WHERE booking_id = ?", id); err != nil {
				return r.mapper.MapError(err)
			}

			result, err := r.helper.ExecTx(tx, "DELETE FROM bookings WHERE id = ?", id)
			if err != nil {
				return r.mapper.MapError(err)
			}

			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			if affected == 0 {
				return persistence.ErrNotFound
			}

			return nil
		})
	})
}

// ListBookingsForUser returns the user's bookings ordered by start ascending.
func (r *BookingRepository) ListBookingsForUser(ctx context.Context, userID int64) ([]persistence.Booking, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, user_id, room_id, start_time, end_time, created_at
		FROM bookings
		WHERE user_id = ?
		ORDER BY start_time ASC, id ASC
	`, userID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		var booking persistence.Booking
		var startStr, endStr, createdStr string
		if err := rows.Scan(&booking.ID, &booking.UserID, &booking.RoomID, &startStr, &endStr, &createdStr); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if booking.Start, err = parseTimeField(startStr, "start_time"); err != nil {
			return nil, err
		}
		if booking.End, err = parseTimeField(endStr, "end_time"); err != nil {
			return nil, err
		}
		if booking.CreatedAt, err = parseTimeField(createdStr, "created_at"); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	for i := range bookings {
		itemIDs, err := r.loadItemIDs(ctx, bookings[i].ID)
		if err != nil {
			return nil, err
		}
		bookings[i].ItemIDs = itemIDs
	}

	return bookings, nil
}

// CountOverlappingRoomBookings counts bookings of the room intersecting [start, end).
func (r *BookingRepository) CountOverlappingRoomBookings(ctx context.Context, roomID int64, start, end time.Time) (int, error) {
	var count int
	err := r.helper.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE room_id = ? AND start_time < ? AND end_time > ?
	`, roomID, formatTime(end), formatTime(start)).Scan(&count)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

// ConflictingItemIDs returns the candidate items already booked during
// [start, end), in any room, sorted ascending.
func (r *BookingRepository) ConflictingItemIDs(ctx context.Context, itemIDs []int64, start, end time.Time) ([]int64, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	placeholders, args := int64Placeholders(itemIDs)
	query := fmt.Sprintf(`
		SELECT DISTINCT bi.item_id
		FROM booking_items bi
		JOIN bookings b ON b.id = bi.booking_id
		WHERE bi.item_id IN (%s) AND b.start_time < ? AND b.end_time > ?
		ORDER BY bi.item_id ASC
	`, placeholders)
	args = append(args, formatTime(end), formatTime(start))

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return scanInt64s(rows, r.mapper)
}

// ListRoomBookingStarts returns start instants of the room's bookings starting
// within [from, to), ascending.
func (r *BookingRepository) ListRoomBookingStarts(ctx context.Context, roomID int64, from, to time.Time) ([]time.Time, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT start_time FROM bookings
		WHERE room_id = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time ASC
	`, roomID, formatTime(from), formatTime(to))
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var starts []time.Time
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, r.mapper.MapError(err)
		}
		ts, err := parseTimeField(value, "start_time")
		if err != nil {
			return nil, err
		}
		starts = append(starts, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return starts, nil
}

// BusyItemIDs returns all item ids attached to any booking intersecting
// [start, end), across all rooms, sorted ascending.
func (r *BookingRepository) BusyItemIDs(ctx context.Context, start, end time.Time) ([]int64, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT DISTINCT bi.item_id
		FROM booking_items bi
		JOIN bookings b ON b.id = bi.booking_id
		WHERE b.start_time < ? AND b.end_time > ?
		ORDER BY bi.item_id ASC
	`, formatTime(end), formatTime(start))
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return scanInt64s(rows, r.mapper)
}

func (r *BookingRepository) loadItemIDs(ctx context.Context, bookingID int64) ([]int64, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT item_id FROM booking_items
		WHERE booking_id = ?
		ORDER BY item_id ASC
	`, bookingID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return scanInt64s(rows, r.mapper)
}

func conflictingItemIDsTx(helper *QueryHelper, tx *sql.Tx, itemIDs []int64, startStr, endStr string) ([]int64, error) {
	placeholders, args := int64Placeholders(itemIDs)
	query := fmt.Sprintf(`
		SELECT DISTINCT bi.item_id
		FROM booking_items bi
		JOIN bookings b ON b.id = bi.booking_id
		WHERE bi.item_id IN (%s) AND b.start_time < ? AND b.end_time > ?
	`, placeholders)
	args = append(args, endStr, startStr)

	rows, err := helper.QueryTx(tx, query, args...)
	if err != nil {
		return nil, NewErrorMapper().MapError(err)
	}
	defer rows.Close()

	ids, err := scanInt64s(rows, NewErrorMapper())
	if err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func scanInt64s(rows *sql.Rows, mapper *ErrorMapper) ([]int64, error) {
	var values []int64
	for rows.Next() {
		var value int64
		if err := rows.Scan(&value); err != nil {
			return nil, mapper.MapError(err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, mapper.MapError(err)
	}
	return values, nil
}
