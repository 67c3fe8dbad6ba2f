package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/reservation-service/internal/persistence"
)

// HistoryRepository implements persistence.HistoryRepository using SQLite.
// The history table is append-only: this type issues INSERT and SELECT
// statements and nothing else.
type HistoryRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewHistoryRepository creates a new SQLite history repository.
func NewHistoryRepository(pool *ConnectionPool) *HistoryRepository {
	return &HistoryRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// AppendHistory inserts an immutable history entry.
func (r *HistoryRepository) AppendHistory(ctx context.Context, entry persistence.HistoryEntry) (persistence.HistoryEntry, error) {
	result, err := r.helper.Exec(ctx, `
		INSERT INTO history_entries (booking_id, user_info, room_info, items_info, event, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.BookingID,
		entry.UserInfo,
		entry.RoomInfo,
		entry.ItemsInfo,
		entry.Event,
		formatTime(entry.Start),
		formatTime(entry.End),
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return persistence.HistoryEntry{}, r.mapper.MapError(err)
	}

	entry.ID, err = result.LastInsertId()
	if err != nil {
		return persistence.HistoryEntry{}, fmt.Errorf("failed to read history entry id: %w", err)
	}
	return entry, nil
}

// ListHistory returns entries matching the filter, newest first.
func (r *HistoryRepository) ListHistory(ctx context.Context, filter persistence.HistoryFilter) ([]persistence.HistoryEntry, error) {
	query := `
		SELECT id, booking_id, user_info, room_info, items_info, event, start_time, end_time, created_at
		FROM history_entries
	`

	var conditions []string
	var args []any

	if filter.UserContains != "" {
		conditions = append(conditions, "user_info LIKE ?")
		args = append(args, "%"+filter.UserContains+"%")
	}
	if filter.CreatedAfter != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, formatTime(*filter.CreatedAfter))
	}
	if filter.CreatedBefore != nil {
		conditions = append(conditions, "created_at < ?")
		args = append(args, formatTime(*filter.CreatedBefore))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var entries []persistence.HistoryEntry
	for rows.Next() {
		var entry persistence.HistoryEntry
		var startStr, endStr, createdStr string
		if err := rows.Scan(
			&entry.ID,
			&entry.BookingID,
			&entry.UserInfo,
			&entry.RoomInfo,
			&entry.ItemsInfo,
			&entry.Event,
			&startStr,
			&endStr,
			&createdStr,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if entry.Start, err = parseTimeField(startStr, "start_time"); err != nil {
			return nil, err
		}
		if entry.End, err = parseTimeField(endStr, "end_time"); err != nil {
			return nil, err
		}
		if entry.CreatedAt, err = parseTimeField(createdStr, "created_at"); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return entries, nil
}
