package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/reservation-service/internal/persistence"
)

// CatalogRepository implements persistence.CatalogRepository using SQLite.
type CatalogRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewCatalogRepository creates a new SQLite catalog repository.
func NewCatalogRepository(pool *ConnectionPool) *CatalogRepository {
	return &CatalogRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

// CreateRoom inserts a room catalog entry.
func (r *CatalogRepository) CreateRoom(ctx context.Context, room persistence.Room) (persistence.Room, error) {
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now().UTC()
	}

	result, err := r.helper.Exec(ctx,
		"INSERT INTO rooms (name, capacity, created_at) VALUES (?, ?, ?)",
		room.Name, room.Capacity, formatTime(room.CreatedAt),
	)
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}

	room.ID, err = result.LastInsertId()
	if err != nil {
		return persistence.Room{}, fmt.Errorf("failed to read room id: %w", err)
	}
	return room, nil
}

// GetRoom retrieves a room by id.
func (r *CatalogRepository) GetRoom(ctx context.Context, id int64) (persistence.Room, error) {
	var room persistence.Room
	var createdStr string
	err := r.helper.QueryRow(ctx,
		"SELECT id, name, capacity, created_at FROM rooms WHERE id = ?", id,
	).Scan(&room.ID, &room.Name, &room.Capacity, &createdStr)
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}
	if room.CreatedAt, err = parseTimeField(createdStr, "created_at"); err != nil {
		return persistence.Room{}, err
	}
	return room, nil
}

// ListRooms returns all rooms ordered by name.
func (r *CatalogRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT id, name, capacity, created_at FROM rooms ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		var room persistence.Room
		var createdStr string
		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity, &createdStr); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if room.CreatedAt, err = parseTimeField(createdStr, "created_at"); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return rooms, nil
}

// CreateItem inserts an item catalog entry.
func (r *CatalogRepository) CreateItem(ctx context.Context, item persistence.Item) (persistence.Item, error) {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	result, err := r.helper.Exec(ctx,
		"INSERT INTO items (name, created_at) VALUES (?, ?)",
		item.Name, formatTime(item.CreatedAt),
	)
	if err != nil {
		return persistence.Item{}, r.mapper.MapError(err)
	}

	item.ID, err = result.LastInsertId()
	if err != nil {
		return persistence.Item{}, fmt.Errorf("failed to read item id: %w", err)
	}
	return item, nil
}

// GetItem retrieves an item by id.
func (r *CatalogRepository) GetItem(ctx context.Context, id int64) (persistence.Item, error) {
	var item persistence.Item
	var createdStr string
	err := r.helper.QueryRow(ctx,
		"SELECT id, name, created_at FROM items WHERE id = ?", id,
	).Scan(&item.ID, &item.Name, &createdStr)
	if err != nil {
		return persistence.Item{}, r.mapper.MapError(err)
	}
	if item.CreatedAt, err = parseTimeField(createdStr, "created_at"); err != nil {
		return persistence.Item{}, err
	}
	return item, nil
}

// FindItems returns the items that exist among ids, ordered by id. Missing
// ids are not an error; callers diff the result against the request.
func (r *CatalogRepository) FindItems(ctx context.Context, ids []int64) ([]persistence.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders, args := int64Placeholders(ids)
	rows, err := r.helper.Query(ctx, fmt.Sprintf(
		"SELECT id, name, created_at FROM items WHERE id IN (%s) ORDER BY id ASC", placeholders,
	), args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return r.scanItems(rows)
}

// ListItems returns all items ordered by name.
func (r *CatalogRepository) ListItems(ctx context.Context) ([]persistence.Item, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT id, name, created_at FROM items ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return r.scanItems(rows)
}

// DeleteItemDetachingBookings removes the item from every booking's item set
// and deletes the item row in a single transaction. Bookings themselves are
// untouched; the association is a weak reference.
func (r *CatalogRepository) DeleteItemDetachingBookings(ctx context.Context, id int64) error {
	return r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			var exists int
			err := r.helper.QueryRowTx(tx, "SELECT COUNT(*) FROM items WHERE id = ?", id).Scan(&exists)
			if err != nil {
				return r.mapper.MapError(err)
			}
			if exists == 0 {
				return persistence.ErrNotFound
			}

			if _, err := r.helper.ExecTx(tx, "DELETE FROM booking_items WHERE item_id = ?", id); err != nil {
				return r.mapper.MapError(err)
			}
			if _, err := r.helper.ExecTx(tx, "DELETE FROM items WHERE id = ?", id); err != nil {
				return r.mapper.MapError(err)
			}
			return nil
		})
	})
}

func (r *CatalogRepository) scanItems(rows *sql.Rows) ([]persistence.Item, error) {
	var items []persistence.Item
	for rows.Next() {
		var item persistence.Item
		var createdStr string
		if err := rows.Scan(&item.ID, &item.Name, &createdStr); err != nil {
			return nil, r.mapper.MapError(err)
		}
		created, err := parseTimeField(createdStr, "created_at")
		if err != nil {
			return nil, err
		}
		item.CreatedAt = created
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return items, nil
}
