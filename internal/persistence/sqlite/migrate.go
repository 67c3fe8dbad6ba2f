package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migration pairs a monotonically increasing version with the SQL applied for it.
type migration struct {
	version     string
	description string
	sql         string
}

// migrations are applied in order; applied versions are tracked in
// schema_migrations so reruns are no-ops.
var migrations = []migration{
	{
		version:     "001",
		description: "initial reservation schema",
		sql: `
CREATE TABLE IF NOT EXISTS rooms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	capacity INTEGER NOT NULL CHECK (capacity > 0),
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	room_id INTEGER NOT NULL REFERENCES rooms(id),
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	created_at TEXT NOT NULL,
	CHECK (start_time < end_time)
);

CREATE INDEX IF NOT EXISTS idx_bookings_room_time ON bookings(room_id, start_time, end_time);
CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id);

CREATE TABLE IF NOT EXISTS booking_items (
	booking_id INTEGER NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
	item_id INTEGER NOT NULL REFERENCES items(id),
	PRIMARY KEY (booking_id, item_id)
);

CREATE INDEX IF NOT EXISTS idx_booking_items_item ON booking_items(item_id);

CREATE TABLE IF NOT EXISTS history_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	booking_id INTEGER NOT NULL,
	user_info TEXT NOT NULL,
	room_info TEXT NOT NULL,
	items_info TEXT NOT NULL,
	event TEXT NOT NULL CHECK (event IN ('created', 'cancelled')),
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_created_at ON history_entries(created_at);
`,
	},
}

// Migrate applies all pending schema migrations, each within its own
// transaction together with its version record.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		)
	`); err != nil {
		return fmt.Errorf("failed to initialize version table: %w", err)
	}

	for _, m := range migrations {
		applied, err := cp.migrationApplied(ctx, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.sql); err != nil {
				return fmt.Errorf("migration %s (%s) failed: %w", m.version, m.description, err)
			}
			if _, err := tx.Exec(
				"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
				m.version, m.description,
			); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (cp *ConnectionPool) migrationApplied(ctx context.Context, version string) (bool, error) {
	var count int
	err := cp.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	return count > 0, nil
}
