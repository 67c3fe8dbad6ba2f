// Package testfixtures provides shared helpers for exercising the
// reservation service in tests: a controllable clock, a migrated SQLite
// harness and canonical seed data.
package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/reservation-service/internal/persistence"
)

// ReferenceTime is the canonical instant fixtures are anchored to.
func ReferenceTime() time.Time {
	return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
}

// ReferenceInterval returns a one hour slot the day after ReferenceTime.
func ReferenceInterval() (time.Time, time.Time) {
	start := time.Date(2025, time.March, 11, 9, 0, 0, 0, time.UTC)
	return start, start.Add(time.Hour)
}

// SeedRoom inserts a room and fails the test on error.
func SeedRoom(tb testing.TB, repo interface {
	CreateRoom(ctx context.Context, room persistence.Room) (persistence.Room, error)
}, name string, capacity int) persistence.Room {
	tb.Helper()

	room, err := repo.CreateRoom(context.Background(), persistence.Room{
		Name:      name,
		Capacity:  capacity,
		CreatedAt: ReferenceTime(),
	})
	if err != nil {
		tb.Fatalf("failed to seed room %q: %v", name, err)
	}
	return room
}

// SeedItem inserts an item and fails the test on error.
func SeedItem(tb testing.TB, repo interface {
	CreateItem(ctx context.Context, item persistence.Item) (persistence.Item, error)
}, name string) persistence.Item {
	tb.Helper()

	item, err := repo.CreateItem(context.Background(), persistence.Item{
		Name:      name,
		CreatedAt: ReferenceTime(),
	})
	if err != nil {
		tb.Fatalf("failed to seed item %q: %v", name, err)
	}
	return item
}
