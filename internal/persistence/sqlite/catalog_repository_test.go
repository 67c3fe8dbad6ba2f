package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/reservation-service/internal/persistence"
	"github.com/example/reservation-service/internal/testfixtures"
)

func TestCatalogRepository_Rooms(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	boardroom := testfixtures.SeedRoom(t, harness.Catalog, "Boardroom", 8)
	annex := testfixtures.SeedRoom(t, harness.Catalog, "Annex", 4)

	t.Run("get returns the stored room", func(t *testing.T) {
		room, err := harness.Catalog.GetRoom(ctx, boardroom.ID)
		require.NoError(t, err)
		assert.Equal(t, "Boardroom", room.Name)
		assert.Equal(t, 8, room.Capacity)
	})

	t.Run("get of an unknown room is not found", func(t *testing.T) {
		_, err := harness.Catalog.GetRoom(ctx, 9999)
		require.ErrorIs(t, err, persistence.ErrNotFound)
	})

	t.Run("list orders by name", func(t *testing.T) {
		rooms, err := harness.Catalog.ListRooms(ctx)
		require.NoError(t, err)
		require.Len(t, rooms, 2)
		assert.Equal(t, annex.ID, rooms[0].ID)
		assert.Equal(t, boardroom.ID, rooms[1].ID)
	})

	t.Run("duplicate names are rejected", func(t *testing.T) {
		_, err := harness.Catalog.CreateRoom(ctx, persistence.Room{Name: "Boardroom", Capacity: 2})
		require.ErrorIs(t, err, persistence.ErrDuplicate)
	})
}

func TestCatalogRepository_Items(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	projector := testfixtures.SeedItem(t, harness.Catalog, "Projector")
	whiteboard := testfixtures.SeedItem(t, harness.Catalog, "Whiteboard")

	t.Run("find returns only the existing subset", func(t *testing.T) {
		items, err := harness.Catalog.FindItems(ctx, []int64{projector.ID, whiteboard.ID, 9999})
		require.NoError(t, err)
		require.Len(t, items, 2)
	})

	t.Run("find with no ids is empty", func(t *testing.T) {
		items, err := harness.Catalog.FindItems(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("list returns all items", func(t *testing.T) {
		items, err := harness.Catalog.ListItems(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

func TestCatalogRepository_DeleteItemDetachingBookings(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := testfixtures.SeedRoom(t, harness.Catalog, "Boardroom", 8)
	projector := testfixtures.SeedItem(t, harness.Catalog, "Projector")
	whiteboard := testfixtures.SeedItem(t, harness.Catalog, "Whiteboard")
	start, end := testfixtures.ReferenceInterval()

	booked, err := harness.Bookings.CreateBooking(ctx, persistence.Booking{
		UserID: 7, RoomID: room.ID, ItemIDs: []int64{projector.ID, whiteboard.ID},
		Start: start, End: end,
	})
	require.NoError(t, err)

	t.Run("unknown item is not found", func(t *testing.T) {
		require.ErrorIs(t, harness.Catalog.DeleteItemDetachingBookings(ctx, 9999), persistence.ErrNotFound)
	})

	t.Run("deleting an item detaches it but keeps the booking", func(t *testing.T) {
		require.NoError(t, harness.Catalog.DeleteItemDetachingBookings(ctx, projector.ID))

		_, err := harness.Catalog.GetItem(ctx, projector.ID)
		require.ErrorIs(t, err, persistence.ErrNotFound)

		booking, err := harness.Bookings.GetBooking(ctx, booked.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{whiteboard.ID}, booking.ItemIDs)
		assert.True(t, booking.Start.Equal(start))
	})
}
