package main

import (
	"context"
	"errors"
	"testing"

	"github.com/example/reservation-service/internal/application"
	"github.com/example/reservation-service/internal/testfixtures"
)

// Wires the real services over a migrated SQLite database, the same way main
// does, and walks a booking through commit, conflict and cancellation.
func TestWiring_BookingLifecycle(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())

	room := testfixtures.SeedRoom(t, harness.Catalog, "Boardroom", 8)
	projector := testfixtures.SeedItem(t, harness.Catalog, "Projector")

	historyService := application.NewHistoryService(
		newHistoryRepositoryAdapter(harness.History), staticUserDirectory{}, clock.NowFunc())
	bookingService := application.NewBookingService(
		newBookingRepositoryAdapter(harness.Bookings),
		newRoomCatalogAdapter(harness.Catalog),
		newItemCatalogAdapter(harness.Catalog),
		historyService,
		clock.NowFunc())

	start, end := testfixtures.ReferenceInterval()
	principal := application.Principal{UserID: 7}
	admin := application.Principal{UserID: 1, IsAdmin: true}

	created, err := bookingService.CreateBooking(ctx, application.CreateBookingParams{
		Principal: principal,
		Input: application.BookingInput{
			RoomID:  room.ID,
			ItemIDs: []int64{projector.ID},
			Start:   start,
			End:     end,
		},
	})
	if err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}

	_, err = bookingService.CreateBooking(ctx, application.CreateBookingParams{
		Principal: application.Principal{UserID: 8},
		Input: application.BookingInput{
			RoomID: room.ID,
			Start:  start,
			End:    end,
		},
	})
	if !errors.Is(err, application.ErrRoomUnavailable) {
		t.Fatalf("expected ErrRoomUnavailable, got %v", err)
	}

	if err := bookingService.CancelBooking(ctx, principal, created.ID); err != nil {
		t.Fatalf("failed to cancel booking: %v", err)
	}

	entries, err := historyService.QueryHistory(ctx, admin, application.HistoryQuery{})
	if err != nil {
		t.Fatalf("failed to query history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected created and cancelled entries, got %d", len(entries))
	}
	if entries[0].UserInfo != "user 7" {
		t.Fatalf("unexpected user label: %q", entries[0].UserInfo)
	}
	if entries[0].RoomInfo != "Boardroom (capacity 8)" {
		t.Fatalf("unexpected room info: %q", entries[0].RoomInfo)
	}

	stored, err := harness.Bookings.ListBookingsForUser(ctx, 7)
	if err != nil {
		t.Fatalf("failed to list bookings: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected no bookings after cancellation, got %d", len(stored))
	}
}
