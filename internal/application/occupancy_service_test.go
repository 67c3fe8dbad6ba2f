package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/reservation-service/internal/booking"
	"github.com/example/reservation-service/internal/persistence"
)

type occupancyRepoStub struct {
	starts    []time.Time
	startsErr error
	calls     int

	busyItems    []int64
	busyItemsErr error
	itemCalls    int
}

func (r *occupancyRepoStub) ListRoomBookingStarts(ctx context.Context, roomID int64, from, to time.Time) ([]time.Time, error) {
	r.calls++
	if r.startsErr != nil {
		return nil, r.startsErr
	}
	out := make([]time.Time, len(r.starts))
	copy(out, r.starts)
	return out, nil
}

func (r *occupancyRepoStub) BusyItemIDs(ctx context.Context, interval booking.Interval) ([]int64, error) {
	r.itemCalls++
	if r.busyItemsErr != nil {
		return nil, r.busyItemsErr
	}
	out := make([]int64, len(r.busyItems))
	copy(out, r.busyItems)
	return out, nil
}

func TestOccupancyService_BusyHours(t *testing.T) {
	date := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	t.Run("returns distinct start hours ascending", func(t *testing.T) {
		repo := &occupancyRepoStub{starts: []time.Time{
			time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 11, 9, 30, 0, 0, time.UTC),
			time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC),
		}}
		rooms := &roomCatalogStub{room: Room{ID: 1, Name: "Boardroom", Capacity: 8}}
		svc := NewOccupancyService(repo, rooms, time.Minute, testNow)

		hours, err := svc.BusyHours(context.Background(), 1, date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hours) != 2 || hours[0] != 9 || hours[1] != 14 {
			t.Fatalf("expected hours [9 14], got %v", hours)
		}
	})

	t.Run("empty day yields an empty slice", func(t *testing.T) {
		repo := &occupancyRepoStub{}
		rooms := &roomCatalogStub{room: Room{ID: 1, Name: "Boardroom", Capacity: 8}}
		svc := NewOccupancyService(repo, rooms, time.Minute, testNow)

		hours, err := svc.BusyHours(context.Background(), 1, date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hours) != 0 {
			t.Fatalf("expected no hours, got %v", hours)
		}
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		repo := &occupancyRepoStub{}
		rooms := &roomCatalogStub{err: persistence.ErrNotFound}
		svc := NewOccupancyService(repo, rooms, time.Minute, testNow)

		_, err := svc.BusyHours(context.Background(), 99, date)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("serves repeated queries from cache", func(t *testing.T) {
		repo := &occupancyRepoStub{starts: []time.Time{
			time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
		}}
		rooms := &roomCatalogStub{room: Room{ID: 1, Name: "Boardroom", Capacity: 8}}
		svc := NewOccupancyService(repo, rooms, time.Minute, testNow)

		for i := 0; i < 3; i++ {
			if _, err := svc.BusyHours(context.Background(), 1, date); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if repo.calls != 1 {
			t.Fatalf("expected one store query, got %d", repo.calls)
		}
	})
}

func TestOccupancyService_BusyItems(t *testing.T) {
	interval := booking.Interval{
		Start: time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC),
	}

	t.Run("returns busy item ids", func(t *testing.T) {
		repo := &occupancyRepoStub{busyItems: []int64{2, 5}}
		svc := NewOccupancyService(repo, nil, time.Minute, testNow)

		ids, err := svc.BusyItems(context.Background(), interval)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ids) != 2 || ids[0] != 2 || ids[1] != 5 {
			t.Fatalf("expected ids [2 5], got %v", ids)
		}
	})

	t.Run("rejects an invalid interval", func(t *testing.T) {
		repo := &occupancyRepoStub{}
		svc := NewOccupancyService(repo, nil, time.Minute, testNow)

		_, err := svc.BusyItems(context.Background(), booking.Interval{Start: interval.End, End: interval.Start})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if repo.itemCalls != 0 {
			t.Fatalf("expected no store query, got %d", repo.itemCalls)
		}
	})

	t.Run("serves repeated queries from cache", func(t *testing.T) {
		repo := &occupancyRepoStub{busyItems: []int64{2}}
		svc := NewOccupancyService(repo, nil, time.Minute, testNow)

		for i := 0; i < 3; i++ {
			if _, err := svc.BusyItems(context.Background(), interval); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if repo.itemCalls != 1 {
			t.Fatalf("expected one store query, got %d", repo.itemCalls)
		}
	})
}
