package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/reservation-service/internal/booking"
)

// OccupancyRepository captures the read-only queries behind the advisory
// occupancy projections.
type OccupancyRepository interface {
	ListRoomBookingStarts(ctx context.Context, roomID int64, from, to time.Time) ([]time.Time, error)
	BusyItemIDs(ctx context.Context, interval booking.Interval) ([]int64, error)
}

// OccupancyService serves read-only projections used by client UIs to show
// busy hours and busy items ahead of submission. Results are advisory: they
// may be stale by the time a booking is attempted, which the orchestrator
// handles by re-validating at commit time.
type OccupancyService struct {
	occupancy OccupancyRepository
	rooms     RoomCatalog
	hours     *occupancyCache[int]
	items     *occupancyCache[int64]
	logger    *slog.Logger
}

// NewOccupancyService wires dependencies for the occupancy projections.
// ttl bounds how stale a cached projection may be served; zero selects the
// default.
func NewOccupancyService(occupancy OccupancyRepository, rooms RoomCatalog, ttl time.Duration, now func() time.Time) *OccupancyService {
	return NewOccupancyServiceWithLogger(occupancy, rooms, ttl, now, nil)
}

// NewOccupancyServiceWithLogger wires dependencies plus a base logger.
func NewOccupancyServiceWithLogger(occupancy OccupancyRepository, rooms RoomCatalog, ttl time.Duration, now func() time.Time, logger *slog.Logger) *OccupancyService {
	return &OccupancyService{
		occupancy: occupancy,
		rooms:     rooms,
		hours:     newOccupancyCache[int](ttl, 0, now),
		items:     newOccupancyCache[int64](ttl, 0, now),
		logger:    defaultLogger(logger),
	}
}

// BusyHours returns the distinct start hours (0-23, ascending, UTC) of the
// room's bookings starting on the given calendar day.
func (s *OccupancyService) BusyHours(ctx context.Context, roomID int64, date time.Time) ([]int, error) {
	if s == nil || s.occupancy == nil {
		return nil, fmt.Errorf("occupancy repository not configured")
	}

	if s.rooms != nil {
		if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
			return nil, mapBookingRepoError(err)
		}
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	key := fmt.Sprintf("hours|%d|%s", roomID, dayStart.Format("2006-01-02"))

	if cached, ok := s.hours.Get(key); ok {
		return cached, nil
	}

	starts, err := s.occupancy.ListRoomBookingStarts(ctx, roomID, dayStart, dayEnd)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}

	seen := make(map[int]struct{}, len(starts))
	hours := make([]int, 0, len(starts))
	for _, start := range starts {
		hour := start.UTC().Hour()
		if _, ok := seen[hour]; ok {
			continue
		}
		seen[hour] = struct{}{}
		hours = append(hours, hour)
	}

	s.hours.Store(key, hours)

	serviceLogger(ctx, s.logger, "occupancy", "busy_hours", "room_id", roomID).
		DebugContext(ctx, "computed busy hours", "count", len(hours))
	return hours, nil
}

// BusyItems returns the ids of all items attached to a booking overlapping
// the interval, across all rooms.
func (s *OccupancyService) BusyItems(ctx context.Context, interval booking.Interval) ([]int64, error) {
	if s == nil || s.occupancy == nil {
		return nil, fmt.Errorf("occupancy repository not configured")
	}
	if err := interval.Validate(); err != nil {
		return nil, invalidIntervalError()
	}
	interval = interval.UTC()

	key := fmt.Sprintf("items|%s|%s",
		interval.Start.Format(time.RFC3339), interval.End.Format(time.RFC3339))
	if cached, ok := s.items.Get(key); ok {
		return cached, nil
	}

	ids, err := s.occupancy.BusyItemIDs(ctx, interval)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}

	s.items.Store(key, ids)
	return ids, nil
}
