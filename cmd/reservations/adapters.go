package main

import (
	"context"
	"fmt"
	"time"

	"github.com/example/reservation-service/internal/application"
	"github.com/example/reservation-service/internal/booking"
	"github.com/example/reservation-service/internal/persistence"
)

// The adapters below bridge the persistence models to the application layer's
// narrower views of them.

type bookingRepositoryAdapter struct {
	repo persistence.BookingRepository
}

func newBookingRepositoryAdapter(repo persistence.BookingRepository) *bookingRepositoryAdapter {
	return &bookingRepositoryAdapter{repo: repo}
}

func (a *bookingRepositoryAdapter) CreateBooking(ctx context.Context, b application.Booking) (application.Booking, error) {
	stored, err := a.repo.CreateBooking(ctx, toPersistenceBooking(b))
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) GetBooking(ctx context.Context, id int64) (application.Booking, error) {
	stored, err := a.repo.GetBooking(ctx, id)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) DeleteBooking(ctx context.Context, id int64) error {
	return a.repo.DeleteBooking(ctx, id)
}

func (a *bookingRepositoryAdapter) ListBookingsForUser(ctx context.Context, userID int64) ([]application.Booking, error) {
	models, err := a.repo.ListBookingsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	bookings := make([]application.Booking, 0, len(models))
	for _, model := range models {
		bookings = append(bookings, toApplicationBooking(model))
	}
	return bookings, nil
}

func (a *bookingRepositoryAdapter) CountOverlappingRoomBookings(ctx context.Context, roomID int64, interval booking.Interval) (int, error) {
	return a.repo.CountOverlappingRoomBookings(ctx, roomID, interval.Start, interval.End)
}

func (a *bookingRepositoryAdapter) ConflictingItemIDs(ctx context.Context, itemIDs []int64, interval booking.Interval) ([]int64, error) {
	return a.repo.ConflictingItemIDs(ctx, itemIDs, interval.Start, interval.End)
}

type occupancyRepositoryAdapter struct {
	repo persistence.BookingRepository
}

func newOccupancyRepositoryAdapter(repo persistence.BookingRepository) *occupancyRepositoryAdapter {
	return &occupancyRepositoryAdapter{repo: repo}
}

func (a *occupancyRepositoryAdapter) ListRoomBookingStarts(ctx context.Context, roomID int64, from, to time.Time) ([]time.Time, error) {
	return a.repo.ListRoomBookingStarts(ctx, roomID, from, to)
}

func (a *occupancyRepositoryAdapter) BusyItemIDs(ctx context.Context, interval booking.Interval) ([]int64, error) {
	return a.repo.BusyItemIDs(ctx, interval.Start, interval.End)
}

type roomCatalogAdapter struct {
	repo persistence.CatalogRepository
}

func newRoomCatalogAdapter(repo persistence.CatalogRepository) *roomCatalogAdapter {
	return &roomCatalogAdapter{repo: repo}
}

func (a *roomCatalogAdapter) GetRoom(ctx context.Context, id int64) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

type itemCatalogAdapter struct {
	repo persistence.CatalogRepository
}

func newItemCatalogAdapter(repo persistence.CatalogRepository) *itemCatalogAdapter {
	return &itemCatalogAdapter{repo: repo}
}

func (a *itemCatalogAdapter) FindItems(ctx context.Context, ids []int64) ([]application.Item, error) {
	models, err := a.repo.FindItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	items := make([]application.Item, 0, len(models))
	for _, model := range models {
		items = append(items, toApplicationItem(model))
	}
	return items, nil
}

type catalogRepositoryAdapter struct {
	repo persistence.CatalogRepository
}

func newCatalogRepositoryAdapter(repo persistence.CatalogRepository) *catalogRepositoryAdapter {
	return &catalogRepositoryAdapter{repo: repo}
}

func (a *catalogRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

func (a *catalogRepositoryAdapter) ListItems(ctx context.Context) ([]application.Item, error) {
	models, err := a.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	items := make([]application.Item, 0, len(models))
	for _, model := range models {
		items = append(items, toApplicationItem(model))
	}
	return items, nil
}

func (a *catalogRepositoryAdapter) DeleteItemDetachingBookings(ctx context.Context, id int64) error {
	return a.repo.DeleteItemDetachingBookings(ctx, id)
}

type historyRepositoryAdapter struct {
	repo persistence.HistoryRepository
}

func newHistoryRepositoryAdapter(repo persistence.HistoryRepository) *historyRepositoryAdapter {
	return &historyRepositoryAdapter{repo: repo}
}

func (a *historyRepositoryAdapter) AppendHistory(ctx context.Context, entry application.HistoryEntry) (application.HistoryEntry, error) {
	stored, err := a.repo.AppendHistory(ctx, toPersistenceHistoryEntry(entry))
	if err != nil {
		return application.HistoryEntry{}, err
	}
	return toApplicationHistoryEntry(stored), nil
}

func (a *historyRepositoryAdapter) ListHistory(ctx context.Context, filter persistence.HistoryFilter) ([]application.HistoryEntry, error) {
	models, err := a.repo.ListHistory(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	entries := make([]application.HistoryEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, toApplicationHistoryEntry(model))
	}
	return entries, nil
}

// staticUserDirectory labels users by id. A richer identity collaborator can
// replace it without touching the history recorder.
type staticUserDirectory struct{}

func (staticUserDirectory) UserLabel(_ context.Context, userID int64) (string, error) {
	return fmt.Sprintf("user %d", userID), nil
}

func toApplicationBooking(model persistence.Booking) application.Booking {
	return application.Booking{
		ID:        model.ID,
		UserID:    model.UserID,
		RoomID:    model.RoomID,
		ItemIDs:   append([]int64(nil), model.ItemIDs...),
		Start:     model.Start,
		End:       model.End,
		CreatedAt: model.CreatedAt,
	}
}

func toPersistenceBooking(b application.Booking) persistence.Booking {
	return persistence.Booking{
		ID:        b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		ItemIDs:   append([]int64(nil), b.ItemIDs...),
		Start:     b.Start,
		End:       b.End,
		CreatedAt: b.CreatedAt,
	}
}

func toApplicationRoom(model persistence.Room) application.Room {
	return application.Room{
		ID:       model.ID,
		Name:     model.Name,
		Capacity: model.Capacity,
	}
}

func toApplicationItem(model persistence.Item) application.Item {
	return application.Item{
		ID:   model.ID,
		Name: model.Name,
	}
}

func toApplicationHistoryEntry(model persistence.HistoryEntry) application.HistoryEntry {
	return application.HistoryEntry{
		ID:        model.ID,
		BookingID: model.BookingID,
		UserInfo:  model.UserInfo,
		RoomInfo:  model.RoomInfo,
		ItemsInfo: model.ItemsInfo,
		Event:     application.HistoryEvent(model.Event),
		Start:     model.Start,
		End:       model.End,
		CreatedAt: model.CreatedAt,
	}
}

func toPersistenceHistoryEntry(entry application.HistoryEntry) persistence.HistoryEntry {
	return persistence.HistoryEntry{
		ID:        entry.ID,
		BookingID: entry.BookingID,
		UserInfo:  entry.UserInfo,
		RoomInfo:  entry.RoomInfo,
		ItemsInfo: entry.ItemsInfo,
		Event:     string(entry.Event),
		Start:     entry.Start,
		End:       entry.End,
		CreatedAt: entry.CreatedAt,
	}
}
