package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// CatalogRepository captures the catalog interactions exposed to clients:
// read-only listings plus the administrative item deletion, which must detach
// the item from all bookings atomically with removing it.
type CatalogRepository interface {
	ListRooms(ctx context.Context) ([]Room, error)
	ListItems(ctx context.Context) ([]Item, error)
	DeleteItemDetachingBookings(ctx context.Context, id int64) error
}

// CatalogService serves the room/item listings used by booking clients and
// the administrative item deletion. Catalog lifecycle beyond that (creating
// or renaming resources) belongs to an external collaborator.
type CatalogService struct {
	catalog CatalogRepository
	logger  *slog.Logger
}

// NewCatalogService wires dependencies for catalog operations.
func NewCatalogService(catalog CatalogRepository) *CatalogService {
	return NewCatalogServiceWithLogger(catalog, nil)
}

// NewCatalogServiceWithLogger wires dependencies plus a base logger.
func NewCatalogServiceWithLogger(catalog CatalogRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, logger: defaultLogger(logger)}
}

// ListRooms returns the room catalog.
func (s *CatalogService) ListRooms(ctx context.Context) ([]Room, error) {
	if s == nil || s.catalog == nil {
		return nil, fmt.Errorf("catalog repository not configured")
	}
	rooms, err := s.catalog.ListRooms(ctx)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}
	return rooms, nil
}

// ListItems returns the item catalog.
func (s *CatalogService) ListItems(ctx context.Context) ([]Item, error) {
	if s == nil || s.catalog == nil {
		return nil, fmt.Errorf("catalog repository not configured")
	}
	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}
	return items, nil
}

// DeleteItem removes an item from the catalog after detaching it from every
// booking that references it. The detach and the delete commit together;
// bookings are never deleted by this path. Administrators only.
func (s *CatalogService) DeleteItem(ctx context.Context, principal Principal, itemID int64) error {
	if s == nil || s.catalog == nil {
		return fmt.Errorf("catalog repository not configured")
	}
	if !principal.IsAdmin {
		return ErrForbidden
	}

	logger := serviceLogger(ctx, s.logger, "catalog", "delete_item",
		"user_id", principal.UserID, "item_id", itemID)

	if err := s.catalog.DeleteItemDetachingBookings(ctx, itemID); err != nil {
		mapped := mapBookingRepoError(err)
		if !errors.Is(mapped, ErrNotFound) {
			logger.ErrorContext(ctx, "failed to delete item", "error", err)
		}
		return mapped
	}

	logger.InfoContext(ctx, "item deleted and detached from bookings")
	return nil
}
