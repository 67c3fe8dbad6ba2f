package http

import (
	"context"

	"github.com/example/reservation-service/internal/application"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	bookingIDContextKey contextKey = "booking_id"
	itemIDContextKey    contextKey = "item_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithBookingID injects the booking identifier resolved from the request path.
func ContextWithBookingID(ctx context.Context, bookingID int64) context.Context {
	return context.WithValue(ctx, bookingIDContextKey, bookingID)
}

// BookingIDFromContext extracts a booking identifier previously associated with the context.
func BookingIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(bookingIDContextKey).(int64)
	return id, ok
}

// ContextWithItemID injects the item identifier resolved from the request path.
func ContextWithItemID(ctx context.Context, itemID int64) context.Context {
	return context.WithValue(ctx, itemIDContextKey, itemID)
}

// ItemIDFromContext extracts an item identifier previously associated with the context.
func ItemIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(itemIDContextKey).(int64)
	return id, ok
}
