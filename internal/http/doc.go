// Package http provides HTTP handlers and middleware for the reservation API.
//
// The router exposes the following endpoints:
//   - POST /bookings: creates a booking for the authenticated principal. Body:
//     {"room_id","item_ids","start","end"}. Responds 201 with the committed
//     booking, 409 when the room or any requested item is already taken.
//   - GET /bookings: lists the principal's bookings ordered by start time. An
//     administrator may pass ?user_id= to list another user.
//   - DELETE /bookings/{id}: cancels a booking. Owner or administrator only.
//   - GET /occupancy/hours?room_id=&date=: advisory busy start hours (UTC) for
//     a room on a calendar day.
//   - GET /occupancy/items?start=&end=: advisory busy item ids over an interval.
//   - GET /rooms, GET /items: the bookable catalog.
//   - DELETE /items/{id}: removes an item, detaching it from all bookings.
//     Administrator only.
//   - GET /history?user=&from=&to=: the immutable booking history, newest
//     first. Administrator only.
//
// Authentication is delegated to an upstream identity collaborator which sets
// the trusted X-User-ID and X-User-Admin headers; RequirePrincipal turns them
// into the request principal.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
