package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/reservation-service/internal/application"
)

type catalogService interface {
	ListRooms(ctx context.Context) ([]application.Room, error)
	ListItems(ctx context.Context) ([]application.Item, error)
	DeleteItem(ctx context.Context, principal application.Principal, itemID int64) error
}

type CatalogHandler struct {
	service   catalogService
	responder responder
}

func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, responder: newResponder(logger)}
}

func (h *CatalogHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	items, err := h.service.ListItems(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listItemsResponse{Items: toItemDTOs(items)})
}

func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	itemID, ok := ItemIDFromContext(r.Context())
	if !ok || itemID <= 0 {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidItemID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteItem(r.Context(), principal, itemID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type listItemsResponse struct {
	Items []itemDTO `json:"items"`
}

type roomDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type itemDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toRoomDTOs(rooms []application.Room) []roomDTO {
	if len(rooms) == 0 {
		return nil
	}
	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, roomDTO{ID: room.ID, Name: room.Name, Capacity: room.Capacity})
	}
	return out
}

func toItemDTOs(items []application.Item) []itemDTO {
	if len(items) == 0 {
		return nil
	}
	out := make([]itemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, itemDTO{ID: item.ID, Name: item.Name})
	}
	return out
}
