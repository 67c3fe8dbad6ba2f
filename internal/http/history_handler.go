package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/reservation-service/internal/application"
)

type historyService interface {
	QueryHistory(ctx context.Context, principal application.Principal, query application.HistoryQuery) ([]application.HistoryEntry, error)
}

type HistoryHandler struct {
	service   historyService
	responder responder
}

func NewHistoryHandler(service historyService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{service: service, responder: newResponder(logger)}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	values := r.URL.Query()
	query := application.HistoryQuery{UserContains: strings.TrimSpace(values.Get("user"))}

	if raw := strings.TrimSpace(values.Get("from")); raw != "" {
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		query.FromDate = &ts
	}
	if raw := strings.TrimSpace(values.Get("to")); raw != "" {
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		query.ToDate = &ts
	}

	principal, _ := PrincipalFromContext(r.Context())

	entries, err := h.service.QueryHistory(r.Context(), principal, query)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listHistoryResponse{
		Entries: toHistoryDTOs(entries),
	})
}

type listHistoryResponse struct {
	Entries []historyEntryDTO `json:"entries"`
}

type historyEntryDTO struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"booking_id"`
	UserInfo  string `json:"user_info"`
	RoomInfo  string `json:"room_info"`
	ItemsInfo string `json:"items_info"`
	Event     string `json:"event"`
	Start     string `json:"start"`
	End       string `json:"end"`
	CreatedAt string `json:"created_at"`
}

func toHistoryDTOs(entries []application.HistoryEntry) []historyEntryDTO {
	if len(entries) == 0 {
		return nil
	}
	out := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, historyEntryDTO{
			ID:        entry.ID,
			BookingID: entry.BookingID,
			UserInfo:  entry.UserInfo,
			RoomInfo:  entry.RoomInfo,
			ItemsInfo: entry.ItemsInfo,
			Event:     string(entry.Event),
			Start:     entry.Start.UTC().Format(time.RFC3339),
			End:       entry.End.UTC().Format(time.RFC3339),
			CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
