package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/reservation-service/internal/booking"
)

type occupancyService interface {
	BusyHours(ctx context.Context, roomID int64, date time.Time) ([]int, error)
	BusyItems(ctx context.Context, interval booking.Interval) ([]int64, error)
}

type OccupancyHandler struct {
	service   occupancyService
	responder responder
}

func NewOccupancyHandler(service occupancyService, logger *slog.Logger) *OccupancyHandler {
	return &OccupancyHandler{service: service, responder: newResponder(logger)}
}

func (h *OccupancyHandler) BusyHours(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()

	roomID, err := strconv.ParseInt(strings.TrimSpace(query.Get("room_id")), 10, 64)
	if err != nil || roomID <= 0 {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(query.Get("date")))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	hours, err := h.service.BusyHours(r.Context(), roomID, date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if hours == nil {
		hours = []int{}
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, busyHoursResponse{
		RoomID: roomID,
		Date:   date.Format("2006-01-02"),
		Hours:  hours,
	})
}

func (h *OccupancyHandler) BusyItems(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()

	start := parseTimestamp(query.Get("start"))
	end := parseTimestamp(query.Get("end"))
	if start.IsZero() || end.IsZero() {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTimestamp)
		return
	}

	ids, err := h.service.BusyItems(r.Context(), booking.Interval{Start: start, End: end})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, busyItemsResponse{
		Start:   start.UTC().Format(time.RFC3339),
		End:     end.UTC().Format(time.RFC3339),
		ItemIDs: ids,
	})
}

type busyHoursResponse struct {
	RoomID int64  `json:"room_id"`
	Date   string `json:"date"`
	Hours  []int  `json:"hours"`
}

type busyItemsResponse struct {
	Start   string  `json:"start"`
	End     string  `json:"end"`
	ItemIDs []int64 `json:"item_ids"`
}
