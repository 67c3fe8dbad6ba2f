package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/reservation-service/internal/persistence"
)

// itemsInfoEmpty is the literal marker stored when a booking carried no items.
const itemsInfoEmpty = "None"

// HistoryRepository captures the persistence interactions of the recorder.
type HistoryRepository interface {
	AppendHistory(ctx context.Context, entry HistoryEntry) (HistoryEntry, error)
	ListHistory(ctx context.Context, filter persistence.HistoryFilter) ([]HistoryEntry, error)
}

// UserDirectory resolves an opaque user id into a human-readable label. It is
// supplied by the identity collaborator; the recorder only needs text to
// denormalize, never identity state.
type UserDirectory interface {
	UserLabel(ctx context.Context, userID int64) (string, error)
}

// HistoryService appends immutable, denormalized snapshots of committed and
// cancelled bookings and serves the audit queries over them. Entries capture
// text by value at write time so they survive deletion of the referenced
// user, room and items.
type HistoryService struct {
	history HistoryRepository
	users   UserDirectory
	now     func() time.Time
	logger  *slog.Logger
}

// NewHistoryService wires dependencies for history recording and queries.
func NewHistoryService(history HistoryRepository, users UserDirectory, now func() time.Time) *HistoryService {
	return NewHistoryServiceWithLogger(history, users, now, nil)
}

// NewHistoryServiceWithLogger wires dependencies plus a base logger.
func NewHistoryServiceWithLogger(history HistoryRepository, users UserDirectory, now func() time.Time, logger *slog.Logger) *HistoryService {
	if now == nil {
		now = time.Now
	}
	return &HistoryService{
		history: history,
		users:   users,
		now:     now,
		logger:  defaultLogger(logger),
	}
}

// Record appends one immutable entry for the snapshot. Existing entries are
// never touched.
func (s *HistoryService) Record(ctx context.Context, snapshot HistorySnapshot) error {
	if s == nil || s.history == nil {
		return fmt.Errorf("history repository not configured")
	}

	entry := HistoryEntry{
		BookingID: snapshot.BookingID,
		UserInfo:  s.userInfo(ctx, snapshot.UserID),
		RoomInfo:  fmt.Sprintf("%s (capacity %d)", snapshot.Room.Name, snapshot.Room.Capacity),
		ItemsInfo: itemsInfo(snapshot.Items),
		Event:     snapshot.Event,
		Start:     snapshot.Start.UTC(),
		End:       snapshot.End.UTC(),
		CreatedAt: s.now().UTC(),
	}

	if _, err := s.history.AppendHistory(ctx, entry); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// QueryHistory returns entries newest first, filtered by the optional user
// substring and inclusive date bounds. Administrators only.
func (s *HistoryService) QueryHistory(ctx context.Context, principal Principal, query HistoryQuery) ([]HistoryEntry, error) {
	if s == nil || s.history == nil {
		return nil, fmt.Errorf("history repository not configured")
	}
	if !principal.IsAdmin {
		return nil, ErrForbidden
	}

	filter := persistence.HistoryFilter{UserContains: strings.TrimSpace(query.UserContains)}
	if query.FromDate != nil {
		from := startOfDayUTC(*query.FromDate)
		filter.CreatedAfter = &from
	}
	if query.ToDate != nil {
		// Inclusive to-date: entries strictly before the following midnight.
		to := startOfDayUTC(*query.ToDate).AddDate(0, 0, 1)
		filter.CreatedBefore = &to
	}

	entries, err := s.history.ListHistory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return entries, nil
}

// userInfo resolves the denormalized user text. A missing or failing
// directory lookup falls back to a stable label so recording never blocks a
// commit on the identity collaborator.
func (s *HistoryService) userInfo(ctx context.Context, userID int64) string {
	fallback := fmt.Sprintf("user %d", userID)
	if s.users == nil {
		return fallback
	}
	label, err := s.users.UserLabel(ctx, userID)
	if err != nil || strings.TrimSpace(label) == "" {
		serviceLogger(ctx, s.logger, "history", "record", "user_id", userID).
			WarnContext(ctx, "user label unavailable, using fallback", "error", err)
		return fallback
	}
	return label
}

func itemsInfo(items []Item) string {
	if len(items) == 0 {
		return itemsInfoEmpty
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return strings.Join(names, ", ")
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
