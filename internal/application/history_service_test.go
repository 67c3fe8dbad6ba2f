package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/reservation-service/internal/persistence"
)

type historyRepoStub struct {
	appended  []HistoryEntry
	appendErr error

	list    []HistoryEntry
	listErr error
	filter  persistence.HistoryFilter
}

func (r *historyRepoStub) AppendHistory(ctx context.Context, entry HistoryEntry) (HistoryEntry, error) {
	if r.appendErr != nil {
		return HistoryEntry{}, r.appendErr
	}
	entry.ID = int64(len(r.appended) + 1)
	r.appended = append(r.appended, entry)
	return entry, nil
}

func (r *historyRepoStub) ListHistory(ctx context.Context, filter persistence.HistoryFilter) ([]HistoryEntry, error) {
	r.filter = filter
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]HistoryEntry, len(r.list))
	copy(out, r.list)
	return out, nil
}

type userDirectoryStub struct {
	label string
	err   error
}

func (d *userDirectoryStub) UserLabel(ctx context.Context, userID int64) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	return d.label, nil
}

func snapshotFixture() HistorySnapshot {
	return HistorySnapshot{
		BookingID: 9,
		UserID:    7,
		Room:      Room{ID: 1, Name: "Boardroom", Capacity: 8},
		Items:     []Item{{ID: 2, Name: "Projector"}, {ID: 3, Name: "Whiteboard"}},
		Event:     HistoryEventCreated,
		Start:     time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC),
	}
}

func TestHistoryService_Record(t *testing.T) {
	t.Run("denormalizes user, room and items into text", func(t *testing.T) {
		repo := &historyRepoStub{}
		users := &userDirectoryStub{label: "Alice (alice@example.com)"}
		svc := NewHistoryService(repo, users, testNow)

		if err := svc.Record(context.Background(), snapshotFixture()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(repo.appended) != 1 {
			t.Fatalf("expected one entry, got %d", len(repo.appended))
		}
		entry := repo.appended[0]
		if entry.UserInfo != "Alice (alice@example.com)" {
			t.Fatalf("unexpected user info: %q", entry.UserInfo)
		}
		if entry.RoomInfo != "Boardroom (capacity 8)" {
			t.Fatalf("unexpected room info: %q", entry.RoomInfo)
		}
		if entry.ItemsInfo != "Projector, Whiteboard" {
			t.Fatalf("unexpected items info: %q", entry.ItemsInfo)
		}
		if !entry.CreatedAt.Equal(testNow()) {
			t.Fatalf("expected created at %v, got %v", testNow(), entry.CreatedAt)
		}
	})

	t.Run("marks an empty item set", func(t *testing.T) {
		repo := &historyRepoStub{}
		svc := NewHistoryService(repo, &userDirectoryStub{label: "Alice"}, testNow)

		snapshot := snapshotFixture()
		snapshot.Items = nil

		if err := svc.Record(context.Background(), snapshot); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.appended[0].ItemsInfo != "None" {
			t.Fatalf("expected items info %q, got %q", "None", repo.appended[0].ItemsInfo)
		}
	})

	t.Run("falls back to a stable label when the directory fails", func(t *testing.T) {
		repo := &historyRepoStub{}
		users := &userDirectoryStub{err: errors.New("directory unreachable")}
		svc := NewHistoryService(repo, users, testNow)

		if err := svc.Record(context.Background(), snapshotFixture()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.appended[0].UserInfo != "user 7" {
			t.Fatalf("unexpected user info: %q", repo.appended[0].UserInfo)
		}
	})

	t.Run("propagates append failures", func(t *testing.T) {
		repo := &historyRepoStub{appendErr: errors.New("disk full")}
		svc := NewHistoryService(repo, &userDirectoryStub{label: "Alice"}, testNow)

		if err := svc.Record(context.Background(), snapshotFixture()); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestHistoryService_QueryHistory(t *testing.T) {
	t.Run("requires administrator privileges", func(t *testing.T) {
		svc := NewHistoryService(&historyRepoStub{}, nil, testNow)

		_, err := svc.QueryHistory(context.Background(), Principal{UserID: 7}, HistoryQuery{})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("normalizes date bounds to UTC day boundaries", func(t *testing.T) {
		repo := &historyRepoStub{}
		svc := NewHistoryService(repo, nil, testNow)

		from := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
		to := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)

		_, err := svc.QueryHistory(context.Background(), Principal{UserID: 1, IsAdmin: true}, HistoryQuery{
			UserContains: "  alice  ",
			FromDate:     &from,
			ToDate:       &to,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if repo.filter.UserContains != "alice" {
			t.Fatalf("expected trimmed user filter, got %q", repo.filter.UserContains)
		}
		wantAfter := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		if repo.filter.CreatedAfter == nil || !repo.filter.CreatedAfter.Equal(wantAfter) {
			t.Fatalf("expected created after %v, got %v", wantAfter, repo.filter.CreatedAfter)
		}
		wantBefore := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
		if repo.filter.CreatedBefore == nil || !repo.filter.CreatedBefore.Equal(wantBefore) {
			t.Fatalf("expected created before %v, got %v", wantBefore, repo.filter.CreatedBefore)
		}
	})

	t.Run("returns the repository entries", func(t *testing.T) {
		repo := &historyRepoStub{list: []HistoryEntry{{ID: 2}, {ID: 1}}}
		svc := NewHistoryService(repo, nil, testNow)

		entries, err := svc.QueryHistory(context.Background(), Principal{UserID: 1, IsAdmin: true}, HistoryQuery{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 2 || entries[0].ID != 2 {
			t.Fatalf("unexpected entries: %+v", entries)
		}
	})
}
