package catalog

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/GOLDhjy/GCompare/internal/storage/migrate"
	"github.com/GOLDhjy/GCompare/internal/storage/sqlite"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := migrate.Up(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db)
}

func TestUpsertRecentRefreshesTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.UpsertRecent(ctx, "/a.txt", "/b.txt", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	later := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	second, err := repo.UpsertRecent(ctx, "/a.txt", "/b.txt", later)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("re-open created a new row: %s vs %s", second.ID, first.ID)
	}
	if !second.OpenedAt.Equal(later) {
		t.Fatalf("opened_at = %v, want %v", second.OpenedAt, later)
	}
}

func TestListRecentsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, pair := range [][2]string{{"/one", ""}, {"/two", "/three"}, {"/four", ""}} {
		if _, err := repo.UpsertRecent(ctx, pair[0], pair[1], base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	recents, err := repo.ListRecents(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recents) != 3 {
		t.Fatalf("got %d rows, want 3", len(recents))
	}
	if recents[0].LeftPath != "/four" || recents[2].LeftPath != "/one" {
		t.Fatalf("order wrong: %v", recents)
	}
}

func TestDeleteRecentMissing(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.DeleteRecent(context.Background(), "no-such-id")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("delete missing = %v, want sql.ErrNoRows", err)
	}
}

func TestPruneRecents(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := repo.UpsertRecent(ctx, filepath.Join("/f", string(rune('a'+i))), "", base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}
	if err := repo.PruneRecents(ctx, 2); err != nil {
		t.Fatalf("prune: %v", err)
	}
	recents, err := repo.ListRecents(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recents) != 2 {
		t.Fatalf("got %d rows after prune, want 2", len(recents))
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	got, err := repo.GetSetting(ctx, "theme", "system")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if got != "system" {
		t.Fatalf("fallback = %q", got)
	}

	if err := repo.SetSetting(ctx, "theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.SetSetting(ctx, "theme", "light"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = repo.GetSetting(ctx, "theme", "system")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "light" {
		t.Fatalf("stored value = %q, want light", got)
	}
}
