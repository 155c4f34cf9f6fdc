package stores

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// setupTestStore creates an in-memory SQLite store for testing
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(Config{
		Path: ":memory:",
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewSQLiteStoreRequiresPath(t *testing.T) {
	if _, err := NewSQLiteStore(Config{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

// TestStoreLifecycle tests database initialization and closure
func TestStoreLifecycle(t *testing.T) {
	store, err := NewSQLiteStore(Config{
		Path: filepath.Join(t.TempDir(), "snapshots.db"),
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.HealthCheck(ctx); err == nil {
		t.Error("expected health check to fail before Init")
	}

	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	if err := store.HealthCheck(ctx); err != nil {
		t.Fatalf("health check failed: %v", err)
	}

	// Migrating twice is a no-op.
	for i := 0; i < 2; i++ {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("migration %d failed: %v", i, err)
		}
	}

	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}

func TestSnapshotCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 12, 0, 0, 123, time.UTC)
	snapshot := &Snapshot{
		ID:        "snap-1",
		Platform:  "linux-64",
		Facts:     `{"platform":"linux-64"}`,
		Packages:  `[{"name":"__unix","version":"0","build":"0"}]`,
		CreatedAt: created,
	}

	if err := store.SaveSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("failed to save snapshot: %v", err)
	}

	got, err := store.GetSnapshot(ctx, "snap-1")
	if err != nil {
		t.Fatalf("failed to get snapshot: %v", err)
	}
	if got.Platform != snapshot.Platform {
		t.Errorf("expected platform %s, got %s", snapshot.Platform, got.Platform)
	}
	if got.Packages != snapshot.Packages {
		t.Errorf("expected packages %s, got %s", snapshot.Packages, got.Packages)
	}
	if got.Facts != snapshot.Facts {
		t.Errorf("expected facts %s, got %s", snapshot.Facts, got.Facts)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("expected created_at %v, got %v", created, got.CreatedAt)
	}

	if err := store.SaveSnapshot(ctx, snapshot); err == nil {
		t.Error("expected duplicate id to fail")
	}
}

func TestSaveSnapshotDefaults(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.SaveSnapshot(ctx, &Snapshot{Platform: "linux-64"}); err == nil {
		t.Fatal("expected error for missing id")
	}

	if err := store.SaveSnapshot(ctx, &Snapshot{ID: "bare", Platform: "osx-arm64", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("failed to save snapshot: %v", err)
	}

	got, err := store.GetSnapshot(ctx, "bare")
	if err != nil {
		t.Fatalf("failed to get snapshot: %v", err)
	}
	if got.Facts != "{}" || got.Packages != "[]" {
		t.Errorf("expected empty JSON defaults, got facts=%q packages=%q", got.Facts, got.Packages)
	}
}

func TestSnapshotNotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.GetSnapshot(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := store.LatestSnapshot(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound from empty store, got %v", err)
	}
}

func TestListAndLatestSnapshots(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.SaveSnapshot(ctx, &Snapshot{
			ID:        fmt.Sprintf("snap-%d", i),
			Platform:  "linux-64",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("failed to save snapshot %d: %v", i, err)
		}
	}

	latest, err := store.LatestSnapshot(ctx)
	if err != nil {
		t.Fatalf("failed to get latest snapshot: %v", err)
	}
	if latest.ID != "snap-4" {
		t.Errorf("expected latest snap-4, got %s", latest.ID)
	}

	tests := []struct {
		name   string
		limit  int
		offset int
		want   []string
	}{
		{name: "all", limit: 0, offset: 0, want: []string{"snap-4", "snap-3", "snap-2", "snap-1", "snap-0"}},
		{name: "first page", limit: 2, offset: 0, want: []string{"snap-4", "snap-3"}},
		{name: "second page", limit: 2, offset: 2, want: []string{"snap-2", "snap-1"}},
		{name: "past the end", limit: 2, offset: 10, want: nil},
		{name: "negative offset", limit: 1, offset: -3, want: []string{"snap-4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListSnapshots(ctx, tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("failed to list snapshots: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d snapshots, got %d", len(tt.want), len(got))
			}
			for i, s := range got {
				if s.ID != tt.want[i] {
					t.Errorf("position %d: expected %s, got %s", i, tt.want[i], s.ID)
				}
			}
		})
	}
}

func TestPruneSnapshots(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		err := store.SaveSnapshot(ctx, &Snapshot{
			ID:        fmt.Sprintf("snap-%d", i),
			Platform:  "win-64",
			CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("failed to save snapshot %d: %v", i, err)
		}
	}

	removed, err := store.PruneSnapshots(ctx, base.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("failed to prune snapshots: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 snapshots removed, got %d", removed)
	}

	remaining, err := store.ListSnapshots(ctx, 0, 0)
	if err != nil {
		t.Fatalf("failed to list snapshots: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining snapshots, got %d", len(remaining))
	}
	if remaining[1].ID != "snap-2" {
		t.Errorf("expected oldest remaining snap-2, got %s", remaining[1].ID)
	}

	removed, err = store.PruneSnapshots(ctx, base)
	if err != nil {
		t.Fatalf("failed to prune snapshots: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected nothing removed, got %d", removed)
	}
}
