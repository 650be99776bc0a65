package snapshot_test

import (
	"context"
	"testing"
	"time"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/identity"
	"github.com/bitcheongmo/sitefeed/internal/snapshot"
	"github.com/bitcheongmo/sitefeed/internal/store"
	"github.com/bitcheongmo/sitefeed/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
)

func sampleResult(slugs ...string) store.Result {
	items := make([]content.Item, 0, len(slugs))
	for i, slug := range slugs {
		items = append(items, content.Item{
			Title:     slug,
			Slug:      slug,
			Date:      time.Date(2026, time.January, i+1, 0, 0, 0, 0, time.UTC),
			Published: true,
		})
	}
	return store.Result{Items: items, Metadata: content.SyncMetadata{SyncStatus: content.SyncSuccess}}
}

func fixedNow() time.Time {
	return time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)
}

func exerciseService(t *testing.T, svc *snapshot.Service) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := svc.Latest(ctx, "activities"); err != nil || ok {
		t.Fatalf("expected no snapshot, got ok=%v err=%v", ok, err)
	}

	if err := svc.Record(ctx, "activities", sampleResult("a", "b")); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, ok, err := svc.Latest(ctx, "activities")
	if err != nil || !ok {
		t.Fatalf("latest: ok=%v err=%v", ok, err)
	}
	if len(got.Items) != 2 || got.Items[0].Slug != "a" {
		t.Fatalf("unexpected items %+v", got.Items)
	}
	if got.Metadata.SyncStatus != content.SyncSuccess {
		t.Fatalf("unexpected status %q", got.Metadata.SyncStatus)
	}
	if got.Metadata.LastUpdated == nil || !got.Metadata.LastUpdated.Equal(fixedNow()) {
		t.Fatalf("expected last updated to default to now, got %v", got.Metadata.LastUpdated)
	}
}

func TestServiceWithMemoryRepository(t *testing.T) {
	svc := snapshot.NewService(snapshot.NewMemoryRepository(), snapshot.WithNow(fixedNow))
	exerciseService(t, svc)

	ctx := context.Background()
	if err := svc.Record(ctx, "activities", sampleResult("c")); err != nil {
		t.Fatalf("record update: %v", err)
	}
	got, _, err := svc.Latest(ctx, "activities")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Slug != "c" {
		t.Fatalf("expected replaced snapshot, got %+v", got.Items)
	}
}

func TestServiceWithBunRepository(t *testing.T) {
	ctx := context.Background()
	db, err := testsupport.NewBunMemoryDB(ctx, "snapshot_service", (*snapshot.Snapshot)(nil))
	if err != nil {
		t.Fatalf("bun db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := snapshot.NewBunRepository(db)
	svc := snapshot.NewService(repo, snapshot.WithNow(fixedNow))
	exerciseService(t, svc)

	if err := svc.Record(ctx, "activities", sampleResult("c")); err != nil {
		t.Fatalf("record update: %v", err)
	}
	stored, err := repo.GetByCollection(ctx, "activities")
	if err != nil {
		t.Fatalf("get by collection: %v", err)
	}
	if stored.ID != identity.SnapshotUUID("activities") {
		t.Fatalf("expected deterministic id, got %s", stored.ID)
	}
	if stored.ItemCount != 1 || len(stored.Items) != 1 || stored.Items[0].Slug != "c" {
		t.Fatalf("expected updated snapshot, got %+v", stored)
	}
}

func TestServiceWithCachedBunRepository(t *testing.T) {
	ctx := context.Background()
	db, err := testsupport.NewBunMemoryDB(ctx, "snapshot_cached", (*snapshot.Snapshot)(nil))
	if err != nil {
		t.Fatalf("bun db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	repo := snapshot.NewBunRepositoryWithCache(db, cacheSvc, repocache.NewDefaultKeySerializer())
	svc := snapshot.NewService(repo, snapshot.WithNow(fixedNow))
	exerciseService(t, svc)

	again, ok, err := svc.Latest(ctx, "activities")
	if err != nil || !ok || len(again.Items) != 2 {
		t.Fatalf("expected cached read to match, ok=%v err=%v items=%d", ok, err, len(again.Items))
	}
}

func TestIdentityIsStablePerCollection(t *testing.T) {
	if identity.SnapshotUUID("Activities") != identity.SnapshotUUID("activities ") {
		t.Fatalf("expected normalized collection ids to match")
	}
	if identity.SnapshotUUID("activities") == identity.SnapshotUUID("statements") {
		t.Fatalf("expected distinct ids per collection")
	}
}
