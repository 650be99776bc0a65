package snapshot

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository with optional caching.
type BunRepository struct {
	repo         repository.Repository[*Snapshot]
	cacheService cache.CacheService
	cachePrefix  string
}

const snapshotNamespace = "feed_snapshot"

var _ Repository = (*BunRepository)(nil)

// NewBunRepository creates a snapshot repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a snapshot repository with caching support.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewSnapshotRepository(db)
	r := &BunRepository{}
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		r.cacheService = cacheService
		r.cachePrefix = snapshotNamespace + cache.KeySeparator
	}
	r.repo = base
	return r
}

func (r *BunRepository) Create(ctx context.Context, snap *Snapshot) (*Snapshot, error) {
	record, err := r.repo.Create(ctx, snap)
	if err != nil {
		return nil, err
	}
	return record, r.InvalidateCache(ctx)
}

func (r *BunRepository) Update(ctx context.Context, snap *Snapshot) (*Snapshot, error) {
	record, err := r.repo.Update(ctx, snap,
		repository.UpdateByID(snap.ID.String()),
		repository.UpdateColumns(
			"sync_status",
			"last_updated",
			"error_message",
			"item_count",
			"items",
			"updated_at",
		),
	)
	if err != nil {
		return nil, err
	}
	return record, r.InvalidateCache(ctx)
}

func (r *BunRepository) GetByCollection(ctx context.Context, collection string) (*Snapshot, error) {
	record, err := r.repo.GetByIdentifier(ctx, collection)
	if err != nil {
		return nil, mapRepositoryError(err, collection)
	}
	return record, nil
}

// InvalidateCache drops cached snapshot reads.
func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, collection string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Collection: collection}
	}
	return fmt.Errorf("snapshot repository error: %w", err)
}
