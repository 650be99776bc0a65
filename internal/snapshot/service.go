// Package snapshot keeps the last-known-good copy of every collection so a
// failed fetch can serve the previous successful load instead of test data.
package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/bitcheongmo/sitefeed/internal/identity"
	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/internal/store"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// Service records and restores snapshots.
type Service struct {
	repo   Repository
	now    func() time.Time
	logger interfaces.Logger
}

// ServiceOption configures the snapshot service.
type ServiceOption func(*Service)

// WithNow overrides the clock.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds a snapshot service over repo.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record stores result as the snapshot of collection, replacing any prior one.
func (s *Service) Record(ctx context.Context, collection string, result store.Result) error {
	now := s.now().UTC()
	snap := &Snapshot{
		ID:           identity.SnapshotUUID(collection),
		Collection:   collection,
		SyncStatus:   string(result.Metadata.SyncStatus),
		LastUpdated:  cloneTime(result.Metadata.LastUpdated),
		ErrorMessage: cloneString(result.Metadata.ErrorMessage),
		ItemCount:    len(result.Items),
		Items:        result.Items,
		UpdatedAt:    now,
	}
	if snap.LastUpdated == nil {
		snap.LastUpdated = &now
	}

	existing, err := s.repo.GetByCollection(ctx, collection)
	var notFound *NotFoundError
	switch {
	case errors.As(err, &notFound):
		snap.CreatedAt = now
		_, err = s.repo.Create(ctx, snap)
	case err != nil:
		return err
	default:
		snap.ID = existing.ID
		snap.CreatedAt = existing.CreatedAt
		_, err = s.repo.Update(ctx, snap)
	}
	if err != nil {
		return err
	}
	logging.WithCollection(s.logger, collection, "").Debug("snapshot.recorded", "items", snap.ItemCount)
	return nil
}

// Latest returns the stored snapshot of collection. The boolean is false when
// none exists.
func (s *Service) Latest(ctx context.Context, collection string) (store.Result, bool, error) {
	snap, err := s.repo.GetByCollection(ctx, collection)
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return store.Result{}, false, nil
	}
	if err != nil {
		return store.Result{}, false, err
	}
	return store.Result{Items: snap.Items, Metadata: snap.Metadata()}, true, nil
}
