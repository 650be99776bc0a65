package snapshot

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists snapshots keyed by collection.
type Repository interface {
	Create(ctx context.Context, snap *Snapshot) (*Snapshot, error)
	Update(ctx context.Context, snap *Snapshot) (*Snapshot, error)
	GetByCollection(ctx context.Context, collection string) (*Snapshot, error)
}

// NotFoundError is returned when a collection has no snapshot yet.
type NotFoundError struct {
	Collection string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("snapshot for collection %q not found", e.Collection)
}

// NewSnapshotRepository builds the go-repository-bun repository for snapshots.
func NewSnapshotRepository(db *bun.DB) repository.Repository[*Snapshot] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Snapshot]{
		NewRecord: func() *Snapshot { return &Snapshot{} },
		GetID: func(s *Snapshot) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Snapshot, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "collection"
		},
		GetIdentifierValue: func(s *Snapshot) string {
			return s.Collection
		},
	})
}
