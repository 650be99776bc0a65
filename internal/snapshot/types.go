package snapshot

import (
	"time"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Snapshot is the last-known-good copy of a collection.
type Snapshot struct {
	bun.BaseModel `bun:"table:feed_snapshots,alias:fs"`

	ID           uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Collection   string         `bun:"collection,notnull,unique" json:"collection"`
	SyncStatus   string         `bun:"sync_status,notnull" json:"sync_status"`
	LastUpdated  *time.Time     `bun:"last_updated,nullzero" json:"last_updated,omitempty"`
	ErrorMessage *string        `bun:"error_message" json:"error_message,omitempty"`
	ItemCount    int            `bun:"item_count,notnull,default:0" json:"item_count"`
	Items        []content.Item `bun:"items,type:jsonb" json:"items"`
	CreatedAt    time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Metadata returns the stored freshness descriptor.
func (s *Snapshot) Metadata() content.SyncMetadata {
	meta := content.SyncMetadata{
		SyncStatus:   content.SyncStatus(s.SyncStatus),
		LastUpdated:  cloneTime(s.LastUpdated),
		ErrorMessage: cloneString(s.ErrorMessage),
	}
	if !meta.SyncStatus.Valid() {
		meta.SyncStatus = content.SyncUnknown
	}
	return meta
}

func cloneSnapshot(s *Snapshot) *Snapshot {
	if s == nil {
		return nil
	}
	cloned := *s
	cloned.LastUpdated = cloneTime(s.LastUpdated)
	cloned.ErrorMessage = cloneString(s.ErrorMessage)
	cloned.Items = append([]content.Item(nil), s.Items...)
	return &cloned
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
