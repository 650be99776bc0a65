package content

import "time"

// RawRecord is a loosely shaped record as produced by the upstream export.
// Field names vary between sources; see RecordAliases.
type RawRecord map[string]any

// Item is a normalized content entry ready for rendering.
type Item struct {
	Title       string         `json:"title"`
	Date        time.Time      `json:"date"`
	Summary     string         `json:"summary"`
	Body        string         `json:"body"`
	Slug        string         `json:"slug"`
	Published   bool           `json:"published"`
	Image       *string        `json:"image,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Attachments []string       `json:"attachments,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// SyncStatus describes the provenance of a loaded collection.
type SyncStatus string

const (
	SyncSuccess  SyncStatus = "success"
	SyncPartial  SyncStatus = "partial"
	SyncError    SyncStatus = "error"
	SyncFallback SyncStatus = "fallback"
	SyncUnknown  SyncStatus = "unknown"
)

// Valid reports whether the status is one of the known values.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncSuccess, SyncPartial, SyncError, SyncFallback, SyncUnknown:
		return true
	default:
		return false
	}
}

// SyncMetadata is the freshness descriptor attached to a loaded collection.
type SyncMetadata struct {
	LastUpdated  *time.Time `json:"lastUpdated"`
	SyncStatus   SyncStatus `json:"syncStatus"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
}

// Degraded reports whether the collection was not freshly synced.
func (m SyncMetadata) Degraded() bool {
	return m.SyncStatus != SyncSuccess
}

// NormalizeResult is the outcome of normalizing one raw record. Item is nil
// when Errors is non-empty.
type NormalizeResult struct {
	Item     *Item
	Errors   []string
	Warnings []string
}

// RecordLog collects the diagnostics for one record of a batch.
type RecordLog struct {
	Index    int
	Slug     string
	Err      error
	Warnings []string
}

// BatchResult is the outcome of normalizing a whole collection.
type BatchResult struct {
	Items       []Item
	Logs        []RecordLog
	Rejected    int
	Unpublished int
}
