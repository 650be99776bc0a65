package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/validation"
)

// Document is a decoded collection document.
type Document struct {
	Records  []content.RawRecord
	Metadata content.SyncMetadata
	// Legacy is set for bare arrays, which carry no metadata.
	Legacy bool
}

// DecodeDocument parses raw as the document of collection. Accepted shapes are
// a bare array of records or an object with the records under the collection
// name (or "items") and optional "_metadata". A nil schema skips schema
// validation but not the shape checks.
func DecodeDocument(collection string, raw []byte, schema *validation.Schema) (Document, error) {
	var doc any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := schema.Validate(doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	switch typed := doc.(type) {
	case []any:
		return Document{
			Records:  toRecords(typed),
			Metadata: content.SyncMetadata{SyncStatus: content.SyncUnknown},
			Legacy:   true,
		}, nil
	case map[string]any:
		list, ok := typed[collection].([]any)
		if !ok {
			list, ok = typed[validation.ItemsKey].([]any)
		}
		if !ok {
			return Document{}, ErrInvalidFormat
		}
		return Document{
			Records:  toRecords(list),
			Metadata: decodeMetadata(typed[validation.MetadataKey]),
		}, nil
	default:
		return Document{}, ErrInvalidFormat
	}
}

func toRecords(list []any) []content.RawRecord {
	records := make([]content.RawRecord, 0, len(list))
	for _, entry := range list {
		record, _ := entry.(map[string]any)
		records = append(records, content.RawRecord(record))
	}
	return records
}

func decodeMetadata(value any) content.SyncMetadata {
	meta := content.SyncMetadata{SyncStatus: content.SyncUnknown}
	fields, ok := value.(map[string]any)
	if !ok {
		return meta
	}
	if raw, ok := fields["lastUpdated"]; ok {
		if parsed, ok := content.ParseDate(raw); ok {
			meta.LastUpdated = &parsed
		}
	}
	if status, ok := fields["syncStatus"].(string); ok {
		if candidate := content.SyncStatus(strings.TrimSpace(status)); candidate.Valid() {
			meta.SyncStatus = candidate
		}
	}
	if message, ok := fields["errorMessage"].(string); ok && message != "" {
		meta.ErrorMessage = &message
	}
	return meta
}
