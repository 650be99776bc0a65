package validation

import "strings"

// MetadataKey is the envelope member carrying sync metadata.
const MetadataKey = "_metadata"

// ItemsKey is the generic envelope member accepted alongside the collection
// name.
const ItemsKey = "items"

// EnvelopeSchema returns the JSON schema of a collection document: either a
// bare array of records or an object holding the records under the
// collection name (or "items") with optional sync metadata. Records are not
// constrained here; they are checked one by one during normalization.
func EnvelopeSchema(collection string) map[string]any {
	collection = strings.TrimSpace(collection)
	nullableString := map[string]any{"type": []any{"string", "null"}}
	metadata := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"lastUpdated":  nullableString,
			"errorMessage": nullableString,
			"syncStatus": map[string]any{
				"enum": []any{"success", "partial", "error", "fallback", "unknown"},
			},
		},
	}
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"anyOf": []any{
			map[string]any{"type": "array"},
			map[string]any{
				"type": "object",
				"anyOf": []any{
					map[string]any{"required": []any{collection}},
					map[string]any{"required": []any{ItemsKey}},
				},
				"properties": map[string]any{
					collection:  map[string]any{"type": "array"},
					ItemsKey:    map[string]any{"type": "array"},
					MetadataKey: metadata,
				},
			},
		},
	}
}

// NewEnvelopeValidator compiles the envelope schema of collection.
func NewEnvelopeValidator(collection string) (*Schema, error) {
	return Compile(strings.TrimSpace(collection)+"-envelope", EnvelopeSchema(collection))
}
