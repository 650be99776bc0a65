package content

import (
	"sort"
	"strings"
	"unicode"
)

// Field names a canonical content field.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDate        Field = "date"
	FieldSummary     Field = "summary"
	FieldBody        Field = "body"
	FieldSlug        Field = "slug"
	FieldPublished   Field = "published"
	FieldImage       Field = "image"
	FieldAttachments Field = "attachments"
	FieldCategory    Field = "category"
	FieldMetadata    Field = "metadata"
	FieldCreatedAt   Field = "created_time"
	FieldUpdatedAt   Field = "last_edited_time"
)

// AliasEntry lists the accepted source keys for a canonical field, in
// priority order.
type AliasEntry struct {
	Field      Field
	Candidates []string
}

// AliasTable maps canonical fields to candidate keys.
type AliasTable []AliasEntry

// RecordAliases is the alias table applied to raw records.
var RecordAliases = AliasTable{
	{Field: FieldTitle, Candidates: []string{"title", "name"}},
	{Field: FieldDate, Candidates: []string{"date", "created_time", "last_edited_time"}},
	{Field: FieldSummary, Candidates: []string{"summary", "description"}},
	{Field: FieldBody, Candidates: []string{"body", "content"}},
	{Field: FieldSlug, Candidates: []string{"slug", "id"}},
	{Field: FieldPublished, Candidates: []string{"published", "public"}},
	{Field: FieldImage, Candidates: []string{"image", "cover"}},
	{Field: FieldAttachments, Candidates: []string{"attachments"}},
	{Field: FieldCategory, Candidates: []string{"category", "type"}},
	{Field: FieldMetadata, Candidates: []string{"metadata"}},
	{Field: FieldCreatedAt, Candidates: []string{"created_time"}},
	{Field: FieldUpdatedAt, Candidates: []string{"last_edited_time"}},
}

// Candidates returns the candidate keys registered for field.
func (t AliasTable) Candidates(field Field) []string {
	for _, entry := range t {
		if entry.Field == field {
			return entry.Candidates
		}
	}
	return nil
}

// Lookup resolves field against record using the table.
func (t AliasTable) Lookup(record RawRecord, field Field) (any, bool) {
	present := hasValue
	if field == FieldPublished {
		present = func(v any) bool { return v != nil }
	}
	_, value, ok := MatchField(record, t.Candidates(field), present)
	return value, ok
}

// MatchField finds the first candidate key present in values. Exact keys are
// tried first, in candidate order; then keys are compared case-insensitively
// with whitespace removed. present decides whether a value counts; nil means
// any stored value counts.
func MatchField[V any](values map[string]V, candidates []string, present func(V) bool) (string, V, bool) {
	var zero V
	if len(values) == 0 || len(candidates) == 0 {
		return "", zero, false
	}
	accept := func(v V) bool {
		return present == nil || present(v)
	}

	for _, candidate := range candidates {
		if value, ok := values[candidate]; ok && accept(value) {
			return candidate, value, true
		}
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	normalized := make(map[string]string, len(keys))
	for _, key := range keys {
		folded := FoldKey(key)
		if _, exists := normalized[folded]; !exists {
			normalized[folded] = key
		}
	}
	for _, candidate := range candidates {
		key, ok := normalized[FoldKey(candidate)]
		if !ok {
			continue
		}
		if value := values[key]; accept(value) {
			return key, value, true
		}
	}
	return "", zero, false
}

// FoldKey lowercases key and strips every whitespace rune.
func FoldKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func hasValue(v any) bool {
	switch typed := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case []any:
		return len(typed) > 0
	case []string:
		return len(typed) > 0
	default:
		return true
	}
}
