package content

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// Normalizer turns raw records into items using an alias table.
type Normalizer struct {
	aliases AliasTable
	logger  interfaces.Logger
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithAliases replaces the default alias table.
func WithAliases(table AliasTable) NormalizerOption {
	return func(n *Normalizer) {
		if len(table) > 0 {
			n.aliases = table
		}
	}
}

// WithLogger sets the logger used for per-record diagnostics.
func WithLogger(logger interfaces.Logger) NormalizerOption {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNormalizer constructs a normalizer using RecordAliases.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		aliases: RecordAliases,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = NewNormalizer()

// Normalize validates and repairs one raw record with the default aliases.
func Normalize(raw RawRecord) NormalizeResult {
	return defaultNormalizer.Normalize(raw)
}

// NormalizeAll normalizes a batch with the default aliases.
func NormalizeAll(raws []RawRecord) BatchResult {
	return defaultNormalizer.NormalizeAll(raws)
}

// Normalize validates and repairs one raw record.
func (n *Normalizer) Normalize(raw RawRecord) NormalizeResult {
	result := NormalizeResult{}

	title := n.text(raw, FieldTitle)
	if title == "" {
		result.Errors = append(result.Errors, ErrTitleRequired.Error())
	}

	rawDate, _ := n.aliases.Lookup(raw, FieldDate)
	date, ok := ParseDate(rawDate)
	if !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ErrDateInvalid.Error(), rawDate))
	}

	slugValue := n.text(raw, FieldSlug)
	if slugValue == "" {
		slugValue = Slugify(title)
	}
	if slugValue == "" {
		result.Errors = append(result.Errors, ErrSlugRequired.Error())
	}

	if len(result.Errors) > 0 {
		return result
	}

	if !CanonicalSlug(slugValue) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("slug %q is not canonical", slugValue))
	}

	summary := n.text(raw, FieldSummary)
	if summary == "" {
		result.Warnings = append(result.Warnings, "summary missing, using title")
		summary = title
	}
	body := n.text(raw, FieldBody)
	if body == "" {
		result.Warnings = append(result.Warnings, "body missing, using summary")
		body = summary
	}

	item := &Item{
		Title:     title,
		Date:      date,
		Summary:   summary,
		Body:      body,
		Slug:      slugValue,
		Published: n.published(raw),
		Metadata:  n.metadata(raw, date),
	}
	if image := n.text(raw, FieldImage); image != "" {
		item.Image = &image
	}
	if category := n.text(raw, FieldCategory); category != "" {
		item.Category = &category
	}
	if value, ok := n.aliases.Lookup(raw, FieldAttachments); ok {
		item.Attachments = stringList(value)
	}

	if err := item.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Item = item
	return result
}

// NormalizeAll normalizes every record, dropping rejected and unpublished
// entries without aborting the batch. Later records reusing a slug are
// rejected.
func (n *Normalizer) NormalizeAll(raws []RawRecord) BatchResult {
	batch := BatchResult{Items: make([]Item, 0, len(raws))}
	seen := make(map[string]struct{}, len(raws))

	for index, raw := range raws {
		res := n.Normalize(raw)
		entry := RecordLog{Index: index, Warnings: res.Warnings}
		if res.Item != nil {
			entry.Slug = res.Item.Slug
			if _, dup := seen[res.Item.Slug]; dup {
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", ErrSlugDuplicate.Error(), res.Item.Slug))
				res.Item = nil
			}
		}

		if len(res.Errors) > 0 {
			entry.Err = WrapValidation(&ValidationError{Index: index, Slug: entry.Slug, Problems: res.Errors})
			batch.Rejected++
			batch.Logs = append(batch.Logs, entry)
			n.logger.Warn("content.record.rejected", "index", index, "error", entry.Err)
			continue
		}

		if len(res.Warnings) > 0 {
			batch.Logs = append(batch.Logs, entry)
			n.logger.Debug("content.record.repaired", "index", index, "slug", entry.Slug, "warnings", res.Warnings)
		}

		seen[res.Item.Slug] = struct{}{}
		if !res.Item.Published {
			batch.Unpublished++
			continue
		}
		batch.Items = append(batch.Items, *res.Item)
	}

	n.logger.Info("content.batch.normalized",
		"total", len(raws),
		"accepted", len(batch.Items),
		"rejected", batch.Rejected,
		"unpublished", batch.Unpublished,
	)
	return batch
}

// Validate checks the invariants every accepted item holds.
func (i Item) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.Required),
		validation.Field(&i.Slug, validation.Required),
		validation.Field(&i.Date, validation.By(func(any) error {
			if i.Date.IsZero() {
				return validation.NewError("date_required", "date is required")
			}
			return nil
		})),
	)
}

func (n *Normalizer) text(raw RawRecord, field Field) string {
	value, ok := n.aliases.Lookup(raw, field)
	if !ok {
		return ""
	}
	return stringValue(value)
}

func (n *Normalizer) published(raw RawRecord) bool {
	value, ok := n.aliases.Lookup(raw, FieldPublished)
	if !ok {
		return true
	}
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err != nil {
			return strings.TrimSpace(typed) != ""
		}
		return parsed
	case float64:
		return typed != 0
	case int:
		return typed != 0
	default:
		return true
	}
}

func (n *Normalizer) metadata(raw RawRecord, date time.Time) map[string]any {
	meta := map[string]any{}
	if value, ok := n.aliases.Lookup(raw, FieldMetadata); ok {
		if existing, ok := value.(map[string]any); ok {
			maps.Copy(meta, existing)
		}
	}

	created := date
	if value, ok := n.aliases.Lookup(raw, FieldCreatedAt); ok {
		if parsed, ok := ParseDate(value); ok {
			created = parsed
		}
	}
	updated := date
	if value, ok := n.aliases.Lookup(raw, FieldUpdatedAt); ok {
		if parsed, ok := ParseDate(value); ok {
			updated = parsed
		}
	}
	meta["createdAt"] = created.Format(time.RFC3339)
	meta["updatedAt"] = updated.Format(time.RFC3339)
	return meta
}

func stringValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		if url, ok := typed["url"].(string); ok {
			return strings.TrimSpace(url)
		}
		for _, key := range []string{"external", "file"} {
			if nested, ok := typed[key].(map[string]any); ok {
				if url, ok := nested["url"].(string); ok {
					return strings.TrimSpace(url)
				}
			}
		}
		return ""
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return strings.TrimSpace(fmt.Sprint(typed))
	}
}

func stringList(value any) []string {
	switch typed := value.(type) {
	case []string:
		return compactStrings(typed)
	case []any:
		out := make([]string, 0, len(typed))
		for _, entry := range typed {
			if s := stringValue(entry); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := stringValue(typed); s != "" {
			return []string{s}
		}
		return nil
	}
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
