package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/internal/validation"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

var (
	ErrMissingRequired = errors.New("transform: required field missing")
	ErrEmptyDocument   = errors.New("transform: refusing to build a document without records")
)

// Batch is the outcome of converting a set of pages.
type Batch struct {
	Records []content.RawRecord
	Skipped []error
}

// Status is success when nothing was skipped and partial otherwise.
func (b Batch) Status() content.SyncStatus {
	if len(b.Skipped) > 0 {
		return content.SyncPartial
	}
	return content.SyncSuccess
}

// Transformer converts upstream exports and assembles collection documents.
type Transformer struct {
	logger interfaces.Logger
	now    func() time.Time
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger sets the transformer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithNow overrides the clock used for lastUpdated.
func WithNow(now func() time.Time) Option {
	return func(t *Transformer) {
		if now != nil {
			t.now = now
		}
	}
}

// New builds a Transformer.
func New(opts ...Option) *Transformer {
	t := &Transformer{logger: logging.NoOp(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Pages converts every page, skipping those without a title or date.
func (t *Transformer) Pages(pages []Page) Batch {
	var batch Batch
	for _, page := range pages {
		if prop := findProperty(page.Properties, content.FieldPublished); prop != nil && prop.Type == "status" && prop.Status != nil && !KnownStatus(prop.Status.Name) {
			t.logger.Warn("transform.status.unknown", "page", shortID(page.ID), "status", prop.Status.Name)
		}
		record, err := FromNotionPage(page, nil)
		if err != nil {
			t.logger.Warn("transform.page.skipped", "page", shortID(page.ID), "error", err)
			batch.Skipped = append(batch.Skipped, err)
			continue
		}
		batch.Records = append(batch.Records, record)
	}
	t.logger.Info("transform.pages.completed", "records", len(batch.Records), "skipped", len(batch.Skipped))
	return batch
}

// Markdown converts the markdown files under dir.
func (t *Transformer) Markdown(dir string) Batch {
	records, errs := MarkdownDir(dir)
	for _, err := range errs {
		t.logger.Warn("transform.markdown.skipped", "error", err)
	}
	t.logger.Info("transform.markdown.completed", "records", len(records), "skipped", len(errs))
	return Batch{Records: records, Skipped: errs}
}

// BuildDocument encodes batch as the collection document served to pages.
// An empty batch is refused with ErrEmptyDocument. The result is checked
// against the envelope schema before returning.
func (t *Transformer) BuildDocument(collection string, batch Batch) ([]byte, error) {
	if len(batch.Records) == 0 {
		return nil, ErrEmptyDocument
	}

	metadata := map[string]any{
		"lastUpdated":        t.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		"syncStatus":         string(batch.Status()),
		"errorMessage":       nil,
		collection + "Count": len(batch.Records),
	}
	if len(batch.Skipped) > 0 {
		metadata["errorMessage"] = fmt.Sprintf("%d records skipped", len(batch.Skipped))
	}
	document := map[string]any{
		collection:             batch.Records,
		validation.MetadataKey: metadata,
	}

	raw, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("transform: encode document: %w", err)
	}

	schema, err := validation.NewEnvelopeValidator(collection)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("transform: decode document: %w", err)
	}
	if err := schema.Validate(decoded); err != nil {
		return nil, err
	}
	return raw, nil
}
