package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/feed"
	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/internal/store"
	"github.com/bitcheongmo/sitefeed/internal/transform"
	"github.com/bitcheongmo/sitefeed/internal/validation"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

const (
	refreshOperation   = "feed.refresh"
	renderOperation    = "session.render"
	transformOperation = "transform.document"
	validateOperation  = "feed.validate"
)

var (
	_ command.Commander[RefreshCollection] = (*RefreshHandler)(nil)
	_ command.Commander[RenderRoute]       = (*RenderHandler)(nil)
	_ command.Commander[TransformDocument] = (*TransformHandler)(nil)
	_ command.Commander[ValidateDocument]  = (*ValidateHandler)(nil)
)

// Refresher reloads a collection bypassing caches.
type Refresher interface {
	LoadFresh(ctx context.Context) store.Result
}

// RefresherLookup resolves the refresher of a collection.
type RefresherLookup func(collection string) (Refresher, error)

// PageRenderer renders a page shell for a collection URL.
type PageRenderer interface {
	RenderPage(ctx context.Context, collection string, shell []byte, rawURL string) ([]byte, error)
}

// RefreshHandler executes RefreshCollection.
type RefreshHandler struct {
	inner *Handler[RefreshCollection]
}

// NewRefreshHandler builds a handler that refreshes collections found by lookup.
func NewRefreshHandler(lookup RefresherLookup, logger interfaces.Logger, opts ...HandlerOption[RefreshCollection]) *RefreshHandler {
	logger = orNoOp(logger)
	exec := func(ctx context.Context, msg RefreshCollection) error {
		if lookup == nil {
			return errors.New("commands: no refresher lookup configured")
		}
		refresher, err := lookup(msg.Collection)
		if err != nil {
			return err
		}
		result := refresher.LoadFresh(ctx)
		entry := logging.WithFields(logger, map[string]any{
			"collection":  msg.Collection,
			"items":       len(result.Items),
			"sync_status": string(result.Metadata.SyncStatus),
		})
		if result.Metadata.SyncStatus == content.SyncFallback || result.Metadata.SyncStatus == content.SyncError {
			message := ""
			if result.Metadata.ErrorMessage != nil {
				message = *result.Metadata.ErrorMessage
			}
			entry.Warn("feed.refresh.degraded", "error_message", message)
			return nil
		}
		entry.Info("feed.refresh.completed")
		return nil
	}
	return &RefreshHandler{inner: NewHandler(exec, append([]HandlerOption[RefreshCollection]{
		WithLogger[RefreshCollection](logger),
		WithOperation[RefreshCollection](refreshOperation),
		WithMessageFields(func(msg RefreshCollection) map[string]any {
			return map[string]any{"collection": msg.Collection}
		}),
	}, opts...)...)}
}

// Execute implements command.Commander.
func (h *RefreshHandler) Execute(ctx context.Context, msg RefreshCollection) error {
	return h.inner.Execute(ctx, msg)
}

// RenderHandler executes RenderRoute.
type RenderHandler struct {
	inner *Handler[RenderRoute]
}

// NewRenderHandler builds a handler that renders page shells through renderer.
// Output without a path goes to out.
func NewRenderHandler(renderer PageRenderer, out io.Writer, logger interfaces.Logger, opts ...HandlerOption[RenderRoute]) *RenderHandler {
	logger = orNoOp(logger)
	exec := func(ctx context.Context, msg RenderRoute) error {
		if renderer == nil {
			return errors.New("commands: no page renderer configured")
		}
		shell, err := os.ReadFile(msg.Shell)
		if err != nil {
			return fmt.Errorf("commands: read shell: %w", err)
		}
		rendered, err := renderer.RenderPage(ctx, msg.Collection, shell, msg.URL)
		if err != nil {
			return err
		}
		return writeOutput(msg.Out, out, rendered)
	}
	return &RenderHandler{inner: NewHandler(exec, append([]HandlerOption[RenderRoute]{
		WithLogger[RenderRoute](logger),
		WithOperation[RenderRoute](renderOperation),
		WithMessageFields(func(msg RenderRoute) map[string]any {
			return map[string]any{"collection": msg.Collection, "url": msg.URL}
		}),
	}, opts...)...)}
}

// Execute implements command.Commander.
func (h *RenderHandler) Execute(ctx context.Context, msg RenderRoute) error {
	return h.inner.Execute(ctx, msg)
}

// TransformHandler executes TransformDocument.
type TransformHandler struct {
	inner *Handler[TransformDocument]
}

// NewTransformHandler builds a handler that converts exports with transformer.
func NewTransformHandler(transformer *transform.Transformer, out io.Writer, logger interfaces.Logger, opts ...HandlerOption[TransformDocument]) *TransformHandler {
	logger = orNoOp(logger)
	if transformer == nil {
		transformer = transform.New(transform.WithLogger(logger))
	}
	exec := func(ctx context.Context, msg TransformDocument) error {
		var batch transform.Batch
		if msg.NotionFile != "" {
			raw, err := os.ReadFile(msg.NotionFile)
			if err != nil {
				return fmt.Errorf("commands: read notion export: %w", err)
			}
			pages, err := transform.DecodePages(raw)
			if err != nil {
				return err
			}
			batch = transformer.Pages(pages)
		} else {
			batch = transformer.Markdown(msg.MarkdownDir)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		document, err := transformer.BuildDocument(msg.Collection, batch)
		if err != nil {
			return err
		}
		if err := writeOutput(msg.Out, out, document); err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"collection": msg.Collection,
			"records":    len(batch.Records),
			"skipped":    len(batch.Skipped),
		}).Info("transform.document.written", "out", msg.Out)
		return nil
	}
	return &TransformHandler{inner: NewHandler(exec, append([]HandlerOption[TransformDocument]{
		WithLogger[TransformDocument](logger),
		WithOperation[TransformDocument](transformOperation),
		WithMessageFields(func(msg TransformDocument) map[string]any {
			fields := map[string]any{"collection": msg.Collection}
			if msg.NotionFile != "" {
				fields["notion_file"] = msg.NotionFile
			}
			if msg.MarkdownDir != "" {
				fields["markdown_dir"] = msg.MarkdownDir
			}
			return fields
		}),
	}, opts...)...)}
}

// Execute implements command.Commander.
func (h *TransformHandler) Execute(ctx context.Context, msg TransformDocument) error {
	return h.inner.Execute(ctx, msg)
}

// ValidationReport summarises a validated document.
type ValidationReport struct {
	Collection  string
	Records     int
	Accepted    int
	Rejected    int
	Unpublished int
	Metadata    content.SyncMetadata
	Logs        []content.RecordLog
}

// ValidateHandler executes ValidateDocument.
type ValidateHandler struct {
	inner  *Handler[ValidateDocument]
	report func(ValidationReport)
}

// NewValidateHandler builds a handler that checks documents. report, when
// set, receives the outcome of every validation.
func NewValidateHandler(report func(ValidationReport), logger interfaces.Logger, opts ...HandlerOption[ValidateDocument]) *ValidateHandler {
	logger = orNoOp(logger)
	h := &ValidateHandler{report: report}
	exec := func(ctx context.Context, msg ValidateDocument) error {
		raw, err := os.ReadFile(msg.Path)
		if err != nil {
			return fmt.Errorf("commands: read document: %w", err)
		}
		schema, err := validation.NewEnvelopeValidator(msg.Collection)
		if err != nil {
			return err
		}
		document, err := feed.DecodeDocument(msg.Collection, raw, schema)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "document is not a valid collection document").
				WithTextCode(CodeDocumentInvalid)
		}

		batch := content.NewNormalizer(content.WithLogger(logger)).NormalizeAll(document.Records)
		outcome := ValidationReport{
			Collection:  msg.Collection,
			Records:     len(document.Records),
			Accepted:    len(batch.Items),
			Rejected:    batch.Rejected,
			Unpublished: batch.Unpublished,
			Metadata:    document.Metadata,
			Logs:        batch.Logs,
		}
		if h.report != nil {
			h.report(outcome)
		}
		logging.WithFields(logger, map[string]any{
			"collection": msg.Collection,
			"records":    outcome.Records,
			"accepted":   outcome.Accepted,
			"rejected":   outcome.Rejected,
		}).Info("feed.validate.completed")

		if msg.Strict && outcome.Rejected > 0 {
			return goerrors.Wrap(ErrRejectedRecords, goerrors.CategoryValidation,
				fmt.Sprintf("%d of %d records rejected", outcome.Rejected, outcome.Records)).
				WithTextCode(CodeRecordsRejected)
		}
		return nil
	}
	h.inner = NewHandler(exec, append([]HandlerOption[ValidateDocument]{
		WithLogger[ValidateDocument](logger),
		WithOperation[ValidateDocument](validateOperation),
		WithMessageFields(func(msg ValidateDocument) map[string]any {
			return map[string]any{"collection": msg.Collection, "path": msg.Path}
		}),
	}, opts...)...)
	return h
}

// Execute implements command.Commander.
func (h *ValidateHandler) Execute(ctx context.Context, msg ValidateDocument) error {
	return h.inner.Execute(ctx, msg)
}

// writeOutput replaces path atomically, or writes to fallback when path is
// empty.
func writeOutput(path string, fallback io.Writer, data []byte) error {
	if path == "" {
		if fallback == nil {
			fallback = os.Stdout
		}
		_, err := fallback.Write(data)
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("commands: create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("commands: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("commands: write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("commands: close output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("commands: chmod output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("commands: replace output: %w", err)
	}
	return nil
}
