// Package feed loads collection documents, normalizes them and keeps the
// page store current. Failures degrade to the last snapshot or the bundled
// fallback records; callers always receive a renderable result.
package feed

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/internal/store"
	"github.com/bitcheongmo/sitefeed/internal/validation"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// Snapshots persists and restores last-known-good results.
type Snapshots interface {
	Record(ctx context.Context, collection string, result store.Result) error
	Latest(ctx context.Context, collection string) (store.Result, bool, error)
}

// Source identifies the document of one collection.
type Source struct {
	Collection string
	Path       string
	// Fresh makes every load bypass intermediate caches.
	Fresh bool
	// FallbackPath optionally points at a JSON array used instead of the
	// bundled records.
	FallbackPath string
}

// Orchestrator loads one collection into a store.
type Orchestrator struct {
	source     Source
	fetcher    interfaces.Fetcher
	store      *store.Store
	schema     *validation.Schema
	normalizer *content.Normalizer
	snapshots  Snapshots
	notifier   interfaces.Notifier
	logger     interfaces.Logger
	group      singleflight.Group
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStore shares an existing store.
func WithStore(s *store.Store) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.store = s
		}
	}
}

// WithSnapshots enables last-known-good persistence.
func WithSnapshots(s Snapshots) Option {
	return func(o *Orchestrator) {
		o.snapshots = s
	}
}

// WithNotifier sets the notice sink for degraded loads.
func WithNotifier(n interfaces.Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithNormalizer replaces the default record normalizer.
func WithNormalizer(n *content.Normalizer) Option {
	return func(o *Orchestrator) {
		if n != nil {
			o.normalizer = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator builds an orchestrator for source.
func NewOrchestrator(source Source, fetcher interfaces.Fetcher, opts ...Option) (*Orchestrator, error) {
	if fetcher == nil {
		return nil, ErrNoFetcher
	}
	schema, err := validation.NewEnvelopeValidator(source.Collection)
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{
		source:  source,
		fetcher: fetcher,
		store:   store.New(),
		schema:  schema,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.WithCollection(o.logger, source.Collection, "")
	if o.normalizer == nil {
		o.normalizer = content.NewNormalizer(content.WithLogger(o.logger))
	}
	return o, nil
}

// Store returns the store the orchestrator writes to.
func (o *Orchestrator) Store() *store.Store {
	return o.store
}

// Load returns the session result, fetching the document on first use.
// Concurrent first loads share one fetch. A caller whose ctx ends stops
// waiting; the fetch still completes into the store.
func (o *Orchestrator) Load(ctx context.Context) store.Result {
	if result, ok := o.store.Result(); ok {
		o.report(ctx, result.Metadata)
		return result
	}
	return o.load(ctx, "load", o.source.Fresh, true)
}

// LoadFresh refetches the document bypassing every cache.
func (o *Orchestrator) LoadFresh(ctx context.Context) store.Result {
	return o.load(ctx, "fresh", true, false)
}

func (o *Orchestrator) load(ctx context.Context, key string, noStore, reuse bool) store.Result {
	if ctx == nil {
		ctx = context.Background()
	}
	// The shared fetch outlives any single caller so that an abandoned
	// navigation cannot decide what the store holds.
	shared := context.WithoutCancel(ctx)
	ch := o.group.DoChan(key, func() (any, error) {
		if cached, ok := o.store.Result(); ok && reuse {
			return cached, nil
		}
		generation := o.store.Begin()
		result := o.fetchResult(shared, noStore)
		logger := logging.WithGeneration(o.logger, generation)
		if !o.store.Replace(generation, result) {
			logger.Debug("feed.load.superseded")
		}
		logger.Info("feed.load.completed",
			"status", string(result.Metadata.SyncStatus),
			"items", len(result.Items),
		)
		current, _ := o.store.Result()
		return current, nil
	})

	select {
	case res := <-ch:
		result := res.Val.(store.Result)
		o.report(ctx, result.Metadata)
		return result
	case <-ctx.Done():
		return o.abandoned(ctx.Err())
	}
}

// abandoned is returned to a caller that stopped waiting. It carries the
// stored result when there is one and never writes to the store.
func (o *Orchestrator) abandoned(cause error) store.Result {
	o.logger.Debug("feed.load.abandoned", "error", cause)
	if result, ok := o.store.Result(); ok {
		return result
	}
	reason := "Data load failed: " + cause.Error()
	return store.Result{
		Metadata: content.SyncMetadata{
			SyncStatus:   content.SyncError,
			ErrorMessage: &reason,
		},
	}
}

func (o *Orchestrator) fetchResult(ctx context.Context, noStore bool) store.Result {
	doc, err := o.fetchDocument(ctx, noStore)
	if err != nil {
		o.logger.Warn("feed.fetch.failed", "error", WrapFetch(err))
		return o.degrade(ctx, err)
	}

	batch := o.normalizer.NormalizeAll(doc.Records)
	result := store.Result{Items: batch.Items, Metadata: doc.Metadata}
	if o.snapshots != nil {
		if err := o.snapshots.Record(ctx, o.source.Collection, result); err != nil {
			o.logger.Warn("feed.snapshot.record_failed", "error", err)
		}
	}
	return result
}

func (o *Orchestrator) fetchDocument(ctx context.Context, noStore bool) (Document, error) {
	fetchErr := &FetchError{Collection: o.source.Collection, Path: o.source.Path}
	resp, err := o.fetcher.Fetch(ctx, interfaces.FetchRequest{Path: o.source.Path, NoStore: noStore})
	if err != nil {
		fetchErr.Err = err
		return Document{}, fetchErr
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fetchErr.StatusCode = resp.StatusCode
		return Document{}, fetchErr
	}
	doc, err := DecodeDocument(o.source.Collection, resp.Body, o.schema)
	if err != nil {
		fetchErr.Err = err
		return Document{}, fetchErr
	}
	return doc, nil
}

// degrade picks the best available substitute for a failed fetch: the last
// snapshot, then the fallback records.
func (o *Orchestrator) degrade(ctx context.Context, cause error) store.Result {
	reason := "Data load failed: " + cause.Error()
	var fetchErr *FetchError
	if errors.As(cause, &fetchErr) {
		reason = fetchErr.Reason()
	}

	if o.snapshots != nil {
		snap, ok, err := o.snapshots.Latest(ctx, o.source.Collection)
		if err != nil {
			o.logger.Warn("feed.snapshot.read_failed", "error", err)
		}
		if ok {
			o.logger.Info("feed.fallback.snapshot", "items", len(snap.Items))
			snap.Metadata.SyncStatus = content.SyncFallback
			snap.Metadata.ErrorMessage = &reason
			return snap
		}
	}

	records, err := o.fallbackRecords()
	if err != nil {
		o.logger.Error("feed.fallback.unavailable", "error", err)
		records = nil
	}
	batch := o.normalizer.NormalizeAll(records)
	o.logger.Info("feed.fallback.bundled", "items", len(batch.Items))
	return store.Result{
		Items: batch.Items,
		Metadata: content.SyncMetadata{
			SyncStatus:   content.SyncFallback,
			ErrorMessage: &reason,
		},
	}
}

func (o *Orchestrator) fallbackRecords() ([]content.RawRecord, error) {
	if path := strings.TrimSpace(o.source.FallbackPath); path != "" {
		return FallbackFile(path)
	}
	return FallbackRecords(o.source.Collection)
}

func (o *Orchestrator) report(ctx context.Context, meta content.SyncMetadata) {
	if o.notifier == nil {
		return
	}
	if notice, ok := SyncNotice(meta); ok {
		o.notifier.Notify(ctx, notice)
	}
}
