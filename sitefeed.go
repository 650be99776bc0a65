// Package sitefeed renders dated content collections (activities, statements)
// into static site pages: it loads collection documents with graceful
// degradation, routes list and detail views by slug, and keeps the page
// head in step with the displayed item.
package sitefeed

import (
	"context"
	"io"
	"net/url"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/bitcheongmo/sitefeed/internal/commands"
	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/di"
	"github.com/bitcheongmo/sitefeed/internal/page"
	"github.com/bitcheongmo/sitefeed/internal/session"
	"github.com/bitcheongmo/sitefeed/internal/store"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// Item is a normalized collection entry.
type Item = content.Item

// SyncMetadata describes how fresh a loaded collection is.
type SyncMetadata = content.SyncMetadata

// Result is the outcome of loading a collection.
type Result = store.Result

// Session renders one collection page.
type Session = session.Session

// Document is a parsed HTML page.
type Document = page.Document

// Option customises module wiring.
type Option = di.Option

// Messages accepted by the module command handlers.
type (
	RefreshCollection = commands.RefreshCollection
	RenderRoute       = commands.RenderRoute
	TransformDocument = commands.TransformDocument
	ValidateDocument  = commands.ValidateDocument
	ValidationReport  = commands.ValidationReport
)

// ErrUnknownCollection is returned for collections missing from the config.
var ErrUnknownCollection = di.ErrUnknownCollection

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithFetcher        = di.WithFetcher
	WithNotifier       = di.WithNotifier
	WithBodyRenderer   = di.WithBodyRenderer
	WithBunDB          = di.WithBunDB
	WithCache          = di.WithCache
	WithSnapshots      = di.WithSnapshots
)

// Module represents the top level sitefeed runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional
// wiring overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Load returns the current result of a collection, fetching it on first use.
func (m *Module) Load(ctx context.Context, collection string) (Result, error) {
	orchestrator, err := m.container.Orchestrator(collection)
	if err != nil {
		return Result{}, err
	}
	return orchestrator.Load(ctx), nil
}

// Refresh reloads a collection bypassing caches.
func (m *Module) Refresh(ctx context.Context, collection string) (Result, error) {
	orchestrator, err := m.container.Orchestrator(collection)
	if err != nil {
		return Result{}, err
	}
	return orchestrator.LoadFresh(ctx), nil
}

// ParsePage parses an HTML page shell.
func ParsePage(r io.Reader) (*Document, error) {
	return page.Parse(r)
}

// SessionOptions customises a session beyond the collection wiring.
type SessionOptions struct {
	History  interfaces.History
	Scroller interfaces.Scroller
}

// NewSession wires a session rendering collection into doc. pageURL, when
// absolute, is the base for detecting external links.
func (m *Module) NewSession(collection string, doc *Document, pageURL string, opts SessionOptions) (*Session, error) {
	var base *url.URL
	if parsed, err := url.Parse(pageURL); err == nil && parsed.IsAbs() {
		base = parsed
	}
	return m.container.NewSession(collection, doc, di.SessionOptions{
		PageURL:  base,
		History:  opts.History,
		Scroller: opts.Scroller,
	})
}

// RenderPage renders a page shell for rawURL and returns the markup.
func (m *Module) RenderPage(ctx context.Context, collection string, shell []byte, rawURL string) ([]byte, error) {
	return m.container.RenderPage(ctx, collection, shell, rawURL)
}

// Handlers groups the command handlers bound to a module.
type Handlers struct {
	Refresh   *commands.RefreshHandler
	Render    *commands.RenderHandler
	Transform *commands.TransformHandler
	Validate  *commands.ValidateHandler
}

// Handlers builds the command handlers. Command output without a target
// path goes to out; report receives validation outcomes.
func (m *Module) Handlers(out io.Writer, report func(ValidationReport)) Handlers {
	logger := commands.CommandLogger(m.container.LoggerProvider(), "feed")
	lookup := func(collection string) (commands.Refresher, error) {
		orchestrator, err := m.container.Orchestrator(collection)
		if err != nil {
			return nil, err
		}
		return orchestrator, nil
	}
	return Handlers{
		Refresh:   commands.NewRefreshHandler(lookup, logger),
		Render:    commands.NewRenderHandler(m, out, commands.CommandLogger(m.container.LoggerProvider(), "session")),
		Transform: commands.NewTransformHandler(m.container.Transformer(), out, commands.CommandLogger(m.container.LoggerProvider(), "transform")),
		Validate:  commands.NewValidateHandler(report, logger),
	}
}

// SubscribeCommands registers the module handlers with the go-command
// dispatcher. The returned function removes the subscriptions.
func (m *Module) SubscribeCommands(out io.Writer, report func(ValidationReport)) func() {
	handlers := m.Handlers(out, report)
	subs := []interface{ Unsubscribe() }{
		dispatcher.SubscribeCommand(handlers.Refresh, runner.WithMaxRetries(1)),
		dispatcher.SubscribeCommand(handlers.Render),
		dispatcher.SubscribeCommand(handlers.Transform),
		dispatcher.SubscribeCommand(handlers.Validate),
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}

// Dispatch sends msg to the subscribed handler.
func Dispatch[T command.Message](ctx context.Context, msg T) error {
	return dispatcher.Dispatch(ctx, msg)
}
