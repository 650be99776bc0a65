// Package di wires the sitefeed services from a runtime configuration.
package di

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/feed"
	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/internal/logging/console"
	"github.com/bitcheongmo/sitefeed/internal/logging/gologger"
	"github.com/bitcheongmo/sitefeed/internal/markdown"
	"github.com/bitcheongmo/sitefeed/internal/page"
	"github.com/bitcheongmo/sitefeed/internal/presenter"
	"github.com/bitcheongmo/sitefeed/internal/router"
	"github.com/bitcheongmo/sitefeed/internal/runtimeconfig"
	"github.com/bitcheongmo/sitefeed/internal/seo"
	"github.com/bitcheongmo/sitefeed/internal/session"
	"github.com/bitcheongmo/sitefeed/internal/snapshot"
	"github.com/bitcheongmo/sitefeed/internal/store"
	"github.com/bitcheongmo/sitefeed/internal/transform"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// ErrUnknownCollection is returned for collections missing from the config.
var ErrUnknownCollection = errors.New("di: unknown collection")

// Container wires module dependencies. Orchestrators are created lazily,
// one per collection, and shared by every session of that collection.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	fetcher  interfaces.Fetcher
	notifier interfaces.Notifier
	body     interfaces.BodyRenderer

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	snapshots     feed.Snapshots

	urls        *seo.URLs
	transformer *transform.Transformer

	mu            sync.Mutex
	orchestrators map[string]*feed.Orchestrator
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithFetcher overrides the document fetcher.
func WithFetcher(fetcher interfaces.Fetcher) Option {
	return func(c *Container) {
		c.fetcher = fetcher
	}
}

// WithNotifier overrides the notice sink. Defaults to logging notices.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithBodyRenderer overrides the body renderer selected by the markdown config.
func WithBodyRenderer(renderer interfaces.BodyRenderer) Option {
	return func(c *Container) {
		c.body = renderer
	}
}

// WithBunDB supplies the database used for snapshots. The caller keeps
// ownership.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache supplies the cache wrapped around the snapshot repository.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithSnapshots replaces the snapshot store entirely.
func WithSnapshots(snapshots feed.Snapshots) Option {
	return func(c *Container) {
		c.snapshots = snapshots
	}
}

// NewContainer validates cfg and wires the services it describes.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:        cfg,
		orchestrators: map[string]*feed.Orchestrator{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureFetcher(); err != nil {
		return nil, err
	}
	c.configureBodyRenderer()
	if err := c.configureSnapshots(); err != nil {
		return nil, err
	}
	if err := c.configureURLs(); err != nil {
		c.Close()
		return nil, err
	}
	if c.notifier == nil {
		c.notifier = session.NewLogNotifier(logging.ModuleLogger(c.loggerProvider, "sitefeed.notice"))
	}
	c.transformer = transform.New(transform.WithLogger(logging.TransformLogger(c.loggerProvider)))

	c.logger.Info("container.configured",
		"collections", len(cfg.Collections),
		"fetcher", fmt.Sprintf("%T", c.fetcher),
		"snapshots", c.snapshots != nil,
		"markdown_engine", cfg.Markdown.Engine,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider == nil {
		cfg := c.Config.Logging
		switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(cfg)
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		default:
			c.loggerProvider = console.NewProvider(console.Options{
				Level:     cfg.Level,
				AddSource: cfg.AddSource,
			})
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "sitefeed.di")
	return nil
}

func (c *Container) configureFetcher() error {
	if c.fetcher != nil {
		return nil
	}
	if base := strings.TrimSpace(c.Config.Feed.BaseURL); base != "" {
		fetcher, err := feed.NewHTTPFetcher(base, c.Config.Feed.Timeout)
		if err != nil {
			return err
		}
		c.fetcher = fetcher
		return nil
	}
	root := c.Config.Feed.Root
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	c.fetcher = feed.NewFSFetcher(root)
	return nil
}

func (c *Container) configureBodyRenderer() {
	if c.body != nil {
		return
	}
	cfg := c.Config.Markdown
	var engine interfaces.MarkdownEngine
	if strings.EqualFold(strings.TrimSpace(cfg.Engine), runtimeconfig.MarkdownEngineGoldmark) {
		engine = markdown.NewGoldmarkEngine(interfaces.MarkdownOptions{
			Extensions: cfg.Extensions,
			HardWraps:  true,
			SafeMode:   cfg.EscapePassthrough,
		})
	}
	c.body = markdown.NewRenderer(markdown.Options{
		Engine:            engine,
		EscapePassthrough: cfg.EscapePassthrough,
		Logger:            logging.MarkdownLogger(c.loggerProvider),
	})
}

func (c *Container) configureSnapshots() error {
	if c.snapshots != nil || !c.Config.Snapshot.Enabled {
		return nil
	}

	ctx := context.Background()
	if c.bunDB == nil {
		db, err := snapshot.OpenSQLite(ctx, c.Config.Snapshot.DSN)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	} else if err := snapshot.Migrate(ctx, c.bunDB); err != nil {
		return err
	}

	c.configureCacheDefaults()
	repo := snapshot.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.snapshots = snapshot.NewService(repo, snapshot.WithLogger(logging.SnapshotLogger(c.loggerProvider)))
	return nil
}

func (c *Container) configureCacheDefaults() {
	ttl := c.Config.Snapshot.CacheTTL
	if ttl <= 0 && c.cacheService == nil {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		cfg.TTL = ttl
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("snapshot.cache.disabled", "error", err)
			return
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureURLs() error {
	collections := make([]seo.Collection, 0, len(c.Config.Collections))
	for _, collection := range c.Config.Collections {
		collections = append(collections, seoCollection(collection))
	}
	urls, err := seo.NewURLs(c.Config.Site.BaseURL, collections...)
	if err != nil {
		return err
	}
	c.urls = urls
	return nil
}

func seoCollection(cfg runtimeconfig.CollectionConfig) seo.Collection {
	section := cfg.Labels.Section
	if section == "" {
		section = cfg.Labels.Noun
	}
	return seo.Collection{
		Name:              cfg.Name,
		Param:             cfg.Param,
		PagePath:          cfg.PagePath,
		Section:           section,
		Noun:              cfg.Labels.Noun,
		Description:       cfg.SEO.Description,
		DetailDescription: cfg.SEO.DetailDescription,
		Keywords:          cfg.SEO.Keywords,
	}
}

// Close releases the snapshot database when the container opened it.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}

// LoggerProvider returns the configured provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns a logger for module.
func (c *Container) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// Fetcher returns the document fetcher.
func (c *Container) Fetcher() interfaces.Fetcher {
	return c.fetcher
}

// BodyRenderer returns the item body renderer.
func (c *Container) BodyRenderer() interfaces.BodyRenderer {
	return c.body
}

// Snapshots returns the snapshot store, nil when disabled.
func (c *Container) Snapshots() feed.Snapshots {
	return c.snapshots
}

// URLs returns the canonical URL builder.
func (c *Container) URLs() *seo.URLs {
	return c.urls
}

// Transformer returns the export transformer.
func (c *Container) Transformer() *transform.Transformer {
	return c.transformer
}

// Collection returns the configuration of name.
func (c *Container) Collection(name string) (runtimeconfig.CollectionConfig, error) {
	collection, ok := c.Config.Collection(name)
	if !ok {
		return runtimeconfig.CollectionConfig{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return collection, nil
}

// Orchestrator returns the shared loader of a collection. It backs
// module-level loads and refreshes; page sessions get their own loader from
// NewLoader.
func (c *Container) Orchestrator(name string) (*feed.Orchestrator, error) {
	collection, err := c.Collection(name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.orchestrators[collection.Name]; ok {
		return existing, nil
	}
	orchestrator, err := c.buildOrchestrator(collection, store.New())
	if err != nil {
		return nil, err
	}
	c.orchestrators[collection.Name] = orchestrator
	return orchestrator, nil
}

// NewLoader builds a loader with its own store. The fetcher and the
// snapshot service are shared with every other loader.
func (c *Container) NewLoader(name string) (*feed.Orchestrator, error) {
	collection, err := c.Collection(name)
	if err != nil {
		return nil, err
	}
	return c.buildOrchestrator(collection, store.New())
}

func (c *Container) buildOrchestrator(collection runtimeconfig.CollectionConfig, st *store.Store) (*feed.Orchestrator, error) {
	opts := []feed.Option{
		feed.WithStore(st),
		feed.WithNotifier(c.notifier),
		feed.WithLogger(logging.FeedLogger(c.loggerProvider)),
		feed.WithNormalizer(content.NewNormalizer(content.WithLogger(logging.ContentLogger(c.loggerProvider)))),
	}
	if c.snapshots != nil {
		opts = append(opts, feed.WithSnapshots(c.snapshots))
	}
	return feed.NewOrchestrator(feed.Source{
		Collection:   collection.Name,
		Path:         collection.DataPath,
		Fresh:        collection.Fresh,
		FallbackPath: collection.Fallback,
	}, c.fetcher, opts...)
}

// Presenter builds the view presenter of a collection.
func (c *Container) Presenter(name string) (*presenter.Presenter, error) {
	collection, err := c.Collection(name)
	if err != nil {
		return nil, err
	}
	return presenter.New(presenter.Config{
		Noun:     collection.Labels.Noun,
		Param:    collection.Param,
		PagePath: collection.PagePath,
	}, c.body)
}

// SEO builds the head tag builder of a collection.
func (c *Container) SEO(name string) (*seo.Builder, error) {
	collection, err := c.Collection(name)
	if err != nil {
		return nil, err
	}
	site := seo.Site{
		Name:     c.Config.Site.Name,
		LogoPath: c.Config.Site.LogoPath,
		Locale:   c.Config.Site.Locale,
	}
	return seo.NewBuilder(site, seoCollection(collection), c.urls), nil
}

// Router builds the URL router of a collection.
func (c *Container) Router(name string) (*router.Router, error) {
	collection, err := c.Collection(name)
	if err != nil {
		return nil, err
	}
	return router.New(collection.Param, collection.PagePath)
}

// SessionOptions customises a session beyond the collection wiring.
type SessionOptions struct {
	PageURL  *url.URL
	History  interfaces.History
	Scroller interfaces.Scroller
}

// NewSession wires a session rendering collection into doc. Each session
// owns its store.
func (c *Container) NewSession(name string, doc *page.Document, opts SessionOptions) (*session.Session, error) {
	collection, err := c.Collection(name)
	if err != nil {
		return nil, err
	}
	loader, err := c.NewLoader(name)
	if err != nil {
		return nil, err
	}
	pres, err := c.Presenter(name)
	if err != nil {
		return nil, err
	}
	builder, err := c.SEO(name)
	if err != nil {
		return nil, err
	}
	rtr, err := c.Router(name)
	if err != nil {
		return nil, err
	}
	return session.New(session.Options{
		Collection:  collection.Name,
		ContainerID: collection.ContainerID,
		Document:    doc,
		PageURL:     opts.PageURL,
		Loader:      loader,
		Presenter:   pres,
		SEO:         builder,
		Router:      rtr,
		History:     opts.History,
		Scroller:    opts.Scroller,
		Logger:      logging.SessionLogger(c.loggerProvider),
	})
}

// RenderPage renders shell for rawURL and returns the resulting markup.
func (c *Container) RenderPage(ctx context.Context, name string, shell []byte, rawURL string) ([]byte, error) {
	doc, err := page.Parse(bytes.NewReader(shell))
	if err != nil {
		return nil, err
	}
	s, err := c.NewSession(name, doc, SessionOptions{})
	if err != nil {
		return nil, err
	}

	started := time.Now()
	if err := s.Start(ctx, rawURL); err != nil {
		return nil, err
	}
	c.logger.Debug("page.rendered", "collection", name, "url", rawURL, "duration_ms", time.Since(started).Milliseconds())

	var out bytes.Buffer
	if err := doc.Render(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
