// Package session renders one collection page. A Session owns the page
// document, the collection loader and the navigator; nothing is shared
// between sessions.
package session

import (
	"context"
	"fmt"
	"html/template"
	"net/url"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/internal/page"
	"github.com/bitcheongmo/sitefeed/internal/presenter"
	"github.com/bitcheongmo/sitefeed/internal/router"
	"github.com/bitcheongmo/sitefeed/internal/seo"
	"github.com/bitcheongmo/sitefeed/internal/store"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// Loader provides the collection of a session.
type Loader interface {
	Load(ctx context.Context) store.Result
	Store() *store.Store
}

// Options wires a Session.
type Options struct {
	Collection  string
	ContainerID string
	Document    *page.Document
	PageURL     *url.URL
	Loader      Loader
	Presenter   *presenter.Presenter
	SEO         *seo.Builder
	Router      *router.Router
	History     interfaces.History
	Scroller    interfaces.Scroller
	Logger      interfaces.Logger
}

// Session renders routes of one collection page into its document.
type Session struct {
	collection  string
	containerID string
	doc         *page.Document
	pageURL     *url.URL
	loader      Loader
	presenter   *presenter.Presenter
	seo         *seo.Builder
	router      *router.Router
	navigator   *router.Navigator
	logger      interfaces.Logger
}

// New validates opts and builds a session.
func New(opts Options) (*Session, error) {
	switch {
	case opts.Document == nil:
		return nil, fmt.Errorf("session: document is required")
	case opts.Loader == nil:
		return nil, fmt.Errorf("session: loader is required")
	case opts.Presenter == nil:
		return nil, fmt.Errorf("session: presenter is required")
	case opts.Router == nil:
		return nil, fmt.Errorf("session: router is required")
	case opts.ContainerID == "":
		return nil, fmt.Errorf("session: container id is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	s := &Session{
		collection:  opts.Collection,
		containerID: opts.ContainerID,
		doc:         opts.Document,
		pageURL:     opts.PageURL,
		loader:      opts.Loader,
		presenter:   opts.Presenter,
		seo:         opts.SEO,
		router:      opts.Router,
		logger:      logging.WithCollection(logger, opts.Collection, ""),
	}
	s.navigator = router.NewNavigator(opts.Router, s.Render,
		router.WithHistory(opts.History),
		router.WithScroller(opts.Scroller),
		router.WithLogger(logger),
	)
	return s, nil
}

// Document returns the page the session renders into.
func (s *Session) Document() *page.Document { return s.doc }

// Navigator returns the navigator driving the session.
func (s *Session) Navigator() *router.Navigator { return s.navigator }

// Store returns the collection store of the session.
func (s *Session) Store() *store.Store { return s.loader.Store() }

// Start applies the list SEO defaults and renders the route of rawURL.
func (s *Session) Start(ctx context.Context, rawURL string) error {
	if parsed, err := url.Parse(rawURL); err == nil && parsed.IsAbs() {
		s.pageURL = parsed
	}
	s.applyList()
	return s.navigator.Start(ctx, rawURL)
}

// Render draws state into the container. A missing container is reported as
// a RenderError; an unknown slug renders the not-found view and is not an
// error.
func (s *Session) Render(ctx context.Context, state router.State) error {
	if err := s.ensureContainer(); err != nil {
		return err
	}

	if !state.IsDetail() {
		return s.renderList(ctx)
	}
	return s.renderDetail(ctx, state.Slug)
}

func (s *Session) renderList(ctx context.Context) error {
	s.applyList()

	cached := s.loader.Store().Loaded()
	if !cached {
		if err := s.show(s.presenter.Loading()); err != nil {
			return err
		}
	}

	result := s.loader.Load(ctx)
	if err := s.ensureContainer(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		s.logger.Warn("session.list.cancelled", "error", err)
		return s.show(s.presenter.Error(err.Error(), result.Metadata.LastUpdated))
	}

	items := s.loader.Store().Items()
	if len(items) == 0 {
		return s.show(s.presenter.Empty())
	}
	return s.show(s.presenter.List(items))
}

func (s *Session) renderDetail(ctx context.Context, slug string) error {
	logger := logging.WithCollection(s.logger, "", slug)
	if err := s.show(s.presenter.Loading()); err != nil {
		return err
	}

	s.loader.Load(ctx)
	if err := s.ensureContainer(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		logger.Warn("session.detail.cancelled", "error", err)
		s.applyList()
		return s.show(s.presenter.DetailError(err.Error()))
	}

	item := s.loader.Store().Find(slug)
	if item == nil {
		notFound := router.WrapRouteNotFound(&router.RouteNotFoundError{Collection: s.collection, Slug: slug})
		logger.Info("session.detail.not_found", "error", notFound)
		s.applyList()
		return s.show(s.presenter.NotFound(s.presenter.NotFoundMessage()))
	}

	if err := s.show(s.presenter.Detail(*item)); err != nil {
		return err
	}
	if !item.Published {
		s.applyList()
		return nil
	}
	s.applyDetail(item)
	if enhanced := s.doc.EnhanceByClass(s.presenter.DetailBodyClass(), s.pageURL); enhanced > 0 {
		logger.Debug("session.detail.links_enhanced", "count", enhanced)
	}
	return nil
}

func (s *Session) show(fragment template.HTML, err error) error {
	if err != nil {
		s.logger.Error("session.render.failed", "error", err)
		return err
	}
	if err := s.doc.Replace(s.containerID, fragment); err != nil {
		return s.renderError(err)
	}
	return nil
}

func (s *Session) ensureContainer() error {
	if s.doc.ElementByID(s.containerID) == nil {
		return s.renderError(&page.RenderError{ContainerID: s.containerID})
	}
	return nil
}

func (s *Session) renderError(err error) error {
	wrapped := page.WrapRender(err)
	s.logger.Error("session.container.missing", "container", s.containerID, "error", wrapped)
	return wrapped
}

func (s *Session) applyList() {
	if s.seo == nil {
		return
	}
	tags, err := s.seo.List()
	if err != nil {
		s.logger.Warn("session.seo.failed", "error", err)
		return
	}
	s.applyTags(tags)
}

func (s *Session) applyDetail(item *content.Item) {
	if s.seo == nil {
		return
	}
	tags, err := s.seo.Detail(item)
	if err != nil {
		s.logger.Warn("session.seo.failed", "error", err)
		return
	}
	s.applyTags(tags)
}

func (s *Session) applyTags(tags seo.Tags) {
	if err := seo.Apply(s.doc, tags); err != nil {
		s.logger.Warn("session.seo.failed", "error", err)
	}
}
