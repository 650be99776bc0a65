package router

import (
	"context"
	"sync"

	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// RouteHandler renders state. Errors are returned to the navigator caller.
type RouteHandler func(ctx context.Context, state State) error

// Navigator applies router transitions to a history stack and a route
// handler.
type Navigator struct {
	router   *Router
	handler  RouteHandler
	history  interfaces.History
	scroller interfaces.Scroller
	logger   interfaces.Logger

	mu    sync.Mutex
	state State
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithHistory sets the history stack. Defaults to an in-memory stack.
func WithHistory(history interfaces.History) NavigatorOption {
	return func(n *Navigator) {
		if history != nil {
			n.history = history
		}
	}
}

// WithScroller sets the viewport scroller.
func WithScroller(scroller interfaces.Scroller) NavigatorOption {
	return func(n *Navigator) {
		if scroller != nil {
			n.scroller = scroller
		}
	}
}

// WithLogger sets the navigator logger.
func WithLogger(logger interfaces.Logger) NavigatorOption {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNavigator binds router to handler.
func NewNavigator(router *Router, handler RouteHandler, opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		router:   router,
		handler:  handler,
		history:  NewMemoryHistory(),
		scroller: nopScroller{},
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// State returns the current state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// History returns the history stack in use.
func (n *Navigator) History() interfaces.History {
	return n.history
}

// Start derives the initial state from rawURL and renders it.
func (n *Navigator) Start(ctx context.Context, rawURL string) error {
	state := n.apply(InitEvent(rawURL))
	return n.render(ctx, state)
}

// NavigateTo pushes a history entry for slug, renders it and scrolls to the
// top. An empty slug navigates to the list.
func (n *Navigator) NavigateTo(ctx context.Context, slug string) error {
	state := n.apply(NavigateEvent(slug))
	n.push(state)
	err := n.render(ctx, state)
	n.scroller.ScrollTop()
	return err
}

// HandlePopState re-enters the state of a restored history entry without
// pushing a new one.
func (n *Navigator) HandlePopState(ctx context.Context, entry *interfaces.HistoryState, rawURL string) error {
	state := n.apply(PopStateEvent(entry, rawURL))
	return n.render(ctx, state)
}

// HandleClick intercepts link when it targets this page. It reports whether
// the default navigation should be prevented.
func (n *Navigator) HandleClick(ctx context.Context, link Link) (bool, error) {
	next, ok := n.router.Intercept(link)
	if !ok {
		return false, nil
	}
	n.mu.Lock()
	n.state = next
	n.mu.Unlock()

	n.push(next)
	err := n.render(ctx, next)
	n.scroller.ScrollTop()
	return true, err
}

func (n *Navigator) apply(event Event) State {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = n.router.Reduce(n.state, event)
	return n.state
}

func (n *Navigator) push(state State) {
	n.history.Push(state.HistoryState(), n.router.BuildURL(state.Slug))
}

func (n *Navigator) render(ctx context.Context, state State) error {
	n.logger.Debug("router.route.changed", "page", state.Page(), "slug", state.Slug)
	if n.handler == nil {
		return nil
	}
	return n.handler(ctx, state)
}

// Entry is one pushed history entry.
type Entry struct {
	State interfaces.HistoryState
	URL   string
}

// MemoryHistory is an in-memory history stack.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryHistory returns an empty stack.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

// Push appends an entry.
func (h *MemoryHistory) Push(state interfaces.HistoryState, url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, Entry{State: state, URL: url})
}

// Entries returns a copy of the stack, oldest first.
func (h *MemoryHistory) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

type nopScroller struct{}

func (nopScroller) ScrollTop() {}
