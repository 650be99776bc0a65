// Package router maps page URLs to list or detail views of a collection.
// Reduce is a pure state transition; Navigator applies the side effects
// (history entries, route callbacks, scrolling).
package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// Page names stored in history entries.
const (
	PageList   = "list"
	PageDetail = "detail"
)

// State is the current view. An empty slug is the list view.
type State struct {
	Slug string
}

// ListState is the list view.
func ListState() State { return State{} }

// DetailState is the detail view of slug.
func DetailState(slug string) State { return State{Slug: slug} }

// IsDetail reports whether the state shows a single item.
func (s State) IsDetail() bool { return s.Slug != "" }

// Page returns PageList or PageDetail.
func (s State) Page() string {
	if s.IsDetail() {
		return PageDetail
	}
	return PageList
}

// HistoryState is the entry pushed for s.
func (s State) HistoryState() interfaces.HistoryState {
	return interfaces.HistoryState{Slug: s.Slug, Page: s.Page()}
}

// EventKind enumerates router inputs.
type EventKind int

const (
	EventInit EventKind = iota
	EventNavigate
	EventPopState
	EventClick
)

// Link describes a clicked anchor and the gesture that clicked it.
type Link struct {
	Href     string
	Target   string
	Modified bool
}

// Event is one router input. Which fields are read depends on Kind.
type Event struct {
	Kind    EventKind
	URL     string
	Slug    string
	History *interfaces.HistoryState
	Link    Link
}

// InitEvent is the initial page load at rawURL.
func InitEvent(rawURL string) Event { return Event{Kind: EventInit, URL: rawURL} }

// NavigateEvent requests slug, or the list when slug is empty.
func NavigateEvent(slug string) Event { return Event{Kind: EventNavigate, Slug: slug} }

// PopStateEvent restores a history entry. state may be nil.
func PopStateEvent(state *interfaces.HistoryState, rawURL string) Event {
	return Event{Kind: EventPopState, History: state, URL: rawURL}
}

// ClickEvent is an anchor click.
func ClickEvent(link Link) Event { return Event{Kind: EventClick, Link: link} }

// Router knows how one collection page encodes its views in URLs.
type Router struct {
	param    string
	pagePath string
}

// New builds a router for the page at pagePath using param as the detail
// query parameter.
func New(param, pagePath string) (*Router, error) {
	param = strings.TrimSpace(param)
	pagePath = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(pagePath), "./"), "/")
	if param == "" || pagePath == "" {
		return nil, fmt.Errorf("router: param and page path are required")
	}
	return &Router{param: param, pagePath: pagePath}, nil
}

// Param is the detail query parameter.
func (r *Router) Param() string { return r.param }

// ParseURL extracts the requested slug from rawURL. The query parameter wins
// over the legacy "#/<param>/<slug>" fragment. An empty result is the list.
func (r *Router) ParseURL(rawURL string) string {
	return ParseURL(rawURL, r.param)
}

// ParseURL extracts the slug for param from rawURL.
func ParseURL(rawURL, param string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	if slug := u.Query().Get(param); slug != "" {
		return slug
	}
	prefix := "/" + param + "/"
	fragment := u.EscapedFragment()
	if !strings.HasPrefix(fragment, prefix) {
		return ""
	}
	slug, err := url.PathUnescape(strings.TrimPrefix(fragment, prefix))
	if err != nil {
		return ""
	}
	return slug
}

// ListURL is the relative URL of the list view.
func (r *Router) ListURL() string {
	return "./" + r.pagePath
}

// BuildURL is the relative URL of state slug. Empty slugs map to the list.
func (r *Router) BuildURL(slug string) string {
	if slug == "" {
		return r.ListURL()
	}
	return r.ListURL() + "?" + r.param + "=" + strings.ReplaceAll(url.QueryEscape(slug), "+", "%20")
}

// Reduce returns the state that follows event.
func (r *Router) Reduce(state State, event Event) State {
	switch event.Kind {
	case EventInit:
		return State{Slug: r.ParseURL(event.URL)}
	case EventNavigate:
		return State{Slug: event.Slug}
	case EventPopState:
		if event.History != nil {
			return State{Slug: event.History.Slug}
		}
		return State{Slug: r.ParseURL(event.URL)}
	case EventClick:
		if next, ok := r.Intercept(event.Link); ok {
			return next
		}
		return state
	default:
		return state
	}
}

// Intercept reports whether a click on link should become an in-page
// transition, and to which state. New-window targets and modified clicks
// keep the default browser behaviour.
func (r *Router) Intercept(link Link) (State, bool) {
	href := strings.TrimSpace(link.Href)
	if href == "" || !strings.Contains(href, r.pagePath) {
		return State{}, false
	}
	if link.Target == "_blank" || link.Modified {
		return State{}, false
	}
	if slug := r.ParseURL(href); slug != "" {
		return DetailState(slug), true
	}
	if href == r.pagePath || href == r.ListURL() {
		return ListState(), true
	}
	return State{}, false
}
