package interfaces

import (
	"context"
	"time"
)

// HistoryState is the payload stored alongside a history entry. Slug is empty
// for the list view.
type HistoryState struct {
	Slug string `json:"slug,omitempty"`
	Page string `json:"page"`
}

// History abstracts the browser history stack for the router side-effect layer.
type History interface {
	Push(state HistoryState, url string)
}

// Scroller resets the viewport after a route change.
type Scroller interface {
	ScrollTop()
}

// NoticeLevel mirrors the toast severities understood by the site shell.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a non-blocking user-visible message.
type Notice struct {
	Level    NoticeLevel
	Message  string
	Duration time.Duration
}

// Notifier surfaces notices without blocking rendering.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// FetchRequest describes a document fetch issued by the sync orchestrator.
type FetchRequest struct {
	Path    string
	NoStore bool
}

// FetchResponse carries the raw document and transport status.
type FetchResponse struct {
	StatusCode int
	Body       []byte
}

// Fetcher retrieves collection documents. Non-2xx responses are returned as
// values, transport failures as errors.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (*FetchResponse, error)
}
