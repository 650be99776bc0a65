package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// DefaultMaxDocumentBytes caps the size of a fetched document.
const DefaultMaxDocumentBytes = 16 << 20

// HTTPFetcher retrieves collection documents relative to a base URL.
type HTTPFetcher struct {
	client   *http.Client
	base     *url.URL
	now      func() time.Time
	maxBytes int64
}

var _ interfaces.Fetcher = (*HTTPFetcher)(nil)

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithClock overrides the clock used for cache-busting parameters.
func WithClock(now func() time.Time) HTTPOption {
	return func(f *HTTPFetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// WithMaxBytes overrides the document size cap.
func WithMaxBytes(limit int64) HTTPOption {
	return func(f *HTTPFetcher) {
		if limit > 0 {
			f.maxBytes = limit
		}
	}
}

// NewHTTPFetcher builds a fetcher for documents under baseURL. A zero timeout
// leaves the client without a deadline.
func NewHTTPFetcher(baseURL string, timeout time.Duration, opts ...HTTPOption) (*HTTPFetcher, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("feed: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("feed: base url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	f := &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		base:     base,
		now:      time.Now,
		maxBytes: DefaultMaxDocumentBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch issues a GET for req.Path. With NoStore set the request carries a
// cache-busting "t" parameter and Cache-Control: no-store.
func (f *HTTPFetcher) Fetch(ctx context.Context, req interfaces.FetchRequest) (*interfaces.FetchResponse, error) {
	ref, err := url.Parse(strings.TrimPrefix(req.Path, "./"))
	if err != nil {
		return nil, fmt.Errorf("feed: parse path %q: %w", req.Path, err)
	}
	target := f.base.ResolveReference(ref)
	if req.NoStore {
		query := target.Query()
		query.Set("t", strconv.FormatInt(f.now().UnixMilli(), 10))
		target.RawQuery = query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.NoStore {
		httpReq.Header.Set("Cache-Control", "no-store")
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("feed: read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrDocumentTooLarge, f.maxBytes)
	}
	return &interfaces.FetchResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// FSFetcher reads collection documents from a directory. Missing files are
// reported as 404 responses so they follow the same path as a missing
// remote document.
type FSFetcher struct {
	root string
}

var _ interfaces.Fetcher = (*FSFetcher)(nil)

// NewFSFetcher builds a fetcher rooted at dir.
func NewFSFetcher(dir string) *FSFetcher {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return &FSFetcher{root: dir}
}

func (f *FSFetcher) Fetch(ctx context.Context, req interfaces.FetchRequest) (*interfaces.FetchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel := strings.SplitN(req.Path, "?", 2)[0]
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return &interfaces.FetchResponse{StatusCode: http.StatusNotFound}, nil
	}
	if err != nil {
		return nil, err
	}
	return &interfaces.FetchResponse{StatusCode: http.StatusOK, Body: data}, nil
}
