package feed

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrInvalidFormat = errors.New("invalid data format")
	ErrNoFetcher     = errors.New("feed: fetcher is required")

	ErrDocumentTooLarge = errors.New("document too large")
)

// TextCodeFetchFailed tags failed collection loads in wrapped errors.
const TextCodeFetchFailed = "FEED_FETCH_FAILED"

// FetchError reports why a collection document could not be used. A non-zero
// StatusCode means the transport succeeded but the server answered with a
// non-2xx status.
type FetchError struct {
	Collection string
	Path       string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s (%s): %d %s", e.Collection, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err == nil {
		return fmt.Sprintf("fetch %s (%s) failed", e.Collection, e.Path)
	}
	return fmt.Sprintf("fetch %s (%s): %v", e.Collection, e.Path, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Missing reports whether the document was not served.
func (e *FetchError) Missing() bool {
	return e.StatusCode != 0
}

// Reason is the short description recorded in sync metadata.
func (e *FetchError) Reason() string {
	if e.Missing() {
		return "Data file not found, using test data"
	}
	if e.Err != nil {
		return "Data load failed: " + e.Err.Error()
	}
	return "Data load failed"
}

// WrapFetch tags err with the external category so callers can tell upstream
// failures from local ones.
func WrapFetch(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, "collection fetch failed").
		WithTextCode(TextCodeFetchFailed)
}
