package router

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var ErrRouteNotFound = errors.New("router: route not found")

// TextCodeRouteNotFound tags detail requests for unknown slugs.
const TextCodeRouteNotFound = "ROUTE_NOT_FOUND"

// RouteNotFoundError reports a detail request whose slug matches no item.
type RouteNotFoundError struct {
	Collection string
	Slug       string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("router: %s %q not found", e.Collection, e.Slug)
}

func (e *RouteNotFoundError) Unwrap() error {
	return ErrRouteNotFound
}

// WrapRouteNotFound tags err with the not-found category.
func WrapRouteNotFound(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryNotFound, "route not found").
		WithTextCode(TextCodeRouteNotFound)
}
