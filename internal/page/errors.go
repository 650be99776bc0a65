package page

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var ErrContainerNotFound = errors.New("page: container not found")

// TextCodeContainerNotFound tags render attempts against a missing container.
const TextCodeContainerNotFound = "CONTAINER_NOT_FOUND"

// RenderError reports that a render target could not be located.
type RenderError struct {
	ContainerID string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("page: container #%s not found", e.ContainerID)
}

func (e *RenderError) Unwrap() error {
	return ErrContainerNotFound
}

// WrapRender tags err with the not-found category.
func WrapRender(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryNotFound, "render target missing").
		WithTextCode(TextCodeContainerNotFound)
}
