package content

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrRecordInvalid = errors.New("content: record invalid")
	ErrTitleRequired = errors.New("content: title is required")
	ErrDateInvalid   = errors.New("content: date is missing or invalid")
	ErrSlugRequired  = errors.New("content: slug could not be determined")
	ErrSlugDuplicate = errors.New("content: duplicate slug")
)

// TextCodeRecordInvalid tags rejected records in wrapped errors.
const TextCodeRecordInvalid = "RECORD_INVALID"

// ValidationError reports why a raw record was rejected.
type ValidationError struct {
	Index    int
	Slug     string
	Problems []string
}

func (e *ValidationError) Error() string {
	label := fmt.Sprintf("record %d", e.Index)
	if e.Slug != "" {
		label = fmt.Sprintf("record %d (%s)", e.Index, e.Slug)
	}
	if len(e.Problems) == 0 {
		return label + ": invalid"
	}
	return label + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrRecordInvalid
}

// WrapValidation tags err with the validation category so callers can filter
// rejected records from other failures.
func WrapValidation(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "content record rejected").
		WithTextCode(TextCodeRecordInvalid)
}
