package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors returned by command handlers.
const (
	CodeInvalidMessage  = "SITEFEED_COMMAND_INVALID"
	CodeInterrupted     = "SITEFEED_COMMAND_INTERRUPTED"
	CodeTimedOut        = "SITEFEED_COMMAND_TIMEOUT"
	CodeFailed          = "SITEFEED_COMMAND_FAILED"
	CodeDocumentInvalid = "SITEFEED_DOCUMENT_INVALID"
	CodeRecordsRejected = "SITEFEED_RECORDS_REJECTED"
)

// ErrRejectedRecords is returned by strict validation when records fail
// normalization.
var ErrRejectedRecords = errors.New("commands: document has rejected records")

// invalidMessage tags a message validation failure.
func invalidMessage(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command message").
		WithTextCode(CodeInvalidMessage)
}

// runFailure tags an error returned while running a command. Errors already
// carrying a go-errors category keep it.
func runFailure(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command timed out").
			WithTextCode(CodeTimedOut)
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command interrupted").
			WithTextCode(CodeInterrupted)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
			WithTextCode(CodeFailed)
	}
}
