// Package commands exposes feed operations as go-command messages so the CLI
// and embedding hosts can dispatch them with shared validation, timeouts and
// logging.
package commands

import (
	"context"
	"maps"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// DefaultTimeout bounds a command run when WithTimeout is not given.
const DefaultTimeout = 30 * time.Second

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler runs a command function behind message validation and a timeout,
// reporting every run to an Observer.
type Handler[T command.Message] struct {
	run       command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
	observer  Observer[T]
}

var _ command.Commander[RefreshCollection] = (*Handler[RefreshCollection])(nil)

// NewHandler wraps fn. It panics when fn is nil.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: nil command function")
	}
	h := &Handler[T]{run: fn, logger: orNoOp(nil), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(h)
	}
	if h.observer == nil {
		h.observer = LogObserver[T](h.logger)
	}
	return h
}

// Execute validates msg and runs the wrapped function under the handler
// timeout. Returned errors carry a go-errors category and text code.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return invalidMessage(err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return runFailure(err)
	}

	name := command.GetMessageType(msg)
	fields := map[string]any{"command": name}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		maps.Copy(fields, h.fields(msg))
	}
	h.logger.Debug("command.started", "command", name)

	started := time.Now()
	err := h.run(ctx, msg)
	if err == nil {
		err = ctx.Err()
	}
	h.observer(ctx, msg, Run{
		Command:   name,
		Operation: h.operation,
		Fields:    fields,
		Elapsed:   time.Since(started),
		Err:       err,
		Outcome:   outcomeOf(err),
	})
	return runFailure(err)
}

// WithTimeout overrides DefaultTimeout. Zero or negative disables the timeout.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger sets the logger used by the handler and its default observer.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = orNoOp(logger)
	}
}

// WithOperation names the operation in run fields.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields adds per-message fields to every run.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithObserver replaces the default LogObserver.
func WithObserver[T command.Message](observer Observer[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.observer = observer
	}
}
