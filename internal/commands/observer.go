package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// Outcome classifies how a command run ended.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeFailed      Outcome = "failed"
	OutcomeInterrupted Outcome = "interrupted"
)

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCompleted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeInterrupted
	default:
		return OutcomeFailed
	}
}

// Run describes one finished command execution.
type Run struct {
	Command   string
	Operation string
	Fields    map[string]any
	Elapsed   time.Duration
	Err       error
	Outcome   Outcome
}

// Observer receives every finished run of a handler.
type Observer[T command.Message] func(ctx context.Context, msg T, run Run)

// LogObserver logs runs: completed runs at info, interrupted ones at warn and
// failures at error.
func LogObserver[T command.Message](logger interfaces.Logger) Observer[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, run Run) {
		entry := logging.WithFields(logger, run.Fields)
		event := "command." + string(run.Outcome)
		switch run.Outcome {
		case OutcomeCompleted:
			entry.Info(event, "elapsed_ms", run.Elapsed.Milliseconds())
		case OutcomeInterrupted:
			entry.Warn(event, "elapsed_ms", run.Elapsed.Milliseconds(), "error", run.Err)
		default:
			entry.Error(event, "elapsed_ms", run.Elapsed.Milliseconds(), "error", run.Err)
		}
	}
}

// CommandLogger returns the logger for commands of one area (feed, session,
// transform), named sitefeed.commands.<area>.
func CommandLogger(provider interfaces.LoggerProvider, area string) interfaces.Logger {
	area = strings.TrimSpace(area)
	if area == "" {
		area = "core"
	}
	return logging.WithFields(logging.ModuleLogger(provider, "sitefeed.commands."+area), map[string]any{
		"component": "command",
		"area":      area,
	})
}

func orNoOp(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
