package session

import (
	"context"
	"sync"

	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// LogNotifier writes notices to a logger.
type LogNotifier struct {
	logger interfaces.Logger
}

// NewLogNotifier returns a notifier logging through logger.
func NewLogNotifier(logger interfaces.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, notice interfaces.Notice) {
	args := []any{"level", string(notice.Level), "duration", notice.Duration.String()}
	switch notice.Level {
	case interfaces.NoticeError:
		n.logger.Error(notice.Message, args...)
	case interfaces.NoticeWarning:
		n.logger.Warn(notice.Message, args...)
	default:
		n.logger.Info(notice.Message, args...)
	}
}

// MemoryNotifier keeps notices in memory.
type MemoryNotifier struct {
	mu      sync.Mutex
	notices []interfaces.Notice
}

func (n *MemoryNotifier) Notify(_ context.Context, notice interfaces.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

// Notices returns the notices received so far.
func (n *MemoryNotifier) Notices() []interfaces.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]interfaces.Notice, len(n.notices))
	copy(out, n.notices)
	return out
}
