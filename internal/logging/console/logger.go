package console

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// Extra severities layered on top of slog's four built-in levels.
const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

// Options configures the console logger provider.
type Options struct {
	Writer     io.Writer
	Level      string
	TimeFormat string
	AddSource  bool
	NoColor    bool
}

type provider struct {
	root *slog.Logger
}

// NewProvider constructs a tint-backed provider that writes human readable
// entries. Output goes to stderr at info level unless overridden.
func NewProvider(opts Options) interfaces.LoggerProvider {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		timeFormat = time.Kitchen
	}
	handler := tint.NewHandler(writer, &tint.Options{
		Level:       ParseLevel(opts.Level),
		TimeFormat:  timeFormat,
		AddSource:   opts.AddSource,
		NoColor:     opts.NoColor,
		ReplaceAttr: replaceLevelNames,
	})
	return &provider{root: slog.New(handler)}
}

func (p *provider) GetLogger(name string) interfaces.Logger {
	inner := p.root
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		inner = inner.With("logger", trimmed)
	}
	return &consoleLogger{inner: inner}
}

// ParseLevel maps the configuration level names onto slog levels. Unknown
// values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "fatal":
		return LevelFatal
	default:
		return slog.LevelInfo
	}
}

func replaceLevelNames(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 || attr.Key != slog.LevelKey {
		return attr
	}
	level, ok := attr.Value.Any().(slog.Level)
	if !ok {
		return attr
	}
	switch level {
	case LevelTrace:
		attr.Value = slog.StringValue("TRC")
	case LevelFatal:
		attr.Value = slog.StringValue("FTL")
	}
	return attr
}

type consoleLogger struct {
	inner *slog.Logger
	ctx   context.Context
}

var (
	_ interfaces.Logger       = (*consoleLogger)(nil)
	_ interfaces.FieldsLogger = (*consoleLogger)(nil)
)

func (l *consoleLogger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args...) }
func (l *consoleLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }
func (l *consoleLogger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args...) }
func (l *consoleLogger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args...) }
func (l *consoleLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }
func (l *consoleLogger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args...) }

func (l *consoleLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	return &consoleLogger{inner: l.inner.With(sortedArgs(fields)...), ctx: l.ctx}
}

func (l *consoleLogger) WithContext(ctx context.Context) interfaces.Logger {
	return &consoleLogger{inner: l.inner, ctx: ctx}
}

func (l *consoleLogger) log(level slog.Level, msg string, args ...any) {
	ctx := l.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.inner.Enabled(ctx, level) {
		return
	}
	if fields := logging.ContextFields(ctx); len(fields) > 0 {
		args = append(sortedArgs(fields), args...)
	}
	l.inner.Log(ctx, level, msg, args...)
}

func sortedArgs(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
