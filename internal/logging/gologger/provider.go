// Package gologger backs the sitefeed logger interfaces with go-logger for
// hosts that want JSON output.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/bitcheongmo/sitefeed/internal/logging"
	"github.com/bitcheongmo/sitefeed/internal/runtimeconfig"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

var formats = map[string]func() glog.Option{
	"":        glog.WithLoggerTypeJSON,
	"json":    glog.WithLoggerTypeJSON,
	"console": glog.WithLoggerTypeConsole,
	"pretty":  glog.WithLoggerTypePretty,
}

// Provider hands out one go-logger child per module.
type Provider struct {
	root *glog.BaseLogger

	mu      sync.Mutex
	modules map[string]interfaces.Logger
}

// NewProvider builds a provider from the logging section of the config.
// Focus names restrict output to the listed modules.
func NewProvider(cfg runtimeconfig.LoggingConfig) (*Provider, error) {
	format, ok := formats[strings.ToLower(strings.TrimSpace(cfg.Format))]
	if !ok {
		return nil, fmt.Errorf("gologger: unsupported format %q", cfg.Format)
	}
	options := []glog.Option{format()}
	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		options = append(options, glog.WithLevel(level))
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	focus := make([]string, 0, len(cfg.Focus))
	for _, name := range cfg.Focus {
		if name = strings.TrimSpace(name); name != "" {
			focus = append(focus, name)
		}
	}
	if len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root, modules: map[string]interfaces.Logger{}}, nil
}

// GetLogger returns the logger of module, creating it on first use.
func (p *Provider) GetLogger(module string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	module = strings.TrimSpace(module)

	p.mu.Lock()
	defer p.mu.Unlock()
	if logger, ok := p.modules[module]; ok {
		return logger
	}
	var logger interfaces.Logger
	if module == "" {
		logger = adapt(p.root)
	} else {
		logger = adapt(p.root.GetLogger(module))
	}
	p.modules[module] = logger
	return logger
}

func adapt(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &moduleLogger{inner: inner}
}

type moduleLogger struct {
	inner glog.Logger
}

var _ interfaces.FieldsLogger = (*moduleLogger)(nil)

func (l *moduleLogger) Trace(msg string, args ...any) { l.inner.Trace(msg, args...) }
func (l *moduleLogger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *moduleLogger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *moduleLogger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *moduleLogger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
func (l *moduleLogger) Fatal(msg string, args ...any) { l.inner.Fatal(msg, args...) }

// WithFields keeps fields on loggers implementing glog.FieldsLogger and
// ignores them otherwise.
func (l *moduleLogger) WithFields(fields map[string]any) interfaces.Logger {
	tagged, ok := l.inner.(glog.FieldsLogger)
	if !ok || len(fields) == 0 {
		return l
	}
	return adapt(tagged.WithFields(maps.Clone(fields)))
}

// WithContext binds ctx and the fields stored on it by
// logging.ContextWithFields.
func (l *moduleLogger) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return logging.WithFields(adapt(l.inner.WithContext(ctx)), logging.ContextFields(ctx))
}
