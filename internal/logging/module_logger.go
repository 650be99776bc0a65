package logging

import (
	"context"
	"strings"

	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

const (
	rootModule      = "sitefeed"
	contentModule   = "sitefeed.content"
	markdownModule  = "sitefeed.markdown"
	feedModule      = "sitefeed.feed"
	snapshotModule  = "sitefeed.snapshot"
	routerModule    = "sitefeed.router"
	sessionModule   = "sitefeed.session"
	transformModule = "sitefeed.transform"
)

const (
	fieldCollection = "collection"
	fieldSlug       = "slug"
	fieldGeneration = "generation"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger used by record normalization.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// MarkdownLogger returns the logger used by body rendering.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// FeedLogger returns the logger used by the sync orchestrator.
func FeedLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, feedModule)
}

// SnapshotLogger returns the logger used by snapshot persistence.
func SnapshotLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, snapshotModule)
}

// RouterLogger returns the logger used by the navigator.
func RouterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, routerModule)
}

// SessionLogger returns the logger used by per-page sessions.
func SessionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sessionModule)
}

// TransformLogger returns the logger used by the offline transformer.
func TransformLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, transformModule)
}

// WithCollection enriches the logger with the collection name and, when
// present, the slug being handled. Empty values are ignored.
func WithCollection(logger interfaces.Logger, collection, slug string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(collection); trimmed != "" {
		fields[fieldCollection] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldSlug] = trimmed
	}
	return WithFields(logger, fields)
}

// WithGeneration tags entries with the store generation a load produced.
func WithGeneration(logger interfaces.Logger, generation uint64) interfaces.Logger {
	return WithFields(logger, map[string]any{fieldGeneration: generation})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
