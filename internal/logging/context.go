package logging

import (
	"context"
	"maps"

	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

type contextKey string

const contextFieldsKey contextKey = "sitefeed.logging.fields"

// ContextWithFields returns a context carrying structured fields that log
// providers merge into every entry written with that context. Fields already
// on the context are kept; new values win on conflicts.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields extracts the fields attached by ContextWithFields. The result
// is a copy.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// WithFields returns logger tagged with fields when it implements
// interfaces.FieldsLogger; other loggers come back unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if tagged, ok := logger.(interfaces.FieldsLogger); ok {
		return tagged.WithFields(maps.Clone(fields))
	}
	return logger
}
