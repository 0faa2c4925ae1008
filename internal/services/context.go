package services

import "context"

type contextKey int

const (
	postIDKey contextKey = iota
	runIDKey
)

// WithPostID annotates ctx with the identifier of the post being parsed.
// A blank id leaves ctx unchanged.
func WithPostID(ctx context.Context, id string) context.Context {
	return withValue(ctx, postIDKey, id)
}

// PostIDFromContext returns the post identifier, if any.
func PostIDFromContext(ctx context.Context) (string, bool) {
	return value(ctx, postIDKey)
}

// WithRunID annotates ctx with the correlation identifier of a parse run.
func WithRunID(ctx context.Context, id string) context.Context {
	return withValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run identifier, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	return value(ctx, runIDKey)
}

func withValue(ctx context.Context, key contextKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func value(ctx context.Context, key contextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}
