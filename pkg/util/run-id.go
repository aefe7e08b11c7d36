package util

import (
	"context"

	"github.com/google/uuid"
)

// WithRunID returns a context with a run id.
// It will generate new run id if the provided id is empty
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return context.WithValue(ctx, runIDKey, generate())
	}

	return context.WithValue(ctx, runIDKey, id)
}

// generate returns a uuid-v4 string to use as run id
func generate() string {
	return uuid.NewString()
}

// GetRunID returns the run id from ctx if available
func GetRunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)

	return id
}
