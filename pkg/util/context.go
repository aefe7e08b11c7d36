package util

import (
	"context"
)

type key string

const (
	runIDKey    = key("x-run-id")
	sourceKey   = key("source")
	workerIDKey = key("worker-id")
)

// Fields returns a map of the key-value pairs that this library has set into `context`.
func Fields(ctx context.Context) map[string]interface{} {
	mapFields := make(map[string]interface{})
	mapFields["run_id"] = GetRunID(ctx)
	if source := GetSource(ctx); source != "" {
		mapFields["source"] = source
	}
	if id, ok := GetWorkerID(ctx); ok {
		mapFields["worker_id"] = id
	}

	return mapFields
}

// WithSource returns a context carrying the name of the ingestion source.
func WithSource(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, sourceKey, name)
}

// WithWorkerID returns a context carrying the pool index of a worker.
func WithWorkerID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, workerIDKey, id)
}

// GetSource returns the ingestion source name from context
// will return empty string if not present
func GetSource(ctx context.Context) string {
	name, _ := ctx.Value(sourceKey).(string)
	return name
}

// GetWorkerID returns the worker index from context.
func GetWorkerID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(workerIDKey).(int)
	return id, ok
}
