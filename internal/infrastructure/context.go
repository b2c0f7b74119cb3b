package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

// GenerateTraceID returns a random UUID v4 used to correlate log lines
func GenerateTraceID() string {
	return uuid.New().String()
}

// EnsureTraceID stores a fresh trace ID in ctx unless one is already there.
// Commands that run outside an HTTP request use it so their log lines can be
// grouped like request logs.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return WithTraceID(ctx, GenerateTraceID())
	}
	return ctx
}
