package telemetry

import (
	"context"
	"fmt"
	"time"
)

type turnIDKey struct{}

// WithTurnID returns a child context carrying id. Every event emitted while
// handling one turn shares the same id, which is what makes the JSONL
// stream groupable per turn.
func WithTurnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, turnIDKey{}, id)
}

// EnsureTurnID returns ctx unchanged when it already carries a turn id,
// otherwise a child context with a freshly generated one.
func EnsureTurnID(ctx context.Context) (context.Context, string) {
	if id, ok := TurnIDFromContext(ctx); ok {
		return ctx, id
	}
	id := fmt.Sprintf("turn-%d", time.Now().UnixNano())
	return WithTurnID(ctx, id), id
}

// TurnIDFromContext reports the turn id carried by ctx. A missing or empty
// id reads as absent.
func TurnIDFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(turnIDKey{}).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
