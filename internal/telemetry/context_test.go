package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/petasbytes/news-agent/internal/telemetry"
)

func TestTurnID_RoundTrip(t *testing.T) {
	ctx := telemetry.WithTurnID(context.Background(), "turn-123")
	got, ok := telemetry.TurnIDFromContext(ctx)
	if !ok || got != "turn-123" {
		t.Fatalf("want turn-123,true; got %q,%v", got, ok)
	}
}

func TestTurnID_EmptyIDRejectedOnRead(t *testing.T) {
	ctx := telemetry.WithTurnID(context.Background(), "")
	got, ok := telemetry.TurnIDFromContext(ctx)
	if ok || got != "" {
		t.Fatalf("want empty,false; got %q,%v", got, ok)
	}
}

func TestTurnID_MissingReturnsFalse(t *testing.T) {
	got, ok := telemetry.TurnIDFromContext(context.Background())
	if ok || got != "" {
		t.Fatalf("want empty,false; got %q,%v", got, ok)
	}
}

func TestEnsureTurnID_GeneratesWhenAbsent(t *testing.T) {
	ctx, id := telemetry.EnsureTurnID(context.Background())
	if id == "" {
		t.Fatal("expected a generated turn id")
	}
	got, ok := telemetry.TurnIDFromContext(ctx)
	if !ok || got != id {
		t.Fatalf("context does not carry the generated id: %q,%v", got, ok)
	}
}

func TestEnsureTurnID_KeepsExisting(t *testing.T) {
	parent := telemetry.WithTurnID(context.Background(), "turn-existing")
	ctx, id := telemetry.EnsureTurnID(parent)
	if id != "turn-existing" {
		t.Fatalf("id replaced: %q", id)
	}
	if ctx != parent {
		t.Fatal("context replaced even though id was present")
	}
}

func TestTurnID_ParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	child := telemetry.WithTurnID(parent, "t1")
	cancel()
	select {
	case <-child.Done():
	case <-time.After(time.Second):
		t.Fatal("child context not cancelled with parent")
	}
}
