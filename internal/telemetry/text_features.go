package telemetry

import (
	"context"

	"github.com/petasbytes/news-agent/internal/textstat"
)

// EmitTextFeatures records size features of a named text artifact
// (for example a search answer or a tool result) under one event.
func EmitTextFeatures(ctx context.Context, name, label, text string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	fields := textstat.Count(text).Fields(label)
	fields["turn_id"] = turnID
	Emit(name, fields)
}
