package tools

import (
	"context"
	"encoding/json"
	"time"
)

type GetTimeInput struct{}

var GetTimeInputSchema = GenerateSchema[GetTimeInput]()

func (tb *Toolbox) getTimeDefinition() ToolDefinition {
	return ToolDefinition{
		Name:        "get_time",
		Description: "Get the current date and time in UTC, formatted as RFC 3339.",
		InputSchema: GetTimeInputSchema,
		RawSchema:   GenerateRawSchema[GetTimeInput](),
		Function:    tb.GetTime,
	}
}

// GetTime returns the current instant. Pure and side-effect-free.
func (tb *Toolbox) GetTime(ctx context.Context, input json.RawMessage) (string, error) {
	return tb.now().UTC().Format(time.RFC3339), nil
}
