package tools

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// ToolDefinition describes one tool offered to the model: name, description,
// JSON input schema, and the handler that executes it.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema anthropic.ToolInputSchemaParam
	// RawSchema is the same schema as a standalone JSON document, for
	// transports (e.g. MCP) that take schemas verbatim.
	RawSchema json.RawMessage
	Function  func(ctx context.Context, input json.RawMessage) (string, error)
}

// GenerateSchema derives the Anthropic tool input schema from a Go struct.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	var v T
	return anthropic.ToolInputSchemaParam{
		Properties: reflector().Reflect(v).Properties,
	}
}

// GenerateRawSchema derives the same schema as a standalone JSON document.
func GenerateRawSchema[T any]() json.RawMessage {
	var v T
	b, err := json.Marshal(reflector().Reflect(v))
	if err != nil {
		// Reflection over our own static input types cannot fail at runtime.
		panic(err)
	}
	return b
}

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
}

// StorageError marks a repository failure inside a tool. Unlike ordinary
// tool errors, which become tool-result content for the model to react to,
// a storage failure terminates the turn.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }
