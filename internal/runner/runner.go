package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/news-agent/internal/telemetry"
	"github.com/petasbytes/news-agent/internal/windowing"
	"github.com/petasbytes/news-agent/tools"
)

// State is the dispatch loop's position within one turn.
type State int

const (
	StateAwaitingModel State = iota
	StateExecutingTools
	StateDone
)

// systemPrompt is the standing usage policy, sent on every consultation.
const systemPrompt = `You are a news research assistant. You have tools for time lookup, web search, and a news database.

Rules:
- For any question that needs fresh external information, call search_web first. Do not answer such questions from memory.
- search_web never saves anything. Persisting results happens only through save_to_db.
- Call save_to_db only after the user has explicitly confirmed the save, and only with a handle returned by an earlier search_web call in this conversation.
- Never claim that a database save or read happened unless you actually invoked the corresponding tool.`

const maxResponseTokens = 1024

type Runner struct {
	client *anthropic.Client
	model  anthropic.Model
	tools  []tools.ToolDefinition
	budget int
}

// New builds a Runner over a client, a model, the tool registry, and the
// input token budget used to window long conversations.
func New(client *anthropic.Client, model anthropic.Model, toolDefs []tools.ToolDefinition, budget int) *Runner {
	return &Runner{client: client, model: model, tools: toolDefs, budget: budget}
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// RunTurn appends the user message to conv and drives the loop until the
// model answers without tool calls. It returns the grown conversation and
// the final response's text, which may be empty when the model produced no
// text content.
func (r *Runner) RunTurn(ctx context.Context, conv []anthropic.MessageParam, user string) ([]anthropic.MessageParam, string, error) {
	return r.runTurn(ctx, conv, user, nil)
}

func (r *Runner) runTurn(ctx context.Context, conv []anthropic.MessageParam, user string, emit func(string) error) ([]anthropic.MessageParam, string, error) {
	conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(user)))

	ctx, _ = telemetry.EnsureTurnID(ctx)

	var (
		state   = StateAwaitingModel
		lastMsg *anthropic.Message
		final   string
	)
	for state != StateDone {
		switch state {
		case StateAwaitingModel:
			msg, err := r.consult(ctx, conv, emit)
			if err != nil {
				return conv, "", err
			}
			conv = append(conv, msg.ToParam())
			lastMsg = msg
			if hasToolUse(msg) {
				state = StateExecutingTools
			} else {
				final = textOf(msg)
				state = StateDone
			}

		case StateExecutingTools:
			results := make([]anthropic.ContentBlockParamUnion, 0, len(lastMsg.Content))
			for _, block := range lastMsg.Content {
				tu, ok := block.AsAny().(anthropic.ToolUseBlock)
				if !ok {
					continue
				}
				res, err := r.execTool(ctx, tu.ID, tu.Name, json.RawMessage(tu.JSON.Input.Raw()))
				if err != nil {
					return conv, "", err
				}
				results = append(results, res)
			}
			// Tool results go back as a user message, adjacent to the
			// assistant tool_use message.
			conv = append(conv, anthropic.NewUserMessage(results...))
			state = StateAwaitingModel
		}
	}
	return conv, final, nil
}

// consult prepares the send window and asks the model once.
func (r *Runner) consult(ctx context.Context, conv []anthropic.MessageParam, emit func(string) error) (*anthropic.Message, error) {
	window, stats := windowing.Prepare(conv, r.budget, windowing.RuneEstimator{})

	turnID, _ := telemetry.TurnIDFromContext(ctx)
	telemetry.Emit("window_prepared", map[string]any{
		"turn_id":            turnID,
		"model":              string(r.model),
		"budget":             stats.Budget,
		"total_estimated":    stats.Total,
		"included_groups":    stats.Included,
		"skipped_groups":     stats.Skipped,
		"over_budget_newest": stats.OverBudgetNewest,
	})

	// The newest group always holds the message we are answering; if it does
	// not fit, the budget is misconfigured and retrying cannot help.
	if stats.OverBudgetNewest {
		return nil, fmt.Errorf("windowing: newest group exceeds the token budget; raise NEWS_TOKEN_BUDGET or tighten tool output caps")
	}

	params := anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: int64(maxResponseTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:  window,
		Tools:     r.anthropicTools(),
	}
	if emit == nil {
		return r.client.Messages.New(ctx, params)
	}
	return r.consultStream(ctx, params, emit)
}

// execTool runs one requested tool and wraps its outcome as a tool_result
// block. Tool-local failures become error-flagged content for the model to
// react to; repository failures terminate the turn.
func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) (anthropic.ContentBlockParamUnion, error) {
	var def *tools.ToolDefinition
	for i := range r.tools {
		if r.tools[i].Name == name {
			def = &r.tools[i]
			break
		}
	}

	turnID, _ := telemetry.TurnIDFromContext(ctx)
	emitExec := func(durationMs int64, inputSize, outputSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": durationMs,
			"input_size":  inputSize,
			"output_size": outputSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()
	inSize := len(input)

	if def == nil {
		emitExec(time.Since(start).Milliseconds(), inSize, 0, "tool not found")
		return anthropic.NewToolResultBlock(id, "tool not found", true), nil
	}

	resp, err := def.Function(ctx, input)
	if err != nil {
		var storageErr *tools.StorageError
		if errors.As(err, &storageErr) {
			emitExec(time.Since(start).Milliseconds(), inSize, 0, "storage error")
			return anthropic.ContentBlockParamUnion{}, fmt.Errorf("tool %s: %w", name, err)
		}
		// Emit a generic error string to avoid leaking raw payloads in
		// telemetry; the detailed message still reaches the model.
		emitExec(time.Since(start).Milliseconds(), inSize, 0, "tool error")
		return anthropic.NewToolResultBlock(id, err.Error(), true), nil
	}
	emitExec(time.Since(start).Milliseconds(), inSize, len(resp), "")
	return anthropic.NewToolResultBlock(id, resp, false), nil
}

func hasToolUse(msg *anthropic.Message) bool {
	for _, block := range msg.Content {
		if _, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			return true
		}
	}
	return false
}

// textOf concatenates the text blocks of a message in order, joined with
// newlines.
func textOf(msg *anthropic.Message) string {
	out := ""
	for _, block := range msg.Content {
		tb, ok := block.AsAny().(anthropic.TextBlock)
		if !ok || tb.Text == "" {
			continue
		}
		if out == "" {
			out = tb.Text
		} else {
			out += "\n" + tb.Text
		}
	}
	return out
}
