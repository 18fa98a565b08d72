package runner

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
)

// TurnResult is the terminal outcome of one streamed turn.
type TurnResult struct {
	Conv []anthropic.MessageParam
	// Final is the text of the model's last response. Empty means the model
	// answered with no assistant text, which callers should report
	// distinctly from an answer.
	Final string
	Err   error
}

// StreamTurn runs one turn like RunTurn, but delivers assistant text
// fragments on the first channel as they arrive from the model. Fragments
// are attributable to the model's own responses only; tool results are never
// streamed. The fragment channel closes when the turn finishes, after which
// the result channel yields exactly one TurnResult. Cancelling ctx stops
// fragment production promptly; the conversation returned in TurnResult is
// whatever had been durably appended before cancellation.
func (r *Runner) StreamTurn(ctx context.Context, conv []anthropic.MessageParam, user string) (<-chan string, <-chan TurnResult) {
	frags := make(chan string)
	done := make(chan TurnResult, 1)

	go func() {
		defer close(frags)
		emit := func(s string) error {
			select {
			case frags <- s:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		newConv, final, err := r.runTurn(ctx, conv, user, emit)
		done <- TurnResult{Conv: newConv, Final: final, Err: err}
	}()
	return frags, done
}

// consultStream is the streaming variant of the model consultation:
// accumulate the full message while forwarding text deltas to emit.
func (r *Runner) consultStream(ctx context.Context, params anthropic.MessageNewParams, emit func(string) error) (*anthropic.Message, error) {
	stream := r.client.Messages.NewStreaming(ctx, params)
	msg := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := msg.Accumulate(event); err != nil {
			return nil, err
		}
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if delta.Text == "" {
					continue
				}
				if err := emit(delta.Text); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return &msg, nil
}
