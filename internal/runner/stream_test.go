package runner_test

import (
	"context"
	"strings"
	"testing"

	"github.com/petasbytes/news-agent/internal/provider"
	"github.com/petasbytes/news-agent/internal/runner"
)

func sseResponse(fragments ...string) scriptedResponse {
	var b strings.Builder
	b.WriteString("event: message_start\n")
	b.WriteString(`data: {"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","model":"test","content":[],"stop_reason":null,"usage":{"input_tokens":1,"output_tokens":1}}}`)
	b.WriteString("\n\n")
	b.WriteString("event: content_block_start\n")
	b.WriteString(`data: {"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`)
	b.WriteString("\n\n")
	for _, frag := range fragments {
		b.WriteString("event: content_block_delta\n")
		b.WriteString(`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"`)
		b.WriteString(frag)
		b.WriteString(`"}}`)
		b.WriteString("\n\n")
	}
	b.WriteString("event: content_block_stop\n")
	b.WriteString(`data: {"type":"content_block_stop","index":0}`)
	b.WriteString("\n\n")
	b.WriteString("event: message_delta\n")
	b.WriteString(`data: {"type":"message_delta","delta":{"stop_reason":"end_turn","stop_sequence":null},"usage":{"output_tokens":2}}`)
	b.WriteString("\n\n")
	b.WriteString("event: message_stop\n")
	b.WriteString(`data: {"type":"message_stop"}`)
	b.WriteString("\n\n")
	return scriptedResponse{status: 200, body: b.String(), contentType: "text/event-stream"}
}

func TestStreamTurn_ForwardsFragments(t *testing.T) {
	fake := &scriptedTransport{responses: []scriptedResponse{
		sseResponse("Hello", " world"),
	}}
	r := runner.New(newClientWithTransport(fake), provider.DefaultModel, nil, 1000)

	frags, done := r.StreamTurn(context.Background(), nil, "hello")

	var got []string
	for f := range frags {
		got = append(got, f)
	}
	res := <-done
	if res.Err != nil {
		t.Fatalf("unexpected err: %v", res.Err)
	}
	if strings.Join(got, "") != "Hello world" {
		t.Fatalf("fragments = %q", got)
	}
	if res.Final != "Hello world" {
		t.Fatalf("final = %q", res.Final)
	}
	if len(res.Conv) != 2 {
		t.Fatalf("conversation grew to %d messages, want 2", len(res.Conv))
	}
}

func TestStreamTurn_NoAssistantText_EmptyFinal(t *testing.T) {
	// Sole content block accumulates to empty text: no fragments surface,
	// and the empty Final is distinguishable from a streamed answer.
	fake := &scriptedTransport{responses: []scriptedResponse{sseResponse()}}
	r := runner.New(newClientWithTransport(fake), provider.DefaultModel, nil, 1000)

	frags, done := r.StreamTurn(context.Background(), nil, "hello")

	var got []string
	for f := range frags {
		got = append(got, f)
	}
	res := <-done
	if res.Err != nil {
		t.Fatalf("unexpected err: %v", res.Err)
	}
	if len(got) != 0 {
		t.Fatalf("fragments = %q, want none", got)
	}
	if res.Final != "" {
		t.Fatalf("final = %q, want empty", res.Final)
	}
	if len(res.Conv) != 2 {
		t.Fatalf("conversation grew to %d messages, want 2", len(res.Conv))
	}
}

func TestStreamTurn_OverBudgetReportsOnDone(t *testing.T) {
	fake := &scriptedTransport{responses: []scriptedResponse{sseResponse("unused")}}
	r := runner.New(newClientWithTransport(fake), provider.DefaultModel, nil, 1)

	frags, done := r.StreamTurn(context.Background(), nil, "hello there")
	for range frags {
	}
	res := <-done
	if res.Err == nil || !strings.Contains(res.Err.Error(), "token budget") {
		t.Fatalf("expected over-budget error, got %v", res.Err)
	}
	if len(fake.requests) != 0 {
		t.Fatalf("expected no HTTP call, got %d", len(fake.requests))
	}
}
