// Package windowing prepares the slice of a conversation that is sent to the
// model: newest messages first, bounded by a token budget, and never
// splitting an assistant tool_use from the user tool_result that answers it.
package windowing

import (
	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/news-agent/internal/textstat"
)

// Estimator estimates the input-token cost of one message.
type Estimator interface {
	Count(m anthropic.MessageParam) int
}

// Stats summarizes one window preparation.
type Stats struct {
	Total            int // estimated tokens for included messages
	Budget           int
	Included         int // groups included
	Skipped          int // groups left out
	OverBudgetNewest bool
}

// span is a contiguous half-open range [start, end) of messages that must be
// included or excluded as a unit.
type span struct {
	start, end int
}

// Prepare returns the newest suffix of msgs that fits within budget without
// splitting a tool_use/tool_result pair. When the newest group alone
// exceeds the budget, the window is empty and OverBudgetNewest is set.
func Prepare(msgs []anthropic.MessageParam, budget int, est Estimator) ([]anthropic.MessageParam, Stats) {
	if len(msgs) == 0 {
		return nil, Stats{Budget: budget}
	}

	spans := groupSpans(msgs)
	if budget <= 0 {
		return nil, Stats{Budget: budget, Skipped: len(spans), OverBudgetNewest: true}
	}

	total := 0
	included := 0
	start := len(msgs)
	for gi := len(spans) - 1; gi >= 0; gi-- {
		cost := 0
		for i := spans[gi].start; i < spans[gi].end; i++ {
			cost += est.Count(msgs[i])
		}
		if included == 0 && cost > budget {
			return nil, Stats{Budget: budget, Skipped: len(spans), OverBudgetNewest: true}
		}
		if total+cost > budget {
			break
		}
		total += cost
		included++
		start = spans[gi].start
	}
	if included == 0 {
		return nil, Stats{Budget: budget, Skipped: len(spans)}
	}
	return msgs[start:], Stats{
		Total:    total,
		Budget:   budget,
		Included: included,
		Skipped:  len(spans) - included,
	}
}

// groupSpans splits msgs into atomic units: validated tool pairs of two
// adjacent messages, and singletons for everything else.
func groupSpans(msgs []anthropic.MessageParam) []span {
	spans := make([]span, 0, len(msgs))
	for i := 0; i < len(msgs); {
		if isToolPair(msgs, i) {
			spans = append(spans, span{i, i + 2})
			i += 2
			continue
		}
		spans = append(spans, span{i, i + 1})
		i++
	}
	return spans
}

// isToolPair reports whether msgs[i] and msgs[i+1] form a complete pair:
// an assistant message with tool_use blocks followed by a user message whose
// leading tool_result blocks answer exactly those ids (no missing, no extra,
// no tool_result after other content).
func isToolPair(msgs []anthropic.MessageParam, i int) bool {
	if i+1 >= len(msgs) {
		return false
	}
	a, u := msgs[i], msgs[i+1]
	if a.Role != anthropic.MessageParamRoleAssistant || u.Role != anthropic.MessageParamRoleUser {
		return false
	}

	uses := make(map[string]struct{})
	for _, blk := range a.Content {
		if tu := blk.OfToolUse; tu != nil && tu.ID != "" {
			uses[tu.ID] = struct{}{}
		}
	}
	if len(uses) == 0 {
		return false
	}

	results := make(map[string]struct{})
	seenNonResult := false
	for _, blk := range u.Content {
		if tr := blk.OfToolResult; tr != nil {
			if seenNonResult {
				return false
			}
			if tr.ToolUseID != "" {
				results[tr.ToolUseID] = struct{}{}
			}
			continue
		}
		seenNonResult = true
	}

	if len(results) != len(uses) {
		return false
	}
	for id := range uses {
		if _, ok := results[id]; !ok {
			return false
		}
	}
	return true
}

// RuneEstimator is the default deterministic estimator: rune counts of text
// content plus a small per-block overhead for formatting.
type RuneEstimator struct{}

// blockOverhead is the fixed per-block cost; changing it requires updating
// the guard tests.
const blockOverhead = 4

func (RuneEstimator) Count(m anthropic.MessageParam) int {
	total := 0
	for _, blk := range m.Content {
		total += countBlock(blk)
	}
	return total
}

func countBlock(blk anthropic.ContentBlockParamUnion) int {
	if tb := blk.OfText; tb != nil {
		return textstat.Count(tb.Text).Runes + blockOverhead
	}
	if tr := blk.OfToolResult; tr != nil {
		n := blockOverhead
		for _, nb := range tr.Content {
			if nt := nb.OfText; nt != nil {
				n += textstat.Count(nt.Text).Runes
			}
		}
		return n
	}
	// tool_use, thinking, images: overhead only in this minimal estimator.
	return blockOverhead
}
