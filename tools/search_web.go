package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/petasbytes/news-agent/internal/searchweb"
	"github.com/petasbytes/news-agent/internal/telemetry"
)

type SearchWebInput struct {
	Query string `json:"query" jsonschema_description:"Free-text search query for fresh external information."`
}

// maxRenderedSources caps how many sources appear in the tool result.
const maxRenderedSources = 5

var SearchWebInputSchema = GenerateSchema[SearchWebInput]()

func (tb *Toolbox) searchWebDefinition() ToolDefinition {
	return ToolDefinition{
		Name: "search_web",
		Description: `Search the web for fresh information. Returns an answer, up to 5 sources, and a handle referencing the cached result.

Nothing is written to the database by this tool. To persist results, ask the user to confirm and then call save_to_db with the returned handle.`,
		InputSchema: SearchWebInputSchema,
		RawSchema:   GenerateRawSchema[SearchWebInput](),
		Function:    tb.SearchWeb,
	}
}

// SearchWeb queries the external search capability, caches the result under
// a fresh handle, and renders answer + sources for the model. Never touches
// the repository.
func (tb *Toolbox) SearchWeb(ctx context.Context, input json.RawMessage) (string, error) {
	var in SearchWebInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Query) == "" {
		return "", fmt.Errorf("query must not be empty")
	}

	res, err := tb.search.Search(ctx, in.Query)
	if err != nil {
		return "", fmt.Errorf("web search failed: %w", err)
	}
	telemetry.EmitTextFeatures(ctx, "search_answer", "answer", res.Answer)

	handle := tb.cache.Put(in.Query, res.Answer, res.Sources)

	var b strings.Builder
	fmt.Fprintf(&b, "Answer:\n%s\n", res.Answer)
	if len(res.Sources) > 0 {
		b.WriteString("\nSources:\n")
		for i, s := range res.Sources {
			if i == maxRenderedSources {
				break
			}
			b.WriteString(renderSource(i+1, s))
		}
	}
	fmt.Fprintf(&b, "\nhandle: %s\n", handle)
	b.WriteString("Note: nothing has been saved to the database. After the user confirms, call save_to_db with this handle to persist the sources.\n")
	return b.String(), nil
}

func renderSource(n int, s searchweb.SourceRef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %d. %s", n, orUntitled(s.Title))
	if s.URL != "" {
		fmt.Fprintf(&b, " — %s", s.URL)
	}
	if s.Date != "" {
		fmt.Fprintf(&b, " (%s)", s.Date)
	}
	b.WriteString("\n")
	if s.Snippet != "" {
		fmt.Fprintf(&b, "     %s\n", clampRunes(s.Snippet, 200))
	}
	return b.String()
}

func orUntitled(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// clampRunes clamps a string to at most n runes.
func clampRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
