package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/petasbytes/news-agent/internal/store"
)

type SaveToDBInput struct {
	Handle string `json:"handle" jsonschema_description:"Handle returned by a previous search_web call."`
	Topic  string `json:"topic,omitempty" jsonschema_description:"Topic to file the results under. Defaults to the original search query."`
}

// maxSavedRows caps how many rows one save derives from a cached result.
const maxSavedRows = 5

var SaveToDBInputSchema = GenerateSchema[SaveToDBInput]()

func (tb *Toolbox) saveToDBDefinition() ToolDefinition {
	return ToolDefinition{
		Name: "save_to_db",
		Description: `Persist the sources of a previously returned search result into the news database.

Only call this after the user has explicitly confirmed the save. Requires the handle returned by search_web; if the handle has expired, run search_web again.`,
		InputSchema: SaveToDBInputSchema,
		RawSchema:   GenerateRawSchema[SaveToDBInput](),
		Function:    tb.SaveToDB,
	}
}

// SaveToDB looks up the handle in the result cache and writes up to
// maxSavedRows rows into the repository. An unknown or expired handle is a
// reportable outcome, not an error: the model is told to search again, and
// nothing is inserted.
func (tb *Toolbox) SaveToDB(ctx context.Context, input json.RawMessage) (string, error) {
	var in SaveToDBInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Handle) == "" {
		return "", fmt.Errorf("handle must not be empty")
	}

	cached, ok := tb.cache.Get(in.Handle)
	if !ok {
		return fmt.Sprintf("No cached search result for handle %q: it may have expired. Run search_web again and retry the save with the fresh handle. Nothing was saved.", in.Handle), nil
	}

	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		topic = cached.Query
	}

	var rows []store.NewsRow
	for _, s := range cached.Sources {
		if len(rows) == maxSavedRows {
			break
		}
		host, ok := parseHost(s.URL)
		if !ok {
			continue
		}
		rows = append(rows, store.NewsRow{
			Topic:   topic,
			Source:  host,
			Title:   s.Title,
			URL:     s.URL,
			Summary: clampRunes(s.Snippet, tb.summaryMaxLen),
		})
	}
	if len(rows) == 0 {
		return "The cached result has no sources with usable URLs; nothing was saved.", nil
	}

	ids, err := tb.store.InsertMany(ctx, rows)
	if err != nil && len(ids) == 0 {
		return "", &StorageError{Err: fmt.Errorf("saving rows: %w", err)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Saved %d row(s) under topic %q:\n", len(ids), topic)
	if err == nil {
		// Inserts are best-effort per row; ids align with rows only when
		// every row made it in.
		for i, id := range ids {
			fmt.Fprintf(&b, "  [%d] %s — %s\n      %s\n", id, orUntitled(rows[i].Title), rows[i].Source, rows[i].URL)
		}
	} else {
		for _, id := range ids {
			fmt.Fprintf(&b, "  [%d]\n", id)
		}
		fmt.Fprintf(&b, "Some rows could not be saved: %v\n", err)
	}
	return b.String(), nil
}

// parseHost reports the host of a usable absolute URL. Sources without one
// are skipped at save time.
func parseHost(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "", false
	}
	return u.Host, true
}
