package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/petasbytes/news-agent/internal/store"
)

type GetFromDBInput struct {
	Topic string `json:"topic" jsonschema_description:"Exact topic to look up."`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum rows to return (default 10, max 50)."`
}

type GetAllFromDBInput struct {
	Limit int `json:"limit,omitempty" jsonschema_description:"Maximum rows to return (default 100, max 500)."`
}

type GetByIDInput struct {
	ID int64 `json:"id" jsonschema_description:"Row id as returned by save_to_db."`
}

const (
	defaultTopicLimit = 10
	maxTopicLimit     = 50
	defaultAllLimit   = 100
	maxAllLimit       = 500
)

var (
	GetFromDBInputSchema    = GenerateSchema[GetFromDBInput]()
	GetAllFromDBInputSchema = GenerateSchema[GetAllFromDBInput]()
	GetByIDInputSchema      = GenerateSchema[GetByIDInput]()
)

func (tb *Toolbox) getFromDBDefinition() ToolDefinition {
	return ToolDefinition{
		Name:        "get_from_db",
		Description: "Read previously saved news rows for an exact topic, newest first.",
		InputSchema: GetFromDBInputSchema,
		RawSchema:   GenerateRawSchema[GetFromDBInput](),
		Function:    tb.GetFromDB,
	}
}

func (tb *Toolbox) getAllFromDBDefinition() ToolDefinition {
	return ToolDefinition{
		Name:        "get_all_from_db",
		Description: "Read previously saved news rows across all topics, newest first.",
		InputSchema: GetAllFromDBInputSchema,
		RawSchema:   GenerateRawSchema[GetAllFromDBInput](),
		Function:    tb.GetAllFromDB,
	}
}

func (tb *Toolbox) getByIDDefinition() ToolDefinition {
	return ToolDefinition{
		Name:        "get_by_id",
		Description: "Read a single saved news row by its id.",
		InputSchema: GetByIDInputSchema,
		RawSchema:   GenerateRawSchema[GetByIDInput](),
		Function:    tb.GetByID,
	}
}

// GetFromDB lists saved rows for one topic. Zero rows is a normal outcome.
func (tb *Toolbox) GetFromDB(ctx context.Context, input json.RawMessage) (string, error) {
	var in GetFromDBInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Topic) == "" {
		return "", fmt.Errorf("topic must not be empty")
	}

	rows, err := tb.store.ListByTopic(ctx, in.Topic, clampLimit(in.Limit, defaultTopicLimit, maxTopicLimit))
	if err != nil {
		return "", &StorageError{Err: err}
	}
	if len(rows) == 0 {
		return fmt.Sprintf("No saved news found for topic %q.", in.Topic), nil
	}
	return renderRows(rows), nil
}

// GetAllFromDB lists saved rows across all topics.
func (tb *Toolbox) GetAllFromDB(ctx context.Context, input json.RawMessage) (string, error) {
	var in GetAllFromDBInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}

	rows, err := tb.store.ListAll(ctx, clampLimit(in.Limit, defaultAllLimit, maxAllLimit))
	if err != nil {
		return "", &StorageError{Err: err}
	}
	if len(rows) == 0 {
		return "The news database is empty.", nil
	}
	return renderRows(rows), nil
}

// GetByID fetches one saved row. A non-positive id is rejected before any
// storage access; an absent row is a normal outcome.
func (tb *Toolbox) GetByID(ctx context.Context, input json.RawMessage) (string, error) {
	var in GetByIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	if in.ID <= 0 {
		return "", fmt.Errorf("id must be a positive integer, got %d", in.ID)
	}

	row, err := tb.store.GetByID(ctx, in.ID)
	if err != nil {
		return "", &StorageError{Err: err}
	}
	if row == nil {
		return fmt.Sprintf("No saved news row with id %d.", in.ID), nil
	}
	return renderRow(*row), nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func renderRows(rows []store.NewsRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d row(s):\n", len(rows))
	for _, r := range rows {
		b.WriteString(renderRow(r))
	}
	return b.String()
}

func renderRow(r store.NewsRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s (topic: %s)\n", r.ID, orUntitled(r.Title), r.Topic)
	fmt.Fprintf(&b, "    source: %s\n", r.Source)
	fmt.Fprintf(&b, "    url: %s\n", r.URL)
	fmt.Fprintf(&b, "    saved: %s\n", r.CreatedAt.UTC().Format(time.RFC3339))
	if r.Summary != "" {
		fmt.Fprintf(&b, "    %s\n", r.Summary)
	}
	return b.String()
}
