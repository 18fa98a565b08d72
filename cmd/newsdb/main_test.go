package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petasbytes/news-agent/internal/store"
)

func seedRows(t *testing.T, topic string, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "news.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	rows := make([]store.NewsRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, store.NewsRow{
			Topic:   topic,
			Source:  "example.com",
			Title:   "Title",
			URL:     "https://example.com/a",
			Summary: "Summary",
		})
	}
	if _, err := s.InsertMany(context.Background(), rows); err != nil {
		t.Fatalf("seed rows: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func countRows(out string) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "[") {
			n++
		}
	}
	return n
}

func TestLimitDefaults_PerCommand(t *testing.T) {
	// The registered default and the bound variable must agree for each
	// subcommand; a shared variable would let the last registration win.
	if def := listCmd.Flags().Lookup("limit").DefValue; def != "100" {
		t.Fatalf("list --limit default = %s, want 100", def)
	}
	if def := topicCmd.Flags().Lookup("limit").DefValue; def != "10" {
		t.Fatalf("topic --limit default = %s, want 10", def)
	}
	if listLimit != 100 {
		t.Fatalf("listLimit = %d after init, want 100", listLimit)
	}
	if topicLimit != 10 {
		t.Fatalf("topicLimit = %d after init, want 10", topicLimit)
	}
}

func TestList_DefaultLimitExceedsTen(t *testing.T) {
	path := seedRows(t, "go", 12)

	out := run(t, "list", "--db", path)
	if got := countRows(out); got != 12 {
		t.Fatalf("list printed %d rows, want all 12:\n%s", got, out)
	}
}

func TestTopic_DefaultLimitIsTen(t *testing.T) {
	path := seedRows(t, "go", 12)

	out := run(t, "topic", "go", "--db", path)
	if got := countRows(out); got != 10 {
		t.Fatalf("topic printed %d rows, want 10:\n%s", got, out)
	}
}
