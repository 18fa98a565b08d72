package tools_test

import (
	"testing"
	"time"

	"github.com/petasbytes/news-agent/internal/cache"
)

func TestRegistry_ToolCount(t *testing.T) {
	tb := newToolbox(t, &fakeSearch{})
	defs := tb.Registry()
	wantCount := 6 // get_time, search_web, save_to_db, get_from_db, get_all_from_db, get_by_id
	if len(defs) != wantCount {
		t.Fatalf("unexpected number of tools: got %d want %d", len(defs), wantCount)
	}
}

func TestRegistry_ToolNames(t *testing.T) {
	tb := newToolbox(t, &fakeSearch{})
	defs := tb.Registry()
	want := map[string]struct{}{
		"get_time":        {},
		"search_web":      {},
		"save_to_db":      {},
		"get_from_db":     {},
		"get_all_from_db": {},
		"get_by_id":       {},
	}

	// Unexpected names detected
	for _, d := range defs {
		if _, ok := want[d.Name]; !ok {
			t.Fatalf("unexpected tool in registry: %q", d.Name)
		}
	}

	// Missing expected names
	got := map[string]struct{}{}
	for _, d := range defs {
		got[d.Name] = struct{}{}
	}
	for name := range want {
		if _, ok := got[name]; !ok {
			t.Errorf("missing expected tool: %q", name)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
}

func TestRegistry_SchemasPresent(t *testing.T) {
	tb := newToolbox(t, &fakeSearch{})
	for _, d := range tb.Registry() {
		if d.Function == nil {
			t.Fatalf("%s: nil handler", d.Name)
		}
		if len(d.RawSchema) == 0 {
			t.Fatalf("%s: empty raw schema", d.Name)
		}
	}
}

func TestCacheSharedAcrossTools(t *testing.T) {
	// The registry closes over one cache; a handle issued by search_web must
	// be visible to save_to_db through the same Toolbox.
	c := cache.New(30*time.Minute, 10)
	h := c.Put("q", "a", nil)
	if _, ok := c.Get(h); !ok {
		t.Fatal("freshly put handle not visible")
	}
}
