package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/petasbytes/news-agent/internal/searchweb"
)

func fixedClock(t0 time.Time) func() time.Time {
	return func() time.Time { return t0 }
}

func TestGet_UnknownHandleAbsent(t *testing.T) {
	assert := assert.New(t)
	c := New(30*time.Minute, 200)

	_, ok := c.Get("never-issued")
	assert.False(ok)
}

func TestPutGet_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	c := New(30*time.Minute, 200)

	srcs := []searchweb.SourceRef{
		{Title: "A", URL: "https://a.example/x", Date: "2025-08-01", Snippet: "alpha"},
		{Title: "B", URL: "https://b.example/y"},
	}
	h := c.Put("AAPL earnings", "record quarter", srcs)
	assert.NotEmpty(h)

	got, ok := c.Get(h)
	assert.True(ok)
	assert.Equal("AAPL earnings", got.Query)
	assert.Equal("record quarter", got.Answer)
	assert.Equal(srcs, got.Sources)
	assert.Equal(h, got.Handle)
}

func TestPut_HandlesAreUnique(t *testing.T) {
	assert := assert.New(t)
	c := New(30*time.Minute, 200)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		h := c.Put("q", "a", nil)
		assert.False(seen[h], "handle reused: %s", h)
		seen[h] = true
	}
}

func TestGet_LazyExpiry(t *testing.T) {
	assert := assert.New(t)
	t0 := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	c := New(30*time.Minute, 200)
	c.now = fixedClock(t0)

	h := c.Put("q", "a", nil)

	// Still fresh at exactly the TTL boundary.
	c.now = fixedClock(t0.Add(30 * time.Minute))
	_, ok := c.Get(h)
	assert.True(ok)

	// One tick past the TTL the entry is absent and physically dropped.
	c.now = fixedClock(t0.Add(30*time.Minute + time.Nanosecond))
	_, ok = c.Get(h)
	assert.False(ok)
	assert.Equal(0, c.Len())

	// A later cleanup must not resurrect it.
	c.Cleanup(t0.Add(time.Hour))
	_, ok = c.Get(h)
	assert.False(ok)
}

func TestCleanup_TTLBeforeCapacity(t *testing.T) {
	assert := assert.New(t)
	t0 := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	c := New(30*time.Minute, 3)
	c.now = fixedClock(t0)

	// Two old entries that will expire, three fresh ones.
	old1 := c.Put("old1", "a", nil)
	old2 := c.Put("old2", "a", nil)
	c.now = fixedClock(t0.Add(29 * time.Minute))
	fresh := []string{
		c.Put("f1", "a", nil),
		c.Put("f2", "a", nil),
		c.Put("f3", "a", nil),
	}

	c.Cleanup(t0.Add(31 * time.Minute))

	_, ok := c.Get(old1)
	assert.False(ok)
	_, ok = c.Get(old2)
	assert.False(ok)
	for _, h := range fresh {
		_, ok := c.Get(h)
		assert.True(ok, "fresh entry evicted: %s", h)
	}
	assert.Equal(3, c.Len())
}

func TestCleanup_TrimsOldestFirst(t *testing.T) {
	assert := assert.New(t)
	t0 := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	c := New(time.Hour, 2)

	var handles []string
	for i := 0; i < 4; i++ {
		c.now = fixedClock(t0.Add(time.Duration(i) * time.Minute))
		handles = append(handles, c.Put(fmt.Sprintf("q%d", i), "a", nil))
	}
	// Put triggers cleanup, so the two oldest are already gone.
	assert.Equal(2, c.Len())

	_, ok := c.Get(handles[0])
	assert.False(ok)
	_, ok = c.Get(handles[1])
	assert.False(ok)
	_, ok = c.Get(handles[2])
	assert.True(ok)
	_, ok = c.Get(handles[3])
	assert.True(ok)
}

func TestCleanup_NeverExceedsCapacity(t *testing.T) {
	assert := assert.New(t)
	c := New(time.Hour, 5)
	for i := 0; i < 20; i++ {
		c.Put("q", "a", nil)
	}
	c.Cleanup(time.Now())
	assert.LessOrEqual(c.Len(), 5)
}
