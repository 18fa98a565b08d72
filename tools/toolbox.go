package tools

import (
	"context"
	"time"

	"github.com/petasbytes/news-agent/internal/cache"
	"github.com/petasbytes/news-agent/internal/searchweb"
	"github.com/petasbytes/news-agent/internal/store"
)

// SearchClient is the external search capability as the tools see it.
type SearchClient interface {
	Search(ctx context.Context, query string) (*searchweb.Result, error)
}

// Toolbox binds the tool set to its collaborators: the result cache, the
// repository, and the search capability.
type Toolbox struct {
	cache         *cache.Cache
	store         *store.Store
	search        SearchClient
	summaryMaxLen int
	now           func() time.Time
}

func New(c *cache.Cache, s *store.Store, search SearchClient, summaryMaxLen int) *Toolbox {
	return &Toolbox{
		cache:         c,
		store:         s,
		search:        search,
		summaryMaxLen: summaryMaxLen,
		now:           time.Now,
	}
}

// Registry returns all tool definitions wired for the agent.
func (tb *Toolbox) Registry() []ToolDefinition {
	return []ToolDefinition{
		tb.getTimeDefinition(),
		tb.searchWebDefinition(),
		tb.saveToDBDefinition(),
		tb.getFromDBDefinition(),
		tb.getAllFromDBDefinition(),
		tb.getByIDDefinition(),
	}
}
