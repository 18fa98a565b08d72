// Command newsmcp exposes the news tools over the Model Context Protocol
// on stdio, so MCP-capable clients can use them without the built-in agent
// loop. Logs go to stderr; stdout carries the protocol stream.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/petasbytes/news-agent/internal/cache"
	"github.com/petasbytes/news-agent/internal/config"
	"github.com/petasbytes/news-agent/internal/observability"
	"github.com/petasbytes/news-agent/internal/searchweb"
	"github.com/petasbytes/news-agent/internal/store"
	"github.com/petasbytes/news-agent/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	tb := tools.New(
		cache.New(cfg.CacheTTL, cfg.CacheCapacity),
		st,
		searchweb.NewClient(cfg.TavilyAPIKey),
		cfg.SummaryMaxLen,
	)

	s := server.NewMCPServer(
		"news-agent",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	for _, def := range tb.Registry() {
		s.AddTool(
			mcp.NewToolWithRawSchema(def.Name, def.Description, def.RawSchema),
			handlerFor(def),
		)
	}

	log.Info("serving MCP on stdio", "tools", len(tb.Registry()))
	if err := server.ServeStdio(s); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// handlerFor bridges one tool definition into an MCP handler. Tool-local
// failures become error results the client can show; only argument
// marshaling problems surface as protocol errors.
func handlerFor(def tools.ToolDefinition) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = observability.WithRequestID(ctx, uuid.NewString())
		log := observability.LoggerFromContext(ctx)

		args, err := json.Marshal(req.GetArguments())
		if err != nil {
			return nil, fmt.Errorf("marshal arguments for %s: %w", def.Name, err)
		}
		out, err := def.Function(ctx, args)
		if err != nil {
			log.Warn("tool call failed", "tool", def.Name, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		log.Info("tool call", "tool", def.Name, "output_bytes", len(out))
		return mcp.NewToolResultText(out), nil
	}
}
