// Package searchweb talks to the Tavily search API: free-text query in,
// synthesized answer plus source list out.
package searchweb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const defaultEndpoint = "https://api.tavily.com/search"

// maxResults caps how many sources one query requests upstream.
const maxResults = 8

// SourceRef is one search source as returned upstream. All fields may be
// empty; downstream consumers decide what an unusable source is.
type SourceRef struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Date    string `json:"date,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Result is the answer text plus the ordered source list for one query.
type Result struct {
	Answer  string
	Sources []SourceRef
}

type Client struct {
	apiKey   string
	endpoint string
	httpc    *http.Client
}

// Option mutates a Client at construction time.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (used by tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithEndpoint overrides the API endpoint (used by tests).
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs one query and returns the answer plus sources. A non-2xx
// status is an error carrying the response body; it is never a silent
// empty result.
func (c *Client) Search(ctx context.Context, query string) (*Result, error) {
	reqBody := map[string]any{
		"api_key":        c.apiKey,
		"query":          query,
		"search_depth":   "basic",
		"include_answer": true,
		"max_results":    maxResults,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tavily: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tavily search error (%d): %s", resp.StatusCode, string(body))
	}

	parsed := gjson.ParseBytes(body)
	out := &Result{Answer: parsed.Get("answer").String()}
	parsed.Get("results").ForEach(func(_, r gjson.Result) bool {
		out.Sources = append(out.Sources, SourceRef{
			Title:   r.Get("title").String(),
			URL:     r.Get("url").String(),
			Date:    r.Get("published_date").String(),
			Snippet: r.Get("content").String(),
		})
		return true
	})
	return out, nil
}
