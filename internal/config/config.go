package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries all runtime settings for the news agent. Values come from
// the environment with sensible defaults; required credentials are validated
// at load time so a misconfigured process fails before serving anything.
type Config struct {
	Model string

	DBPath     string
	ThreadsDir string

	CacheTTL      time.Duration
	CacheCapacity int

	SummaryMaxLen int
	TokenBudget   int

	TavilyAPIKey string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

// Load reads all env vars and builds the config.
//
// ANTHROPIC_API_KEY is read directly by the SDK; it is checked here only so
// the failure is reported at startup rather than on the first model call.
func Load() (*Config, error) {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY must be set")
	}
	tavilyKey := os.Getenv("TAVILY_API_KEY")
	if tavilyKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY must be set")
	}

	ttlMinutes, err := getIntEnv("NEWS_CACHE_TTL_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	capacity, err := getIntEnv("NEWS_CACHE_CAPACITY", 200)
	if err != nil {
		return nil, err
	}
	summaryMax, err := getIntEnv("NEWS_SUMMARY_MAX_LEN", 500)
	if err != nil {
		return nil, err
	}
	budget, err := getIntEnv("NEWS_TOKEN_BUDGET", 16000)
	if err != nil {
		return nil, err
	}
	if ttlMinutes <= 0 || capacity <= 0 || summaryMax <= 0 || budget <= 0 {
		return nil, fmt.Errorf("cache/summary/budget settings must be positive")
	}

	return &Config{
		Model:         getEnv("NEWS_MODEL", ""),
		DBPath:        getEnv("NEWS_DB_PATH", "news.db"),
		ThreadsDir:    getEnv("NEWS_THREADS_DIR", ".news-agent/threads"),
		CacheTTL:      time.Duration(ttlMinutes) * time.Minute,
		CacheCapacity: capacity,
		SummaryMaxLen: summaryMax,
		TokenBudget:   budget,
		TavilyAPIKey:  tavilyKey,
	}, nil
}
