package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig is the process configuration for the arena-sync tool, read
// from environment variables by Load.
type AppConfig struct {
	// ArenaBaseURL is the HTTP endpoint of the match backend (control
	// calls: start/stop/pause).
	ArenaBaseURL string
	// ArenaWSURL is the websocket endpoint pushing live match events.
	ArenaWSURL string
	// RedisURL, when set, selects the Redis pub/sub feed instead of the
	// websocket feed.
	RedisURL string

	// MatchConfigPath points at the YAML tournament configuration passed
	// to the backend on start.
	MatchConfigPath string

	WSMaxReconnects  int
	WSReconnectDelay time.Duration

	StatsMinInterval time.Duration
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		WSMaxReconnects:  5,
		WSReconnectDelay: time.Second,
		StatsMinInterval: 100 * time.Millisecond,
	}

	cfg.ArenaBaseURL = strings.TrimSpace(os.Getenv("ARENA_BASE_URL"))
	cfg.ArenaWSURL = strings.TrimSpace(os.Getenv("ARENA_WS_URL"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("ARENA_REDIS_URL"))
	cfg.MatchConfigPath = strings.TrimSpace(os.Getenv("MATCH_CONFIG_PATH"))

	if v := strings.TrimSpace(os.Getenv("WS_MAX_RECONNECTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.WSMaxReconnects = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("WS_RECONNECT_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WSReconnectDelay = time.Duration(n) * time.Millisecond
		}
	}
	if v := strings.TrimSpace(os.Getenv("STATS_MIN_INTERVAL_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StatsMinInterval = time.Duration(n) * time.Millisecond
		}
	}

	if cfg.ArenaBaseURL == "" {
		return nil, errors.New("ARENA_BASE_URL is required")
	}
	if cfg.ArenaWSURL == "" && cfg.RedisURL == "" {
		return nil, errors.New("one of ARENA_WS_URL or ARENA_REDIS_URL is required")
	}

	return cfg, nil
}
