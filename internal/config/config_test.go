package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ARENA_BASE_URL", "http://localhost:8080")
	t.Setenv("ARENA_WS_URL", "ws://localhost:8080/ws")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StatsMinInterval != 100*time.Millisecond {
		t.Fatalf("default stats interval wrong: %v", cfg.StatsMinInterval)
	}
	if cfg.WSMaxReconnects != 5 || cfg.WSReconnectDelay != time.Second {
		t.Fatalf("ws defaults wrong: %d %v", cfg.WSMaxReconnects, cfg.WSReconnectDelay)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ARENA_BASE_URL", "http://localhost:8080")
	t.Setenv("ARENA_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STATS_MIN_INTERVAL_MS", "250")
	t.Setenv("WS_MAX_RECONNECTS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StatsMinInterval != 250*time.Millisecond {
		t.Fatalf("interval override ignored: %v", cfg.StatsMinInterval)
	}
	if cfg.WSMaxReconnects != 0 {
		t.Fatalf("reconnect override ignored: %d", cfg.WSMaxReconnects)
	}
	if cfg.RedisURL == "" {
		t.Fatalf("redis url dropped")
	}
}

func TestLoadRequiresEndpoints(t *testing.T) {
	t.Setenv("ARENA_BASE_URL", "")
	t.Setenv("ARENA_WS_URL", "")
	t.Setenv("ARENA_REDIS_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without ARENA_BASE_URL")
	}

	t.Setenv("ARENA_BASE_URL", "http://localhost:8080")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without any feed endpoint")
	}
}
