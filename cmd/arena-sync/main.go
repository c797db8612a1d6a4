package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/park285/arena-sync/internal/config"
	"github.com/park285/arena-sync/internal/feed"
	"github.com/park285/arena-sync/internal/livestate"
	"github.com/park285/arena-sync/internal/matchcfg"
	"github.com/park285/arena-sync/internal/obslog"
	"github.com/park285/arena-sync/internal/roster"
)

func main() {
	startRun := flag.Bool("start", false, "start a new match run from the configured tournament file")
	stopOnExit := flag.Bool("stop-on-exit", false, "stop the backend run when this tool shuts down")
	flag.Parse()

	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	var mc *matchcfg.Config
	if cfg.MatchConfigPath != "" {
		mc, err = matchcfg.LoadFile(cfg.MatchConfigPath)
		if err != nil {
			log.Fatalf("match config error: %v", err)
		}
	} else if *startRun {
		log.Fatalf("MATCH_CONFIG_PATH is required with -start")
	}

	f, cleanup, err := buildFeed(cfg)
	if err != nil {
		log.Fatalf("feed init error: %v", err)
	}
	defer cleanup()

	core := livestate.NewCore(f, roster.FromMatchConfig(mc), cfg.StatsMinInterval)
	if err := core.Start(); err != nil {
		log.Fatalf("core start error: %v", err)
	}
	defer func() { _ = core.Close() }()

	control := feed.NewControlClient(cfg.ArenaBaseURL)
	if *startRun {
		core.ResetRun()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := control.StartMatch(ctx, mc)
		cancel()
		if err != nil {
			log.Fatalf("start match error: %v", err)
		}
		core.SetMatchRunning(true)
		obslog.L().Info("match_started",
			zap.String("mode", string(mc.Mode)),
			zap.Int("games", mc.GamesCount),
			zap.Int("engines", len(mc.Engines)),
		)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if *stopOnExit {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := control.StopMatch(ctx); err != nil {
			obslog.L().Warn("stop_match", zap.Error(err))
		}
		cancel()
		core.SetMatchRunning(false)
	}
}

// buildFeed picks the transport: Redis pub/sub when ARENA_REDIS_URL is
// set, websocket otherwise.
func buildFeed(cfg *appcfg.AppConfig) (feed.Feed, func(), error) {
	if cfg.RedisURL != "" {
		rf, err := feed.NewRedisFeed(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rf, func() { _ = rf.Close(context.Background()) }, nil
	}

	ws := feed.NewWSFeed(cfg.ArenaWSURL, cfg.WSMaxReconnects, cfg.WSReconnectDelay)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ws.Connect(ctx); err != nil {
		return nil, nil, err
	}
	return ws, func() { _ = ws.Close(context.Background()) }, nil
}
