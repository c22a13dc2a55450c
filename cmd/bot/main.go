package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"hackradar/internal/adapter"
	"hackradar/internal/bot"
	"hackradar/internal/config"
	"hackradar/internal/ingest"
	"hackradar/internal/notify"
	"hackradar/internal/scheduler"
	"hackradar/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	adapters := []adapter.Adapter{
		adapter.NewDevpost(http.DefaultClient, log),
		adapter.NewDevfolio(http.DefaultClient, log),
		adapter.NewMLH(http.DefaultClient, cfg.MLHSeason, log),
	}
	if len(cfg.FeedURLs) > 0 {
		adapters = append(adapters, adapter.NewFeeds(http.DefaultClient, cfg.FeedURLs, log))
	}

	ingestor := ingest.New(store, log, adapters...)

	b, err := bot.New(cfg.DiscordToken, store, ingestor, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	notifier := notify.New(store, b, log)
	sched := scheduler.New(ingestor, notifier, cfg.FetchInterval, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting bot")

	go sched.Run(ctx)

	if err := b.Run(ctx); err != nil {
		log.Error("run bot", "error", err)
		os.Exit(1)
	}

	log.Info("bot stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
