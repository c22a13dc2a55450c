// Command fetch runs a single ingestion cycle and prints the newly
// discovered hackathons, without connecting to Discord.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"hackradar/internal/adapter"
	"hackradar/internal/ingest"
	"hackradar/internal/storage"
)

func main() {
	dbPath := flag.String("db", envOrDefault("DATABASE_PATH", "./data/hackradar.db"), "path to sqlite database")
	season := flag.String("season", envOrDefault("MLH_SEASON", "2026"), "MLH season year")
	feeds := flag.String("feeds", os.Getenv("FEED_URLS"), "comma-separated RSS feed URLs")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall fetch timeout")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.NewSQLite(*dbPath)
	if err != nil {
		log.Error("open database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	adapters := []adapter.Adapter{
		adapter.NewDevpost(http.DefaultClient, log),
		adapter.NewDevfolio(http.DefaultClient, log),
		adapter.NewMLH(http.DefaultClient, *season, log),
	}
	if urls := splitList(*feeds); len(urls) > 0 {
		adapters = append(adapters, adapter.NewFeeds(http.DefaultClient, urls, log))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	created, err := ingest.New(store, log, adapters...).Run(ctx)
	if err != nil {
		log.Error("ingestion cycle failed", "error", err)
		os.Exit(1)
	}

	for _, h := range created {
		fmt.Printf("%s  %s - %s  [%s] %s\n",
			h.Title, h.StartDate.Format("2006-01-02"), h.EndDate.Format("2006-01-02"),
			h.Source, h.URL)
	}
	fmt.Printf("%d new hackathon(s)\n", len(created))
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
