// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DiscordToken  string
	DatabasePath  string
	LogLevel      string
	FetchInterval time.Duration
	FeedURLs      []string
	MLHSeason     string
}

// Load reads configuration from environment variables, after loading a
// .env file if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/hackradar.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	interval := 12 * time.Hour
	if raw := os.Getenv("FETCH_INTERVAL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours < 1 {
			return nil, fmt.Errorf("invalid FETCH_INTERVAL_HOURS %q", raw)
		}
		interval = time.Duration(hours) * time.Hour
	}

	var feedURLs []string
	if raw := os.Getenv("FEED_URLS"); raw != "" {
		for _, u := range strings.Split(raw, ",") {
			u = strings.TrimSpace(u)
			if u == "" {
				continue
			}
			feedURLs = append(feedURLs, u)
		}
	}

	season := os.Getenv("MLH_SEASON")
	if season == "" {
		season = defaultSeason(time.Now())
	}

	return &Config{
		DiscordToken:  token,
		DatabasePath:  dbPath,
		LogLevel:      logLevel,
		FetchInterval: interval,
		FeedURLs:      feedURLs,
		MLHSeason:     season,
	}, nil
}

// defaultSeason picks the MLH season year: seasons are named after the
// following calendar year starting each August.
func defaultSeason(now time.Time) string {
	year := now.Year()
	if now.Month() >= time.August {
		year++
	}
	return strconv.Itoa(year)
}
