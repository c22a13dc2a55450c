package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"hackradar/internal/dates"
	"hackradar/internal/model"
)

// Feeds consumes RSS or Atom feeds of hackathon announcements, for
// community aggregators that publish a feed instead of an API. Event dates
// are expected inside the item title or description.
type Feeds struct {
	client HTTPClient
	log    *slog.Logger
	urls   []string
	now    func() time.Time
}

// NewFeeds creates an adapter over the given feed URLs.
func NewFeeds(client HTTPClient, urls []string, log *slog.Logger) *Feeds {
	return &Feeds{
		client: client,
		log:    log,
		urls:   urls,
		now:    time.Now,
	}
}

// Name returns the platform name.
func (f *Feeds) Name() string { return "RSS" }

// Fetch downloads and parses every configured feed. A failing feed is
// logged and skipped; the remaining feeds are still consumed.
func (f *Feeds) Fetch(ctx context.Context) []model.Hackathon {
	var hackathons []model.Hackathon

	for _, url := range f.urls {
		body, err := getBody(ctx, f.client, url)
		if err != nil {
			f.log.Error("fetch feed", "url", url, "error", err)
			continue
		}

		feed, err := gofeed.NewParser().ParseString(string(body))
		if err != nil {
			f.log.Error("parse feed", "url", url, "error", err)
			continue
		}

		for _, item := range feed.Items {
			h, err := f.normalize(item)
			if err != nil {
				f.log.Debug("skip feed item", "title", item.Title, "error", err)
				continue
			}
			hackathons = append(hackathons, h)
		}
	}

	f.log.Info("fetched feed hackathons", "count", len(hackathons), "feeds", len(f.urls))
	return hackathons
}

func (f *Feeds) normalize(item *gofeed.Item) (model.Hackathon, error) {
	start, end, err := dates.FindRange(item.Title)
	if err != nil {
		start, end, err = dates.FindRange(item.Description)
	}
	if err != nil {
		return model.Hackathon{}, fmt.Errorf("no event dates: %w", err)
	}

	h := model.Hackathon{
		ID:        model.HashID(item.Title),
		Title:     item.Title,
		StartDate: start,
		EndDate:   end,
		Location:  model.LocationEverywhere,
		URL:       item.Link,
		Mode:      model.ModeOnline,
		Status:    statusFor(start, end, dates.Day(f.now())),
		Source:    "RSS",
		Tags:      item.Categories,
	}
	if err := h.Validate(); err != nil {
		return model.Hackathon{}, err
	}
	return h, nil
}
