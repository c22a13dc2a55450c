package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"hackradar/internal/dates"
	"hackradar/internal/model"
)

// Devfolio fetches hackathons with open applications from the Devfolio API.
type Devfolio struct {
	client  HTTPClient
	log     *slog.Logger
	baseURL string
	now     func() time.Time
}

// NewDevfolio creates a Devfolio adapter with the given HTTP client.
func NewDevfolio(client HTTPClient, log *slog.Logger) *Devfolio {
	return &Devfolio{
		client:  client,
		log:     log,
		baseURL: "https://api.devfolio.co",
		now:     time.Now,
	}
}

// Name returns the platform name.
func (d *Devfolio) Name() string { return "Devfolio" }

type devfolioResponse struct {
	Result []devfolioHackathon `json:"result"`
}

type devfolioHackathon struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
	IsOnline bool   `json:"is_online"`
	Location string `json:"location"`
}

// Fetch pages through the Devfolio API until an empty result page. Any
// upstream failure aborts further pages for this source.
func (d *Devfolio) Fetch(ctx context.Context) []model.Hackathon {
	var hackathons []model.Hackathon

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/api/hackathons?filter=application_open&page=%d", d.baseURL, page)
		body, err := getBody(ctx, d.client, url)
		if err != nil {
			d.log.Error("fetch devfolio page", "page", page, "error", err)
			break
		}

		var resp devfolioResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			d.log.Error("decode devfolio page", "page", page, "error", err)
			break
		}
		if len(resp.Result) == 0 {
			break
		}

		for _, item := range resp.Result {
			h, err := d.normalize(item)
			if err != nil {
				d.log.Debug("skip devfolio listing", "name", item.Name, "error", err)
				continue
			}
			hackathons = append(hackathons, h)
		}
	}

	d.log.Info("fetched devfolio hackathons", "count", len(hackathons))
	return hackathons
}

func (d *Devfolio) normalize(item devfolioHackathon) (model.Hackathon, error) {
	start, err := dates.ParseISO(item.StartsAt)
	if err != nil {
		return model.Hackathon{}, fmt.Errorf("parse start: %w", err)
	}
	end, err := dates.ParseISO(item.EndsAt)
	if err != nil {
		return model.Hackathon{}, fmt.Errorf("parse end: %w", err)
	}

	if item.Slug == "" {
		return model.Hackathon{}, fmt.Errorf("missing slug")
	}

	mode := model.ModeOffline
	if item.IsOnline {
		mode = model.ModeOnline
	}
	location := item.Location
	if location == "" {
		location = model.LocationEverywhere
	}

	h := model.Hackathon{
		ID:        model.HashID(item.Name),
		Title:     item.Name,
		StartDate: start,
		EndDate:   end,
		Location:  location,
		URL:       fmt.Sprintf("https://%s.devfolio.co/", item.Slug),
		Mode:      mode,
		Status:    statusFor(start, end, dates.Day(d.now())),
		Source:    "Devfolio",
	}
	if err := h.Validate(); err != nil {
		return model.Hackathon{}, err
	}
	return h, nil
}
