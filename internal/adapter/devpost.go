package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"hackradar/internal/dates"
	"hackradar/internal/model"
)

// devpostPageLimit caps pagination as a safety net against an endless
// listing endpoint.
const devpostPageLimit = 20

// Devpost fetches hackathons from the Devpost listing API.
type Devpost struct {
	client  HTTPClient
	log     *slog.Logger
	baseURL string
}

// NewDevpost creates a Devpost adapter with the given HTTP client.
func NewDevpost(client HTTPClient, log *slog.Logger) *Devpost {
	return &Devpost{
		client:  client,
		log:     log,
		baseURL: "https://devpost.com",
	}
}

// Name returns the platform name.
func (d *Devpost) Name() string { return "Devpost" }

type devpostResponse struct {
	Hackathons []devpostHackathon `json:"hackathons"`
}

type devpostHackathon struct {
	ID                    int64  `json:"id"`
	Title                 string `json:"title"`
	URL                   string `json:"url"`
	OpenState             string `json:"open_state"`
	SubmissionPeriodDates string `json:"submission_period_dates"`
	ThumbnailURL          string `json:"thumbnail_url"`
	PrizeAmount           string `json:"prize_amount"`
	DisplayedLocation     struct {
		Location string `json:"location"`
	} `json:"displayed_location"`
	Themes []struct {
		Name string `json:"name"`
	} `json:"themes"`
}

// Fetch pages through the Devpost API. Listings are newest first within a
// page, so consumption of a page stops at the first ended entry. A transport
// failure aborts further pages; a malformed page is skipped.
func (d *Devpost) Fetch(ctx context.Context) []model.Hackathon {
	var hackathons []model.Hackathon

	for page := 1; page <= devpostPageLimit; page++ {
		url := fmt.Sprintf("%s/api/hackathons?page=%d", d.baseURL, page)
		body, err := getBody(ctx, d.client, url)
		if err != nil {
			d.log.Error("fetch devpost page", "page", page, "error", err)
			break
		}

		var resp devpostResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			d.log.Error("decode devpost page", "page", page, "error", err)
			continue
		}
		if len(resp.Hackathons) == 0 {
			break
		}

		for _, item := range resp.Hackathons {
			if item.OpenState == "ended" {
				break
			}
			h, err := d.normalize(item)
			if err != nil {
				d.log.Debug("skip devpost listing", "title", item.Title, "error", err)
				continue
			}
			hackathons = append(hackathons, h)
		}
	}

	d.log.Info("fetched devpost hackathons", "count", len(hackathons))
	return hackathons
}

func (d *Devpost) normalize(item devpostHackathon) (model.Hackathon, error) {
	start, end, err := dates.ParseRange(item.SubmissionPeriodDates)
	if err != nil {
		return model.Hackathon{}, fmt.Errorf("parse dates: %w", err)
	}

	mode := model.ModeOnline
	location := item.DisplayedLocation.Location
	if location == "" {
		location = "Online"
	}
	if location != "Online" {
		mode = model.ModeOffline
	} else {
		location = model.LocationEverywhere
	}

	var tags []string
	for _, theme := range item.Themes {
		tags = append(tags, theme.Name)
	}

	h := model.Hackathon{
		ID:        model.HashID(fmt.Sprintf("%d", item.ID)),
		Title:     item.Title,
		StartDate: start,
		EndDate:   end,
		Location:  location,
		URL:       item.URL,
		Mode:      mode,
		Status:    item.OpenState,
		Source:    "Devpost",
		Tags:      tags,
		BannerURL: absoluteURL(item.ThumbnailURL),
		PrizePool: stripMarkup(item.PrizeAmount),
	}
	if err := h.Validate(); err != nil {
		return model.Hackathon{}, err
	}
	return h, nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripMarkup removes the inline HTML Devpost wraps around prize amounts.
func stripMarkup(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// absoluteURL fixes the protocol-relative thumbnail URLs Devpost returns.
func absoluteURL(s string) string {
	if strings.HasPrefix(s, "//") {
		return "https:" + s
	}
	return s
}
