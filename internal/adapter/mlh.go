package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"hackradar/internal/dates"
	"hackradar/internal/model"
)

const mlhDateLayout = "2006-01-02"

// MLH scrapes the Major League Hacking season events page. The page carries
// machine-readable start and end dates in itemprop meta tags.
type MLH struct {
	client  HTTPClient
	log     *slog.Logger
	baseURL string
	season  string
	now     func() time.Time
}

// NewMLH creates an MLH adapter for the given season year, e.g. "2026".
func NewMLH(client HTTPClient, season string, log *slog.Logger) *MLH {
	return &MLH{
		client:  client,
		log:     log,
		baseURL: "https://mlh.io",
		season:  season,
		now:     time.Now,
	}
}

// Name returns the platform name.
func (m *MLH) Name() string { return "MLH" }

// Fetch scrapes the single season page; there is no pagination.
func (m *MLH) Fetch(ctx context.Context) []model.Hackathon {
	url := fmt.Sprintf("%s/seasons/%s/events", m.baseURL, m.season)
	body, err := getBody(ctx, m.client, url)
	if err != nil {
		m.log.Error("fetch mlh events", "season", m.season, "error", err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		m.log.Error("parse mlh events page", "error", err)
		return nil
	}

	var hackathons []model.Hackathon
	doc.Find("div.event").Each(func(_ int, sel *goquery.Selection) {
		h, err := m.normalize(sel)
		if err != nil {
			m.log.Debug("skip mlh listing", "error", err)
			return
		}
		hackathons = append(hackathons, h)
	})

	m.log.Info("fetched mlh hackathons", "count", len(hackathons))
	return hackathons
}

func (m *MLH) normalize(sel *goquery.Selection) (model.Hackathon, error) {
	title := strings.TrimSpace(sel.Find("h3.event-name").Text())
	url, _ := sel.Find("a.event-link").Attr("href")

	startStr, _ := sel.Find(`meta[itemprop="startDate"]`).Attr("content")
	endStr, _ := sel.Find(`meta[itemprop="endDate"]`).Attr("content")
	start, err := time.Parse(mlhDateLayout, startStr)
	if err != nil {
		return model.Hackathon{}, fmt.Errorf("parse start %q: %w", startStr, err)
	}
	end, err := time.Parse(mlhDateLayout, endStr)
	if err != nil {
		return model.Hackathon{}, fmt.Errorf("parse end %q: %w", endStr, err)
	}

	mode := model.ModeOffline
	location := strings.Join(strings.Fields(sel.Find("div.event-location").Text()), " ")
	if strings.Contains(sel.Find("div.event-hybrid-notes").Text(), "Digital") {
		mode = model.ModeOnline
		location = model.LocationEverywhere
	}

	banner, _ := sel.Find("div.image-wrap img").Attr("src")

	h := model.Hackathon{
		ID:        model.HashID(url),
		Title:     title,
		StartDate: start,
		EndDate:   end,
		Location:  location,
		URL:       url,
		Mode:      mode,
		Status:    statusFor(start, end, dates.Day(m.now())),
		Source:    "MLH",
		BannerURL: absoluteURL(banner),
	}
	if err := h.Validate(); err != nil {
		return model.Hackathon{}, err
	}
	return h, nil
}
