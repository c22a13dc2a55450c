package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"hackradar/internal/model"
)

var _ Storage = (*SQLite)(nil)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleHackathon(id, title, source string, start time.Time) model.Hackathon {
	return model.Hackathon{
		ID:        model.HashID(id),
		Title:     title,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
		Location:  model.LocationEverywhere,
		URL:       "https://" + id + ".example.com/",
		Mode:      model.ModeOnline,
		Status:    "Upcoming",
		Source:    source,
	}
}

func TestUpsertHackathon(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	h := sampleHackathon("ai-jam", "AI Jam", "Devpost", time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	h.Tags = []string{"web", "cloud"}
	h.PrizePool = "$5,000"

	isNew, err := s.UpsertHackathon(ctx, h)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !isNew {
		t.Error("expected first upsert to report a new record")
	}

	got, err := s.GetHackathon(ctx, h.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(&h, got); diff != "" {
		t.Errorf("stored hackathon mismatch (-want +got):\n%s", diff)
	}

	// A later fetch of the same event overwrites every mutable field.
	h.Title = "AI Jam 2026"
	h.Status = "Live"
	h.Tags = []string{"ai"}
	h.PrizePool = "$7,500"

	isNew, err = s.UpsertHackathon(ctx, h)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if isNew {
		t.Error("expected second upsert to report an existing record")
	}

	got, err = s.GetHackathon(ctx, h.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if diff := cmp.Diff(&h, got); diff != "" {
		t.Errorf("updated hackathon mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchByTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tagged := sampleHackathon("webhack", "WebHack", "Devpost", time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	tagged.Tags = []string{"Web Development", "Cloud"}
	other := sampleHackathon("biohack", "BioHack", "Devfolio", time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	other.Tags = []string{"Healthcare"}

	for _, h := range []model.Hackathon{tagged, other} {
		if _, err := s.UpsertHackathon(ctx, h); err != nil {
			t.Fatalf("upsert %s: %v", h.Title, err)
		}
	}

	got, err := s.SearchByTag(ctx, "web", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "WebHack" {
		t.Errorf("expected only WebHack for keyword web, got %+v", titles(got))
	}

	got, err = s.SearchByTag(ctx, "blockchain", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches for blockchain, got %+v", titles(got))
	}
}

func TestListByPlatform(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	records := []model.Hackathon{
		sampleHackathon("past-dp", "Past Devpost", "Devpost", now.AddDate(0, 0, -10)),
		sampleHackathon("soon-dp", "Soon Devpost", "Devpost", now.AddDate(0, 0, 3)),
		sampleHackathon("later-dp", "Later Devpost", "Devpost", now.AddDate(0, 0, 5)),
		sampleHackathon("soon-df", "Soon Devfolio", "Devfolio", now.AddDate(0, 0, 4)),
	}
	for _, h := range records {
		if _, err := s.UpsertHackathon(ctx, h); err != nil {
			t.Fatalf("upsert %s: %v", h.Title, err)
		}
	}

	got, err := s.ListByPlatform(ctx, "devpost", 10)
	if err != nil {
		t.Fatalf("list by platform: %v", err)
	}
	want := []string{"Soon Devpost", "Later Devpost"}
	if diff := cmp.Diff(want, titles(got)); diff != "" {
		t.Errorf("upcoming devpost mismatch (-want +got):\n%s", diff)
	}

	got, err = s.ListByPlatform(ctx, "devpost", 1)
	if err != nil {
		t.Fatalf("list by platform with limit: %v", err)
	}
	if diff := cmp.Diff([]string{"Soon Devpost"}, titles(got)); diff != "" {
		t.Errorf("limited list mismatch (-want +got):\n%s", diff)
	}
}

func TestListUpcoming(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	records := []model.Hackathon{
		sampleHackathon("h-week", "Next Week", "Devpost", now.AddDate(0, 0, 7)),
		sampleHackathon("h-tomorrow", "Tomorrow", "Devpost", now.AddDate(0, 0, 1)),
		sampleHackathon("h-dayafter", "Day After", "Devfolio", now.AddDate(0, 0, 2)),
	}
	for _, h := range records {
		if _, err := s.UpsertHackathon(ctx, h); err != nil {
			t.Fatalf("upsert %s: %v", h.Title, err)
		}
	}

	got, err := s.ListUpcoming(ctx, 2)
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	want := []string{"Tomorrow", "Day After"}
	if diff := cmp.Diff(want, titles(got)); diff != "" {
		t.Errorf("upcoming mismatch (-want +got):\n%s", diff)
	}
}

func TestListUpcomingRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []model.Hackathon{
		sampleHackathon("march-dp", "March Devpost", "Devpost", time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)),
		sampleHackathon("march-df", "March Devfolio", "Devfolio", time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)),
		sampleHackathon("june-dp", "June Devpost", "Devpost", time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)),
	}
	for _, h := range records {
		if _, err := s.UpsertHackathon(ctx, h); err != nil {
			t.Fatalf("upsert %s: %v", h.Title, err)
		}
	}

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)

	got, err := s.ListUpcomingRange(ctx, from, to, nil)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if diff := cmp.Diff([]string{"March Devpost", "March Devfolio"}, titles(got)); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}

	got, err = s.ListUpcomingRange(ctx, from, to, []string{"Devfolio"})
	if err != nil {
		t.Fatalf("list range with sources: %v", err)
	}
	if diff := cmp.Diff([]string{"March Devfolio"}, titles(got)); diff != "" {
		t.Errorf("source-filtered range mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveGuildPreferences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// No explicit filters collapses to the wildcard, never to "nothing".
	cfg, err := s.SaveGuildPreferences(ctx, "guild-1", "chan-1", nil, nil)
	if err != nil {
		t.Fatalf("save preferences: %v", err)
	}
	want := &model.GuildConfig{
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		Platforms: model.Selection{All: true},
		Themes:    model.Selection{All: true},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("default preferences mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.SetPaused(ctx, "guild-1", true); err != nil {
		t.Fatalf("set paused: %v", err)
	}

	// Updating preferences must not reset the pause flag.
	cfg, err = s.SaveGuildPreferences(ctx, "guild-1", "chan-2", []string{"Devpost"}, []string{"AI", "Web"})
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	want = &model.GuildConfig{
		GuildID:   "guild-1",
		ChannelID: "chan-2",
		Platforms: model.Selection{Values: []string{"Devpost"}},
		Themes:    model.Selection{Values: []string{"AI", "Web"}},
		Paused:    true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("updated preferences mismatch (-want +got):\n%s", diff)
	}
}

func TestGetGuildConfigMissing(t *testing.T) {
	s := newTestStore(t)

	cfg, err := s.GetGuildConfig(context.Background(), "no-such-guild")
	if err != nil {
		t.Fatalf("get guild config: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config for unknown guild, got %+v", cfg)
	}
}

func TestSetPausedWithoutConfig(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.SetPaused(ctx, "guild-x", true)
	if err != nil {
		t.Fatalf("set paused: %v", err)
	}
	if ok {
		t.Error("expected pause on unconfigured guild to report false")
	}

	cfg, err := s.GetGuildConfig(ctx, "guild-x")
	if err != nil {
		t.Fatalf("get guild config: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected no row to be created, got %+v", cfg)
	}
}

func TestDeleteGuildConfig(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveGuildPreferences(ctx, "guild-1", "chan-1", nil, nil); err != nil {
		t.Fatalf("save preferences: %v", err)
	}
	if err := s.DeleteGuildConfig(ctx, "guild-1"); err != nil {
		t.Fatalf("delete guild config: %v", err)
	}

	cfg, err := s.GetGuildConfig(ctx, "guild-1")
	if err != nil {
		t.Fatalf("get guild config: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected config to be gone, got %+v", cfg)
	}

	configs, err := s.ListGuildConfigs(ctx)
	if err != nil {
		t.Fatalf("list guild configs: %v", err)
	}
	if len(configs) != 0 {
		t.Errorf("expected no configs, got %d", len(configs))
	}
}

func TestSubscriptions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Subscribe(ctx, "user-1", "ai")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !created {
		t.Error("expected first subscribe to create a row")
	}

	created, err = s.Subscribe(ctx, "user-1", "ai")
	if err != nil {
		t.Fatalf("duplicate subscribe: %v", err)
	}
	if created {
		t.Error("expected duplicate subscribe to be a no-op")
	}

	if _, err := s.Subscribe(ctx, "user-1", "web"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := s.Subscribe(ctx, "user-2", "ai"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	subs, err := s.ListUserSubscriptions(ctx, "user-1")
	if err != nil {
		t.Fatalf("list user subscriptions: %v", err)
	}
	if diff := cmp.Diff([]string{"ai", "web"}, themes(subs)); diff != "" {
		t.Errorf("user themes mismatch (-want +got):\n%s", diff)
	}

	all, err := s.ListAllSubscriptions(ctx)
	if err != nil {
		t.Fatalf("list all subscriptions: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 subscriptions in total, got %d", len(all))
	}

	removed, err := s.Unsubscribe(ctx, "user-1", "ai")
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if !removed {
		t.Error("expected unsubscribe to remove the row")
	}

	removed, err = s.Unsubscribe(ctx, "user-1", "ai")
	if err != nil {
		t.Fatalf("second unsubscribe: %v", err)
	}
	if removed {
		t.Error("expected unsubscribe of a missing row to report false")
	}
}

func titles(hackathons []model.Hackathon) []string {
	var out []string
	for _, h := range hackathons {
		out = append(out, h.Title)
	}
	return out
}

func themes(subs []model.Subscription) []string {
	var out []string
	for _, sub := range subs {
		out = append(out, sub.Theme)
	}
	return out
}
