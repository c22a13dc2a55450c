package adapter

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"hackradar/internal/model"
)

func devfolioURL(page int) string {
	return fmt.Sprintf("https://api.devfolio.co/api/hackathons?filter=application_open&page=%d", page)
}

func TestDevfolioFetch(t *testing.T) {
	rt := &routeTransport{responses: map[string]string{
		devfolioURL(1): loadFixture(t, "devfolio_page1.json"),
		devfolioURL(2): loadFixture(t, "devfolio_empty.json"),
	}}

	d := NewDevfolio(rt, testLogger())
	d.now = func() time.Time {
		return time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)
	}
	got := d.Fetch(context.Background())

	want := []model.Hackathon{
		{
			ID:        model.HashID("ETHIndia 2025"),
			Title:     "ETHIndia 2025",
			StartDate: time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, time.December, 7, 0, 0, 0, 0, time.UTC),
			Location:  "Bangalore, India",
			URL:       "https://ethindia-2025.devfolio.co/",
			Mode:      model.ModeOffline,
			Status:    "Upcoming",
			Source:    "Devfolio",
		},
		{
			ID:        model.HashID("Hack The Cloud"),
			Title:     "Hack The Cloud",
			StartDate: time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC),
			Location:  model.LocationEverywhere,
			URL:       "https://hack-the-cloud.devfolio.co/",
			Mode:      model.ModeOnline,
			Status:    "Upcoming",
			Source:    "Devfolio",
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fetched hackathons mismatch (-want +got):\n%s", diff)
	}
}

func TestDevfolioStatusFromDates(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{
			name: "before start",
			now:  time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
			want: "Upcoming",
		},
		{
			name: "during event",
			now:  time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC),
			want: "Live",
		},
		{
			name: "on the last day",
			now:  time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC),
			want: "Live",
		},
		{
			name: "after end",
			now:  time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC),
			want: "Ended",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &routeTransport{responses: map[string]string{
				devfolioURL(1): loadFixture(t, "devfolio_page1.json"),
				devfolioURL(2): loadFixture(t, "devfolio_empty.json"),
			}}
			d := NewDevfolio(rt, testLogger())
			d.now = func() time.Time { return tt.now }

			got := d.Fetch(context.Background())
			if len(got) != 2 {
				t.Fatalf("expected 2 hackathons, got %d", len(got))
			}
			// Hack The Cloud runs Nov 1-3.
			if diff := cmp.Diff(tt.want, got[1].Status); diff != "" {
				t.Errorf("status mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDevfolioTransportErrorAbortsPaging(t *testing.T) {
	rt := &routeTransport{errs: map[string]error{
		devfolioURL(1): io.ErrUnexpectedEOF,
	}}

	d := NewDevfolio(rt, testLogger())
	got := d.Fetch(context.Background())

	if len(got) != 0 {
		t.Errorf("expected no hackathons, got %d", len(got))
	}
	if len(rt.calls) != 1 {
		t.Errorf("expected paging to stop after first page, got %d calls", len(rt.calls))
	}
}
