// Package adapter implements the per-platform fetchers that normalize
// hackathon listings into canonical records.
package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"hackradar/internal/model"
)

const userAgent = "HackRadarBot/1.0"

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 5 * 1024 * 1024

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Adapter fetches listings from one platform and maps them into canonical
// records. Fetch never lets an upstream failure escape: it logs and returns
// whatever it managed to collect, possibly nothing.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) []model.Hackathon
}

// getBody performs a GET request and returns the response body. Any failure
// here, including a non-2xx status, counts as a transport error.
func getBody(ctx context.Context, client HTTPClient, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// statusFor derives a lifecycle label from the event dates.
func statusFor(start, end, now time.Time) string {
	switch {
	case now.After(end):
		return "Ended"
	case !now.Before(start):
		return "Live"
	default:
		return "Upcoming"
	}
}
