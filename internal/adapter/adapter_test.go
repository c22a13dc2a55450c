package adapter

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"testing"
)

// routeTransport serves canned responses keyed by full request URL.
// Unknown URLs get a 404, which adapters treat as a transport failure.
type routeTransport struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (rt *routeTransport) Do(req *http.Request) (*http.Response, error) {
	url := req.URL.String()
	rt.calls = append(rt.calls, url)
	if err := rt.errs[url]; err != nil {
		return nil, err
	}
	if body, ok := rt.responses[url]; ok {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader("not found")),
	}, nil
}

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return string(data)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
