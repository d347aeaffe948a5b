package update

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer serves the releases API and the tags page for owner/repo
func newTestServer(t *testing.T, apiStatus int, apiBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}
		if apiStatus == http.StatusForbidden {
			w.Header().Set("X-RateLimit-Reset", "1700000000")
		}
		w.WriteHeader(apiStatus)
		w.Write([]byte(apiBody))
	})
	mux.HandleFunc("/owner/repo/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(tagsPage))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testClient(server *httptest.Server) *Client {
	c := NewClient()
	c.APIURL = server.URL
	c.WebURL = server.URL
	c.Repository = "owner/repo"
	c.HTTPClient = server.Client()
	return c
}

func TestLatestRelease(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"tag_name": "v1.3.2", "html_url": "https://example.com/r/v1.3.2"}`)

	rel, err := testClient(server).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	want := Release{Version: "1.3.2", URL: "https://example.com/r/v1.3.2", Source: "api"}
	if rel != want {
		t.Errorf("Latest = %+v, want %+v", rel, want)
	}
}

func TestLatestFallsBackToTags(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"rate limited", http.StatusForbidden, `{"message": "API rate limit exceeded"}`, ErrRateLimit},
		{"no release", http.StatusNotFound, `{"message": "Not Found"}`, ErrNotFound},
		{"server error", http.StatusBadGateway, "bad gateway", ErrAPIError},
		{"empty tag", http.StatusOK, `{"tag_name": ""}`, ErrNoVersionFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.status, tt.body)
			c := testClient(server)

			if _, err := c.LatestRelease(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Errorf("LatestRelease error = %v, want %v", err, tt.wantErr)
			}

			rel, err := c.Latest(context.Background())
			if err != nil {
				t.Fatalf("Latest: %v", err)
			}
			if rel.Version != "1.4.0-rc1" || rel.Source != "tags" {
				t.Errorf("unexpected release %+v", rel)
			}
			if rel.URL != server.URL+"/owner/repo/releases/tag/v1.4.0-rc1" {
				t.Errorf("unexpected URL %s", rel.URL)
			}
		})
	}
}

func TestLatestTagURLUsesPublishedTag(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/o/r/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a href="/o/r/releases/tag/v2.0.0">v2.0.0</a></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := testClient(server)
	c.Repository = "o/r"
	rel, err := c.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	want := Release{Version: "2.0.0", URL: server.URL + "/o/r/releases/tag/v2.0.0", Source: "tags"}
	if rel != want {
		t.Errorf("Latest = %+v, want %+v", rel, want)
	}
}

func TestLatestBothSourcesFail(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := testClient(server).Latest(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestReleaseMalformedJSON(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{not json`)
	if _, err := testClient(server).LatestRelease(context.Background()); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLatestRespectsCancelledContext(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"tag_name": "v1.0.0"}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := testClient(server).Latest(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
