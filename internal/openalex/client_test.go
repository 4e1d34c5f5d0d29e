package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClientFetchWork(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		switch {
		case strings.Contains(r.URL.Path, "10.1/present"):
			w.Write([]byte(`{"id": "W1"}`))
		case strings.Contains(r.URL.Path, "10.1/missing"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURL(srv.URL),
		WithMailto("someone@example.org"),
		WithRateLimit(1000),
	)

	body, err := c.FetchWork(context.Background(), "10.1/present")
	if err != nil {
		t.Fatalf("FetchWork() error = %v", err)
	}
	if string(body) != `{"id": "W1"}` {
		t.Errorf("FetchWork() body = %q", body)
	}
	if !strings.HasPrefix(gotPath, "/works/") {
		t.Errorf("request path = %q, want /works/ prefix", gotPath)
	}
	if !strings.Contains(gotQuery, "mailto=someone%40example.org") {
		t.Errorf("request query = %q, want mailto parameter", gotQuery)
	}

	// 404 means "no such work", not an error.
	body, err = c.FetchWork(context.Background(), "10.1/missing")
	if err != nil {
		t.Fatalf("FetchWork() 404 error = %v", err)
	}
	if body != nil {
		t.Errorf("FetchWork() 404 body = %q, want nil", body)
	}

	// Server errors are errors.
	if _, err = c.FetchWork(context.Background(), "10.1/broken"); err == nil {
		t.Error("FetchWork() on 500: expected error")
	}
}

func TestClientFetchWorks(t *testing.T) {
	requests := make(map[string]int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests[r.URL.Path]++
		switch {
		case strings.Contains(r.URL.Path, "10.1/gone"):
			w.WriteHeader(http.StatusNotFound)
		case strings.Contains(r.URL.Path, "10.1/flaky"):
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.Write([]byte(`{"id": "W1"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))
	dir := t.TempDir()

	// Pre-seed a cache file: it must not be refetched.
	cached := filepath.Join(dir, "10.2_cached.json")
	if err := os.WriteFile(cached, []byte(`{"id": "W0"}`), 0644); err != nil {
		t.Fatal(err)
	}

	dois := []string{"10.1/ok", "10.1/gone", "10.1/flaky", "10.2/cached"}
	stats, err := c.FetchWorks(context.Background(), dois, dir)
	if err != nil {
		t.Fatalf("FetchWorks() error = %v", err)
	}

	if stats.Requested != 4 || stats.Fetched != 1 || stats.Cached != 1 || stats.NotFound != 1 || stats.Errors != 1 {
		t.Errorf("stats = %+v, want requested=4 fetched=1 cached=1 not_found=1 errors=1", stats)
	}

	if _, err := os.Stat(filepath.Join(dir, "10.1_ok.json")); err != nil {
		t.Errorf("expected cache file for fetched work: %v", err)
	}

	// Rerun: everything fetchable is now cached, no new writes for the ok DOI.
	before := requests["/works/https://doi.org/10.1/ok"]
	if _, err := c.FetchWorks(context.Background(), dois, dir); err != nil {
		t.Fatalf("FetchWorks() rerun error = %v", err)
	}
	if after := requests["/works/https://doi.org/10.1/ok"]; after != before {
		t.Errorf("cached work was refetched: %d -> %d requests", before, after)
	}
}
