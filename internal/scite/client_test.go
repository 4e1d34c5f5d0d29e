package scite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClientFetchTallies(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		switch {
		case strings.HasSuffix(r.URL.Path, "10.1/known"):
			w.Write([]byte(`{"doi":"10.1/known","supporting":2,"contradicting":1,"total":3}`))
		case strings.HasSuffix(r.URL.Path, "10.1/unknown"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithAPIKey("sekret"), WithRateLimit(1000))

	tallies, err := c.FetchTallies(context.Background(), "10.1/known")
	if err != nil {
		t.Fatalf("FetchTallies() error = %v", err)
	}
	if tallies.Supporting != 2 || tallies.Contradicting != 1 || tallies.Total != 3 {
		t.Errorf("tallies = %+v", tallies)
	}
	if gotKey != "sekret" {
		t.Errorf("x-api-key = %q, want sekret", gotKey)
	}

	// "No data" is a nil result, not an error.
	tallies, err = c.FetchTallies(context.Background(), "10.1/unknown")
	if err != nil {
		t.Fatalf("FetchTallies() 404 error = %v", err)
	}
	if tallies != nil {
		t.Errorf("tallies = %+v, want nil for no data", tallies)
	}

	if _, err := c.FetchTallies(context.Background(), "10.1/broken"); err == nil {
		t.Error("FetchTallies() on 500: expected error")
	}
}

func TestClientFetchAll(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if strings.HasSuffix(r.URL.Path, "10.1/gone") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"supporting":1,"total":1}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(1000))
	outPath := filepath.Join(t.TempDir(), "scite", "tallies.json")

	tallies, err := c.FetchAll(context.Background(), []string{"10.1/a", "10.1/gone"}, outPath)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(tallies) != 2 {
		t.Fatalf("got %d entries, want 2", len(tallies))
	}
	if tallies["10.1/a"] == nil || tallies["10.1/a"].Supporting != 1 {
		t.Errorf("10.1/a = %+v", tallies["10.1/a"])
	}
	if tallies["10.1/gone"] != nil {
		t.Errorf("10.1/gone = %+v, want explicit nil", tallies["10.1/gone"])
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("tallies artifact not written: %v", err)
	}

	// Rerun: both DOIs are covered by the artifact, no new requests.
	before := hits
	if _, err := c.FetchAll(context.Background(), []string{"10.1/a", "10.1/gone"}, outPath); err != nil {
		t.Fatalf("FetchAll() rerun error = %v", err)
	}
	if hits != before {
		t.Errorf("rerun issued %d new requests, want 0", hits-before)
	}
}
