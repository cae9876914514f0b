package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gokul1734/factsense/internal/model"
)

func TestSerperClient_Search(t *testing.T) {
	var gotQuery string
	var gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		var req serperRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotQuery = req.Query

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"organic": []map[string]string{
				{"title": "Result one", "link": "https://a.example/1", "snippet": "first"},
				{"title": "", "link": "https://a.example/2", "snippet": "no title"},
				{"title": "Result three", "link": "", "snippet": "no link"},
			},
		})
	}))
	defer srv.Close()

	client := NewSerperClient(model.SearchConfig{
		WebEndpoint: srv.URL,
		WebAPIKey:   "test-key",
		Timeout:     time.Second,
		RatePerSec:  100,
		Burst:       10,
	})

	results, err := client.Search(context.Background(), "flood warning", 5, "thehindu.com")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("API key header = %q", gotKey)
	}
	if gotQuery != "site:thehindu.com flood warning" {
		t.Errorf("query = %q, want site-restricted form", gotQuery)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1 (empty title/link skipped)", len(results))
	}
	if results[0].Title != "Result one" || results[0].Snippet != "first" {
		t.Errorf("result = %+v", results[0])
	}
}

func TestSerperClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewSerperClient(model.SearchConfig{
		WebEndpoint: srv.URL,
		WebAPIKey:   "k",
		Timeout:     time.Second,
	})

	if _, err := client.Search(context.Background(), "q", 5, ""); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestNewSerperClient_NilWithoutKey(t *testing.T) {
	if NewSerperClient(model.SearchConfig{}) != nil {
		t.Error("client without API key should be nil")
	}
}

func TestNewsAPIClient_Search(t *testing.T) {
	var gotQuery, gotLang string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLang = r.URL.Query().Get("language")

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"articles": []map[string]string{
				{"title": "Agency report", "url": "https://agency.example/a", "publishedAt": "2026-08-27T10:00:00Z", "description": " lead text "},
				{"title": "Wire story", "url": "https://www.wire.example/b"},
				{"title": "No URL", "url": ""},
			},
		})
	}))
	defer srv.Close()

	client := &NewsAPIClient{
		apiKey:     "k",
		endpoint:   srv.URL,
		httpClient: &http.Client{Timeout: time.Second},
	}

	results, err := client.Search(context.Background(), "flood chennai", "", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if gotQuery != "flood chennai" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotLang != "en" {
		t.Errorf("language = %q, want en default", gotLang)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (missing URL skipped)", len(results))
	}
	if results[0].Domain != "agency.example" {
		t.Errorf("domain = %q", results[0].Domain)
	}
	if results[1].Domain != "wire.example" {
		t.Errorf("domain = %q, want www prefix stripped", results[1].Domain)
	}
	if results[0].Description != "lead text" {
		t.Errorf("description = %q, want trimmed", results[0].Description)
	}
}

func TestNewNewsAPIClient_NilWithoutKey(t *testing.T) {
	if NewNewsAPIClient(model.SearchConfig{}) != nil {
		t.Error("client without API key should be nil")
	}
}

func TestLimiter_PerHost(t *testing.T) {
	l := NewLimiter(100, 5)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := l.Wait(ctx, "a.example"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	// A different host has its own bucket and admits immediately.
	if err := l.Wait(ctx, "b.example"); err != nil {
		t.Fatalf("second host: %v", err)
	}
}
