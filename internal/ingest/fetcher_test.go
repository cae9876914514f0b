package ingest

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Gokul1734/factsense/internal/cache"
	"github.com/Gokul1734/factsense/internal/model"
)

func TestParsePage_OpenGraphAndBody(t *testing.T) {
	page, err := parsePage(strings.NewReader(`<html>
<head>
  <title>Plain Title</title>
  <meta property="og:title" content="OG Title">
  <meta property="og:description" content="OG description of the post">
</head>
<body>
  <nav>menu items</nav>
  <p>First paragraph.</p>
  <script>var x = 1;</script>
  <p>Second paragraph.</p>
</body>
</html>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if page.Title != "OG Title" {
		t.Errorf("title = %q, want OG title to win", page.Title)
	}
	if page.Description != "OG description of the post" {
		t.Errorf("description = %q", page.Description)
	}
	if !strings.Contains(page.Text, "First paragraph.") || !strings.Contains(page.Text, "Second paragraph.") {
		t.Errorf("text = %q", page.Text)
	}
	if strings.Contains(page.Text, "var x") || strings.Contains(page.Text, "menu items") {
		t.Errorf("script/nav content leaked into text: %q", page.Text)
	}
}

func TestPage_ClaimText(t *testing.T) {
	withDesc := Page{Title: "T", Description: "D", Text: "body"}
	if got := withDesc.ClaimText(); got != "T. D" {
		t.Errorf("ClaimText = %q, want description preferred", got)
	}

	withoutDesc := Page{Title: "T", Text: "body"}
	if got := withoutDesc.ClaimText(); got != "T. body" {
		t.Errorf("ClaimText = %q", got)
	}
}

func TestFetcher_FetchAndCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hits++
		_, _ = io.WriteString(w, `<html><head><title>Article</title></head><body><p>Content here.</p></body></html>`)
	}))
	defer srv.Close()

	f := NewFetcher(model.HTTPConfig{
		Timeout:      time.Second,
		UserAgent:    "FactSense/test",
		MaxBodyBytes: 1 << 20,
	}, cache.NewMemoryCache(time.Minute, time.Minute), log.New(io.Discard, "", 0))

	page, err := f.Fetch(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.Title != "Article" {
		t.Errorf("title = %q", page.Title)
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/article"); err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if hits != 1 {
		t.Errorf("origin hit %d times, want 1 (second fetch cached)", hits)
	}
}

func TestFetcher_RespectsRobots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = io.WriteString(w, "User-agent: *\nDisallow: /private/\n")
			return
		}
		_, _ = io.WriteString(w, `<html><head><title>X</title></head><body></body></html>`)
	}))
	defer srv.Close()

	f := NewFetcher(model.HTTPConfig{
		Timeout:   time.Second,
		UserAgent: "FactSense/test",
	}, cache.NewMemoryCache(time.Minute, time.Minute), log.New(io.Discard, "", 0))

	if _, err := f.Fetch(context.Background(), srv.URL+"/private/page"); err == nil {
		t.Error("disallowed path should not be fetched")
	}
	if _, err := f.Fetch(context.Background(), srv.URL+"/public/page"); err != nil {
		t.Errorf("allowed path failed: %v", err)
	}
}

func TestFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(model.HTTPConfig{
		Timeout:   time.Second,
		UserAgent: "FactSense/test",
	}, cache.NewMemoryCache(time.Minute, time.Minute), log.New(io.Discard, "", 0))

	if _, err := f.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("expected error for 404 page")
	}
}
