package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gokul1734/factsense/internal/model"
)

// NewsResult is one article from the news-article search capability.
type NewsResult struct {
	Title       string
	URL         string
	Domain      string
	PublishedAt string
	Description string
}

// NewsSearcher is the news-article search capability.
type NewsSearcher interface {
	Search(ctx context.Context, query string, language string, maxResults int) ([]NewsResult, error)
}

const newsAPIEndpoint = "https://newsapi.org/v2/everything"

// NewsAPIClient implements NewsSearcher against the NewsAPI /v2/everything
// endpoint.
type NewsAPIClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Description string `json:"description"`
	} `json:"articles"`
}

// NewNewsAPIClient creates a news search client. Returns nil when no API
// key is configured.
func NewNewsAPIClient(cfg model.SearchConfig) *NewsAPIClient {
	if cfg.NewsAPIKey == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &NewsAPIClient{
		apiKey:   cfg.NewsAPIKey,
		endpoint: newsAPIEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search queries recent articles matching the query.
func (c *NewsAPIClient) Search(ctx context.Context, query string, language string, maxResults int) ([]NewsResult, error) {
	if language == "" {
		language = "en"
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "publishedAt")
	params.Set("language", language)
	params.Set("pageSize", fmt.Sprintf("%d", maxResults))
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news search: unexpected status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("news search: read body: %w", err)
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("news search: decode: %w", err)
	}

	results := make([]NewsResult, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.URL == "" {
			continue
		}
		results = append(results, NewsResult{
			Title:       a.Title,
			URL:         a.URL,
			Domain:      domainOf(a.URL),
			PublishedAt: a.PublishedAt,
			Description: strings.TrimSpace(a.Description),
		})
	}
	return results, nil
}

// domainOf extracts the lowercased host from a URL without its www prefix,
// empty on parse failure.
func domainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(parsed.Host, "www."))
}
