package search

import (
	"bytes"
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

// WebResult is a single raw web search hit before credibility tagging.
type WebResult struct {
	Title   string
	URL     string
	Snippet string
}

// WebSearcher is the general web search capability. An empty site performs
// an unrestricted search; otherwise results are restricted to the given
// domain.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int, site string) ([]WebResult, error)
}

// SerperClient implements WebSearcher against a Serper-style JSON search
// endpoint (POST {"q": ..., "num": ...} with an X-API-KEY header). The
// endpoint is configurable so self-hosted SERP proxies work too.
type SerperClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *Limiter
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// NewSerperClient creates a web search client from configuration.
// Returns nil when no API key is configured; retrieval then treats web
// search as an unavailable provider (zero results).
func NewSerperClient(cfg model.SearchConfig) *SerperClient {
	if cfg.WebAPIKey == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &SerperClient{
		endpoint: cfg.WebEndpoint,
		apiKey:   cfg.WebAPIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: NewLimiter(cfg.RatePerSec, cfg.Burst),
	}
}

// Search runs one query, optionally restricted to a site.
func (c *SerperClient) Search(ctx context.Context, query string, maxResults int, site string) ([]WebResult, error) {
	if site != "" {
		query = fmt.Sprintf("site:%s %s", site, query)
	}

	host := c.endpoint
	if parsed, err := url.Parse(c.endpoint); err == nil {
		host = parsed.Host
	}
	if err := c.limiter.Wait(ctx, host); err != nil {
		return nil, err
	}

	body, err := json.Marshal(serperRequest{Query: query, Num: maxResults})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search: unexpected status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("web search: read body: %w", err)
	}

	var parsed serperResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("web search: decode: %w", err)
	}

	results := make([]WebResult, 0, len(parsed.Organic))
	for _, r := range parsed.Organic {
		if r.Link == "" || r.Title == "" {
			continue
		}
		results = append(results, WebResult{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: strings.TrimSpace(r.Snippet),
		})
	}
	return results, nil
}
