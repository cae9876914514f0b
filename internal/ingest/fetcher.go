package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/Gokul1734/factsense/internal/cache"
	"github.com/Gokul1734/factsense/internal/model"
)

const pageTTL = 30 * time.Minute

// Page is the usable content extracted from a fetched link.
type Page struct {
	Title       string
	Description string
	Text        string
}

// ClaimText returns the best text to verify from the page: the social-card
// description when present, otherwise title plus body text.
func (p Page) ClaimText() string {
	if p.Description != "" {
		return strings.TrimSpace(p.Title + ". " + p.Description)
	}
	return strings.TrimSpace(p.Title + ". " + p.Text)
}

// Fetcher retrieves linked pages and extracts their title, Open Graph
// description and visible text. Fetches respect robots.txt and a body size
// limit; pages are cached by URL.
type Fetcher struct {
	httpClient *http.Client
	robots     *RobotsChecker
	cache      cache.Cache
	userAgent  string
	maxBody    int64
	logger     *log.Logger
}

// NewFetcher creates a page fetcher from the HTTP configuration.
func NewFetcher(cfg model.HTTPConfig, c cache.Cache, logger *log.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody == 0 {
		maxBody = 2_000_000
	}

	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		robots:     NewRobotsChecker(cfg.UserAgent, timeout),
		cache:      c,
		userAgent:  cfg.UserAgent,
		maxBody:    maxBody,
		logger:     logger,
	}
}

// Fetch retrieves and parses the page at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	key := cache.Key("page", rawURL)
	if cached, ok := f.cache.Get(key); ok {
		if page, ok := cached.(Page); ok {
			return page, nil
		}
	}

	if !f.robots.Allowed(ctx, rawURL) {
		return Page{}, fmt.Errorf("fetch %s: disallowed by robots.txt", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	page, err := parsePage(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return Page{}, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	f.cache.Set(key, page, pageTTL)
	return page, nil
}

// parsePage walks the HTML tree collecting the title, Open Graph metadata
// and visible paragraph text.
func parsePage(r io.Reader) (Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Page{}, err
	}

	var page Page
	var body strings.Builder
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, inBody bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "nav", "footer", "aside":
				return
			case "title":
				if page.Title == "" {
					page.Title = strings.TrimSpace(textContent(n))
				}
			case "meta":
				prop := attr(n, "property")
				if prop == "" {
					prop = attr(n, "name")
				}
				content := strings.TrimSpace(attr(n, "content"))
				switch prop {
				case "og:description", "twitter:description", "description":
					if page.Description == "" {
						page.Description = content
					}
				case "og:title":
					if content != "" {
						page.Title = content
					}
				}
			case "body":
				inBody = true
			case "p":
				if inBody {
					if t := strings.TrimSpace(textContent(n)); t != "" {
						body.WriteString(t)
						body.WriteString(" ")
					}
					return
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child, inBody)
		}
	}
	walk(doc, false)

	page.Text = strings.Join(strings.Fields(body.String()), " ")
	if len(page.Text) > 2000 {
		page.Text = page.Text[:2000]
	}
	return page, nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
