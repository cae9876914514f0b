package retrieve

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/Gokul1734/factsense/internal/cache"
	"github.com/Gokul1734/factsense/internal/credibility"
	"github.com/Gokul1734/factsense/internal/model"
	"github.com/Gokul1734/factsense/internal/rank"
	"github.com/Gokul1734/factsense/internal/search"
)

// newsAPICredibility is assigned to news-API results, which come from an
// already-curated article index rather than the open web.
const newsAPICredibility = 0.85

// outletBoost is the floor applied to results from site-restricted searches
// against trusted regional outlets.
const outletBoost = 0.7

// Retriever gathers candidate evidence for a claim from general web search,
// trusted outlet site searches and a news article index, then relevance-ranks
// the deduplicated pool.
type Retriever struct {
	web      search.WebSearcher
	news     search.NewsSearcher
	table    *credibility.Table
	ranker   *rank.Ranker
	cache    cache.Cache
	cacheTTL time.Duration
	fast     bool
	logger   *log.Logger
}

// NewRetriever creates an evidence retriever. web and news may be nil; a
// missing provider contributes zero results instead of an error.
func NewRetriever(web search.WebSearcher, news search.NewsSearcher, table *credibility.Table,
	ranker *rank.Ranker, c cache.Cache, cacheTTL time.Duration, fast bool, logger *log.Logger) *Retriever {
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}
	return &Retriever{
		web:      web,
		news:     news,
		table:    table,
		ranker:   ranker,
		cache:    c,
		cacheTTL: cacheTTL,
		fast:     fast,
		logger:   logger,
	}
}

// Retrieve collects, deduplicates and ranks evidence for the claim. Each
// planned query runs against general web search, then site-restricted
// against the top trusted outlets and the claim's own linked domain.
// Repeat claims with the same normalized text and search terms are served
// from cache within the TTL.
func (r *Retriever) Retrieve(ctx context.Context, normalizedText, articleTitle string, queries, searchTerms, outlets []string, originalURL string, maxResults int) []model.EvidenceItem {
	if maxResults <= 0 {
		maxResults = 10
	}

	key := cache.EvidenceKey(normalizedText, searchTerms)
	if cached, ok := r.cache.Get(key); ok {
		if items, ok := cached.([]model.EvidenceItem); ok {
			return items
		}
	}

	if len(outlets) > 5 {
		outlets = outlets[:5]
	}
	originDomain := ""
	if originalURL != "" {
		if d := domainOf(originalURL); d != "" && !credibility.IsSocialDomain(d) {
			originDomain = d
		}
	}

	var pool []model.EvidenceItem
	for _, q := range queries {
		pool = append(pool, r.webQuery(ctx, q, 2*maxResults)...)
		pool = append(pool, r.outletQuery(ctx, q, outlets)...)
		pool = append(pool, r.originQuery(ctx, q, originDomain)...)
	}
	pool = append(pool, r.newsPass(ctx, searchTerms)...)

	pool = dedupeByURL(pool)
	rank.TagWikiCandidates(pool)
	ranked := r.ranker.Rank(ctx, normalizedText, articleTitle, pool, maxResults)

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	r.cache.Set(key, ranked, r.cacheTTL)
	return ranked
}

// webQuery runs one query against general web search, dropping
// social-platform hits and tagging the rest with table credibility.
func (r *Retriever) webQuery(ctx context.Context, query string, perQuery int) []model.EvidenceItem {
	if r.web == nil {
		return nil
	}

	results, err := r.web.Search(ctx, query, perQuery, "")
	if err != nil {
		r.logger.Printf("web search %q failed: %v", query, err)
		return nil
	}

	var items []model.EvidenceItem
	for _, res := range results {
		domain := domainOf(res.URL)
		if domain == "" || credibility.IsSocialDomain(domain) {
			continue
		}
		items = append(items, r.tagged(res, domain))
	}
	return items
}

// outletQuery runs one query site-restricted against the trusted regional
// outlets. Outlet hits get a credibility floor since the outlet itself was
// vetted during planning.
func (r *Retriever) outletQuery(ctx context.Context, query string, outlets []string) []model.EvidenceItem {
	if r.web == nil || len(outlets) == 0 {
		return nil
	}

	var items []model.EvidenceItem
	for _, outlet := range outlets {
		results, err := r.web.Search(ctx, query, 3, outlet)
		if err != nil {
			r.logger.Printf("outlet search %s failed: %v", outlet, err)
			continue
		}
		for _, res := range results {
			domain := domainOf(res.URL)
			if domain == "" {
				continue
			}
			item := r.tagged(res, domain)
			if item.Credibility < outletBoost {
				item.Credibility = outletBoost
				item.Tier = model.Tier2
			}
			items = append(items, item)
		}
	}
	return items
}

// originQuery searches the domain the claim itself linked to, so the claim's
// own outlet can corroborate or contradict it.
func (r *Retriever) originQuery(ctx context.Context, query, domain string) []model.EvidenceItem {
	if r.web == nil || domain == "" {
		return nil
	}

	results, err := r.web.Search(ctx, query, 3, domain)
	if err != nil {
		r.logger.Printf("origin search %s failed: %v", domain, err)
		return nil
	}

	var items []model.EvidenceItem
	for _, res := range results {
		d := domainOf(res.URL)
		if d == "" {
			continue
		}
		items = append(items, r.tagged(res, d))
	}
	return items
}

// newsPass queries the news article index on the top search terms. Skipped
// in fast mode and when fewer than 2 terms are available.
func (r *Retriever) newsPass(ctx context.Context, searchTerms []string) []model.EvidenceItem {
	if r.news == nil || r.fast || len(searchTerms) < 2 {
		return nil
	}

	terms := searchTerms
	if len(terms) > 3 {
		terms = terms[:3]
	}
	query := strings.Join(terms, " ")

	results, err := r.news.Search(ctx, query, "en", 5)
	if err != nil {
		r.logger.Printf("news search %q failed: %v", query, err)
		return nil
	}

	var items []model.EvidenceItem
	for _, res := range results {
		if res.Domain == "" {
			continue
		}
		items = append(items, model.EvidenceItem{
			Title:       res.Title,
			URL:         res.URL,
			Domain:      res.Domain,
			Tier:        model.TierNewsAPI,
			Credibility: newsAPICredibility,
			Date:        res.PublishedAt,
			Snippet:     res.Description,
		})
	}
	return items
}

func (r *Retriever) tagged(res search.WebResult, domain string) model.EvidenceItem {
	score, tier := r.table.Lookup(domain)
	return model.EvidenceItem{
		Title:       res.Title,
		URL:         res.URL,
		Domain:      domain,
		Tier:        tier,
		Credibility: score,
		Snippet:     res.Snippet,
	}
}

// dedupeByURL keeps the first occurrence of each URL, preserving order.
// Pass order encodes trust: general web first, then outlet-boosted, origin
// and news results.
func dedupeByURL(items []model.EvidenceItem) []model.EvidenceItem {
	seen := make(map[string]bool, len(items))
	unique := items[:0:0]
	for _, item := range items {
		if item.URL == "" || seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		unique = append(unique, item)
	}
	return unique
}

func domainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(parsed.Host, "www."))
}
