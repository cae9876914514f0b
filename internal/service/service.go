package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Gokul1734/factsense/internal/cache"
	"github.com/Gokul1734/factsense/internal/category"
	"github.com/Gokul1734/factsense/internal/credibility"
	"github.com/Gokul1734/factsense/internal/embed"
	"github.com/Gokul1734/factsense/internal/graph"
	"github.com/Gokul1734/factsense/internal/ingest"
	"github.com/Gokul1734/factsense/internal/llm"
	"github.com/Gokul1734/factsense/internal/model"
	"github.com/Gokul1734/factsense/internal/normalize"
	"github.com/Gokul1734/factsense/internal/plan"
	"github.com/Gokul1734/factsense/internal/rank"
	"github.com/Gokul1734/factsense/internal/retrieve"
	"github.com/Gokul1734/factsense/internal/search"
	"github.com/Gokul1734/factsense/internal/source"
	"github.com/Gokul1734/factsense/internal/stats"
	"github.com/Gokul1734/factsense/internal/trend"
	"github.com/Gokul1734/factsense/internal/verdict"
)

// minTextLength is the shortest input worth verifying. Anything shorter is
// rejected before any provider is contacted.
const minTextLength = 10

// ErrInsufficientInput marks a request without enough usable text, the only
// failure surfaced to callers as a request-level error.
var ErrInsufficientInput = errors.New("insufficient input: need text or link with at least 10 characters of content")

// VerifyRequest is one verification request. At least one of Text and Link
// must be provided; when both are present the link's page augments the text.
type VerifyRequest struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// SourceIntelligence summarizes what was learned about the claim's origin.
type SourceIntelligence struct {
	Platform         string     `json:"platform,omitempty"`
	AccountName      string     `json:"account_name,omitempty"`
	Domain           string     `json:"domain,omitempty"`
	OrganizationName string     `json:"organization_name,omitempty"`
	IsNewsSource     bool       `json:"is_news_source"`
	CredibilityScore float64    `json:"credibility_score"`
	CredibilityTier  model.Tier `json:"credibility_tier"`
	SourceType       string     `json:"source_type"`
	Reasoning        string     `json:"reasoning,omitempty"`
}

// VerifyResponse is the full verification result.
type VerifyResponse struct {
	Input struct {
		NormalizedText string   `json:"normalized_text"`
		DetectedLang   string   `json:"detected_lang"`
		SearchTerms    []string `json:"search_terms"`
	} `json:"input"`
	Source    SourceIntelligence   `json:"source"`
	Verdict   model.VerdictResult  `json:"verdict"`
	Category  string               `json:"category"`
	RiskScore float64              `json:"risk_score"`
	Evidence  []model.EvidenceItem `json:"evidence"`
	Stats     stats.Snapshot       `json:"stats"`
}

// PredictResponse is the read-only rumor-trend view.
type PredictResponse struct {
	Clusters []graph.Cluster `json:"clusters"`
	Forecast trend.Forecast  `json:"forecast"`
}

// Service owns the full verification pipeline and all shared mutable state.
// One instance is created at process start; all methods are safe for
// concurrent use.
type Service struct {
	normalizer *normalize.Normalizer
	fetcher    *ingest.Fetcher
	identifier *source.Identifier
	planner    *plan.Planner
	retriever  *retrieve.Retriever
	synth      *verdict.Synthesizer
	classifier *category.Classifier
	claims     *graph.Graph
	running    *stats.Running
	logger     *log.Logger
}

// New wires the pipeline from configuration. Missing provider credentials
// disable the corresponding capability rather than failing construction.
func New(cfg *model.Config, logger *log.Logger) (*Service, error) {
	client, err := llm.NewClient(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	runner := llm.NewRunner(client)
	models := cfg.LLM.Models()

	embedder, err := embed.NewOpenAIEmbedder(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	store := cache.NewMemoryCache(cfg.Search.CacheTTL, 2*cfg.Search.CacheTTL)
	table := credibility.NewTable()
	fast := cfg.Performance.Fast()

	ranker := rank.NewRanker(asEmbedder(embedder), 0.28, logger)

	var web search.WebSearcher
	if c := search.NewSerperClient(cfg.Search); c != nil {
		web = c
	}
	var news search.NewsSearcher
	if c := search.NewNewsAPIClient(cfg.Search); c != nil {
		news = c
	}

	return &Service{
		normalizer: normalize.New(),
		fetcher:    ingest.NewFetcher(cfg.HTTP, store, logger),
		identifier: source.NewIdentifier(runner, models, store, logger),
		planner:    plan.NewPlanner(runner, models, fast, logger),
		retriever:  retrieve.NewRetriever(web, news, table, ranker, store, cfg.Search.CacheTTL, fast, logger),
		synth:      verdict.NewSynthesizer(runner, models, logger),
		classifier: category.NewClassifier(asEmbedder(embedder), logger),
		claims:     graph.New(asEmbedder(embedder), cfg.Graph.SimilarityThreshold, cfg.Graph.MaxClaims, logger),
		running:    stats.NewRunning(),
		logger:     logger,
	}, nil
}

// asEmbedder converts the possibly-nil concrete embedder into a clean nil
// interface, so downstream nil checks behave.
func asEmbedder(e *embed.OpenAIEmbedder) embed.Embedder {
	if e == nil {
		return nil
	}
	return e
}

// Verify runs the full pipeline for one claim. Besides ErrInsufficientInput
// every upstream failure degrades to a fallback path; an unexpected panic is
// reported as a generic verification failure.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (resp *VerifyResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("%v", r)
			if len(msg) > 200 {
				msg = msg[:200]
			}
			s.logger.Printf("verification panic: %s", msg)
			resp, err = nil, fmt.Errorf("verification failed")
		}
	}()

	text := strings.TrimSpace(req.Text)
	link := strings.TrimSpace(req.Link)
	if text == "" && link == "" {
		return nil, ErrInsufficientInput
	}
	if link == "" && len(text) < minTextLength {
		return nil, ErrInsufficientInput
	}

	var articleTitle string
	if link != "" {
		if page, ferr := s.fetcher.Fetch(ctx, link); ferr != nil {
			s.logger.Printf("link ingestion failed: %v", ferr)
		} else {
			articleTitle = page.Title
			if text == "" {
				text = page.ClaimText()
			}
		}
	}

	norm := s.normalizer.Normalize(text)
	if len(norm.Text) < minTextLength {
		return nil, ErrInsufficientInput
	}

	analysis := s.identifier.Identify(ctx, text, link)

	weight, maxResults := verdict.EvidenceWeight(analysis.CredibilityScore)

	queries := s.planner.BuildQueries(norm.Text, norm.SearchTerms, articleTitle)
	outlets := s.planner.RegionalOutlets(ctx, norm.Text, norm.Lang)
	if proposed := s.planner.Propose(ctx, norm.Text, norm.Lang); len(proposed.Queries) > 0 {
		// Plan queries extend the deterministic set; only the outlet list
		// stays bounded.
		queries = mergeQueries(queries, proposed.Queries, 0)
		outlets = mergeQueries(outlets, proposed.Outlets, 10)
	}

	evidence := s.retriever.Retrieve(ctx, norm.Text, articleTitle, queries, norm.SearchTerms, outlets, link, maxResults)

	result := s.synth.Synthesize(ctx, norm.Text, analysis.SourceAssessment, evidence, weight)

	cat := s.classifier.Classify(ctx, norm.Text)
	risk := s.claims.RecordAndScore(ctx, norm.Text)
	s.running.Record(result.Label, result.Confidence, cat)

	resp = &VerifyResponse{
		Source: SourceIntelligence{
			Platform:         analysis.Platform,
			AccountName:      analysis.AccountName,
			Domain:           analysis.Domain,
			OrganizationName: analysis.OrganizationName,
			IsNewsSource:     analysis.IsNewsSource,
			CredibilityScore: analysis.CredibilityScore,
			CredibilityTier:  analysis.CredibilityTier,
			SourceType:       analysis.SourceType,
			Reasoning:        analysis.Reasoning,
		},
		Verdict:   result,
		Category:  cat,
		RiskScore: risk,
		Evidence:  evidence,
		Stats:     s.running.Snapshot(),
	}
	resp.Input.NormalizedText = norm.Text
	resp.Input.DetectedLang = norm.Lang
	resp.Input.SearchTerms = norm.SearchTerms
	return resp, nil
}

// Predict returns current claim clusters and the rumor-volume forecast.
func (s *Service) Predict() PredictResponse {
	return PredictResponse{
		Clusters: s.claims.Clusters(),
		Forecast: trend.Project(s.claims.History()),
	}
}

// Stats returns the running verification statistics.
func (s *Service) Stats() stats.Snapshot {
	return s.running.Snapshot()
}

// mergeQueries deduplicates the concatenation of both lists, preserving
// order. A limit of 0 or less keeps everything.
func mergeQueries(first, second []string, limit int) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, q := range append(append([]string{}, first...), second...) {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		merged = append(merged, q)
		if limit > 0 && len(merged) >= limit {
			break
		}
	}
	return merged
}
