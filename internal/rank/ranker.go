package rank

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/Gokul1734/factsense/internal/credibility"
	"github.com/Gokul1734/factsense/internal/embed"
	"github.com/Gokul1734/factsense/internal/model"
)

// Score weights for the combined ordering. Relevance dominates so that a
// highly credible but off-topic result cannot outrank on-topic evidence.
const (
	relevanceWeight   = 0.7
	credibilityWeight = 0.3
)

// wikiCutoff is the minimum relevance an encyclopedia candidate needs to
// survive ranking. Encyclopedia pages match many queries superficially, so
// they are held to a stricter bar than news results.
const wikiCutoff = 0.75

// Ranker orders evidence by semantic relevance to the claim, blended with
// source credibility.
type Ranker struct {
	embedder  embed.Embedder
	threshold float64
	logger    *log.Logger
}

// NewRanker creates a ranker. embedder may be nil; ranking then degrades to
// pass-through in input order with no relevance filtering.
func NewRanker(embedder embed.Embedder, threshold float64, logger *log.Logger) *Ranker {
	if threshold <= 0 {
		threshold = 0.28
	}
	return &Ranker{
		embedder:  embedder,
		threshold: threshold,
		logger:    logger,
	}
}

// Rank scores each item against the claim and returns the surviving items
// ordered best-first. When the claim run keeps fewer than maxResults items
// and an article title is available, the pool is rescored against the title
// and the two runs are merged per URL on the higher relevance. Embedding
// failures fail open: the input is returned unchanged so retrieval quality
// degrades instead of verification aborting.
func (r *Ranker) Rank(ctx context.Context, claimText, articleTitle string, items []model.EvidenceItem, maxResults int) []model.EvidenceItem {
	if len(items) == 0 {
		return items
	}
	if r.embedder == nil {
		return r.dropWeakWikiCandidates(items)
	}

	queryVec, err := r.embedder.Embed(ctx, claimText)
	if err != nil {
		r.logger.Printf("relevance ranking skipped, embed claim: %v", err)
		return r.dropWeakWikiCandidates(items)
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = strings.TrimSpace(item.Title + " " + item.Snippet)
	}
	vecs, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil || len(vecs) != len(items) {
		r.logger.Printf("relevance ranking skipped, embed evidence: %v", err)
		return r.dropWeakWikiCandidates(items)
	}

	scored := r.scoreAgainst(queryVec, vecs, items)

	if articleTitle != "" && maxResults > 0 && len(scored) < maxResults {
		titleVec, err := r.embedder.Embed(ctx, articleTitle)
		if err != nil {
			r.logger.Printf("title rescoring skipped, embed title: %v", err)
		} else {
			scored = mergeByURL(scored, r.scoreAgainst(titleVec, vecs, items))
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return combined(scored[i]) > combined(scored[j])
	})

	return r.dropWeakWikiCandidates(scored)
}

// scoreAgainst attaches cosine relevance to each item whose similarity with
// the query vector clears the threshold.
func (r *Ranker) scoreAgainst(queryVec []float32, vecs [][]float32, items []model.EvidenceItem) []model.EvidenceItem {
	scored := make([]model.EvidenceItem, 0, len(items))
	for i, item := range items {
		rel := embed.Cosine(queryVec, vecs[i])
		if rel <= r.threshold {
			continue
		}
		item.Relevance = rel
		scored = append(scored, item)
	}
	return scored
}

func combined(item model.EvidenceItem) float64 {
	return relevanceWeight*item.Relevance + credibilityWeight*item.Credibility
}

// mergeByURL combines two scoring runs of the same pool, keeping for each
// URL the higher-relevance occurrence. First-seen order is preserved.
func mergeByURL(base, extra []model.EvidenceItem) []model.EvidenceItem {
	index := make(map[string]int, len(base))
	merged := make([]model.EvidenceItem, 0, len(base))
	for _, item := range append(append([]model.EvidenceItem{}, base...), extra...) {
		at, seen := index[item.URL]
		if !seen {
			index[item.URL] = len(merged)
			merged = append(merged, item)
			continue
		}
		if item.Relevance > merged[at].Relevance {
			merged[at] = item
		}
	}
	return merged
}

func (r *Ranker) dropWeakWikiCandidates(items []model.EvidenceItem) []model.EvidenceItem {
	kept := items[:0:0]
	for _, item := range items {
		if item.WikiCandidate && item.Relevance < wikiCutoff {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// TagWikiCandidates marks encyclopedia results so ranking can hold them to
// the stricter relevance cutoff.
func TagWikiCandidates(items []model.EvidenceItem) {
	for i := range items {
		if credibility.IsWikipedia(items[i].Domain) {
			items[i].WikiCandidate = true
		}
	}
}
