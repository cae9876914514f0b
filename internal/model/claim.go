package model

import "time"

// Claim represents a single statement submitted for verification.
// Claims are immutable once recorded: they are appended to the in-memory
// history and inserted into the claim graph exactly once.
type Claim struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Tier is a coarse credibility bucket assigned to a domain or organization.
type Tier string

const (
	Tier1       Tier = "tier1"
	Tier2       Tier = "tier2"
	Tier3       Tier = "tier3"
	TierNewsAPI Tier = "newsapi"
	TierUnknown Tier = "unknown"
)

// EvidenceItem is a single retrieved web or news result considered as
// potential corroboration or contradiction of a claim. The URL is the
// dedup key; Relevance is attached by the ranker before the item is cached
// and the item is never mutated afterwards.
type EvidenceItem struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Domain      string  `json:"domain"`
	Tier        Tier    `json:"tier"`
	Credibility float64 `json:"credibility"`
	Date        string  `json:"date,omitempty"`
	Snippet     string  `json:"snippet,omitempty"`
	Relevance   float64 `json:"relevance_score,omitempty"`

	// WikiCandidate marks Wikipedia hits whose final inclusion is decided
	// by the ranker (kept only above a high relevance bar).
	WikiCandidate bool `json:"-"`
}
