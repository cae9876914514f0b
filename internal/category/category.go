package category

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/Gokul1734/factsense/internal/embed"
)

// matchThreshold is the minimum anchor similarity for an embedding-based
// classification; below it the keyword fallback decides.
const matchThreshold = 0.35

// Uncategorized is returned when neither path produces a match.
const Uncategorized = "general"

// anchor pairs a category with a prototypical sentence used for embedding
// similarity, plus keywords for the deterministic fallback.
type anchor struct {
	name     string
	prompt   string
	keywords []string
}

var anchors = []anchor{
	{
		name:     "politics",
		prompt:   "Political news about government, ministers, elections, parties and policy decisions",
		keywords: []string{"minister", "election", "government", "party", "parliament", "policy", "vote", "bjp", "congress", "dmk"},
	},
	{
		name:     "health",
		prompt:   "Health information about diseases, vaccines, medicine, hospitals and medical advice",
		keywords: []string{"vaccine", "virus", "disease", "hospital", "doctor", "cure", "medicine", "covid", "cancer", "health"},
	},
	{
		name:     "disaster",
		prompt:   "Reports of natural disasters, floods, earthquakes, cyclones and accidents",
		keywords: []string{"flood", "earthquake", "cyclone", "rain", "accident", "fire", "collapse", "rescue", "disaster"},
	},
	{
		name:     "finance",
		prompt:   "Financial claims about money, banks, investment schemes, lotteries and scams",
		keywords: []string{"bank", "money", "scheme", "lottery", "investment", "scam", "fraud", "rupees", "cash", "prize"},
	},
	{
		name:     "communal",
		prompt:   "Content about religious communities, communal tension and inter-community incidents",
		keywords: []string{"hindu", "muslim", "christian", "temple", "mosque", "church", "communal", "religion"},
	},
	{
		name:     "entertainment",
		prompt:   "Entertainment news about movies, actors, celebrities and television",
		keywords: []string{"movie", "actor", "actress", "film", "cinema", "celebrity", "song", "serial"},
	},
	{
		name:     "technology",
		prompt:   "Technology news about apps, phones, internet services and cyber incidents",
		keywords: []string{"app", "phone", "whatsapp", "internet", "cyber", "hack", "data", "ai", "software"},
	},
}

// Classifier assigns a coarse topic category to claim text, used for
// per-category statistics.
type Classifier struct {
	embedder embed.Embedder
	logger   *log.Logger

	mu         sync.Mutex
	anchorVecs [][]float32
}

// NewClassifier creates a category classifier. embedder may be nil; the
// classifier then always uses keywords.
func NewClassifier(embedder embed.Embedder, logger *log.Logger) *Classifier {
	return &Classifier{
		embedder: embedder,
		logger:   logger,
	}
}

// Classify returns the best-matching category for the text. Embedding
// failures fall through to keyword matching.
func (c *Classifier) Classify(ctx context.Context, text string) string {
	if c.embedder != nil {
		if name, ok := c.classifyByEmbedding(ctx, text); ok {
			return name
		}
	}
	return classifyByKeywords(text)
}

func (c *Classifier) classifyByEmbedding(ctx context.Context, text string) (string, bool) {
	anchorVecs, err := c.ensureAnchors(ctx)
	if err != nil {
		c.logger.Printf("category anchors unavailable, using keywords: %v", err)
		return "", false
	}

	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		c.logger.Printf("category embedding failed, using keywords: %v", err)
		return "", false
	}

	best := -1
	bestSim := matchThreshold
	for i, av := range anchorVecs {
		if sim := embed.Cosine(vec, av); sim > bestSim {
			bestSim = sim
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return anchors[best].name, true
}

// ensureAnchors lazily embeds the anchor prompts on first use. A failed
// attempt is retried on the next classification.
func (c *Classifier) ensureAnchors(ctx context.Context) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.anchorVecs != nil {
		return c.anchorVecs, nil
	}

	prompts := make([]string, len(anchors))
	for i, a := range anchors {
		prompts[i] = a.prompt
	}
	vecs, err := c.embedder.EmbedBatch(ctx, prompts)
	if err != nil {
		return nil, err
	}
	c.anchorVecs = vecs
	return vecs, nil
}

// classifyByKeywords scores each category by keyword hits, highest wins.
func classifyByKeywords(text string) string {
	lower := strings.ToLower(text)

	best := Uncategorized
	bestHits := 0
	for _, a := range anchors {
		hits := 0
		for _, kw := range a.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = a.name
		}
	}
	return best
}
