package credibility

import (
	"strings"

	"github.com/Gokul1734/factsense/internal/model"
)

// tierEntry is one row of the curated trust table.
type tierEntry struct {
	domains     []string
	credibility float64
	tier        model.Tier
}

// Table resolves a domain to a credibility score and tier. Curated domains
// are checked first, then pattern heuristics for unlisted domains.
type Table struct {
	tiers []tierEntry
}

// NewTable creates the default curated table.
func NewTable() *Table {
	return &Table{
		tiers: []tierEntry{
			{
				domains: []string{
					"bbc.com", "reuters.com", "thehindu.com", "indiatoday.in",
					"ndtv.com", "timesofindia.com",
				},
				credibility: 0.9,
				tier:        model.Tier1,
			},
			{
				domains: []string{
					"dinamalar.com", "eenadu.net", "dainikbhaskar.com",
					"malayalamanorama.com", "vikatan.com", "news7tamil.com",
					"news7tamil.live", "tamil.news18.com", "polimernews.com",
				},
				credibility: 0.7,
				tier:        model.Tier2,
			},
		},
	}
}

// Lookup returns the credibility score and tier for a domain.
// Unlisted domains fall through to pattern heuristics: government,
// academic and Wikipedia domains rate 0.85/tier1, generic news-word
// domains 0.6/tier2, everything else 0.4/tier3.
func (t *Table) Lookup(domain string) (float64, model.Tier) {
	domain = strings.ToLower(domain)

	for _, entry := range t.tiers {
		for _, trusted := range entry.domains {
			if strings.Contains(domain, trusted) {
				return entry.credibility, entry.tier
			}
		}
	}

	switch {
	case containsAny(domain, "gov.", ".edu", "wikipedia.org"):
		return 0.85, model.Tier1
	case containsAny(domain, "news", "times", "post", "herald", "guardian"):
		return 0.6, model.Tier2
	default:
		return 0.4, model.Tier3
	}
}

// socialDomains are dropped from general web search results; social posts
// are claims, not corroboration.
var socialDomains = []string{"twitter.com", "facebook.com", "youtube.com", "tiktok.com"}

// IsSocialDomain reports whether the domain belongs to a social platform.
func IsSocialDomain(domain string) bool {
	return containsAny(strings.ToLower(domain), socialDomains...)
}

// IsWikipedia reports whether the domain is a Wikipedia property.
func IsWikipedia(domain string) bool {
	return strings.Contains(strings.ToLower(domain), "wikipedia.org")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
