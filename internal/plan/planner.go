package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Gokul1734/factsense/internal/llm"
)

// Plan is the LLM-proposed portion of a search plan. Both slices are empty
// in fast mode or when no completion client is configured; callers then
// rely solely on the deterministic query set and curated outlets.
type Plan struct {
	Queries []string `json:"queries"`
	Outlets []string `json:"outlets"`
}

// Planner derives diversified search queries and trusted regional outlet
// domains from normalized claim text.
type Planner struct {
	runner *llm.Runner
	models []string
	fast   bool
	logger *log.Logger
}

// NewPlanner creates a new query planner.
func NewPlanner(runner *llm.Runner, models []string, fast bool, logger *log.Logger) *Planner {
	return &Planner{
		runner: runner,
		models: models,
		fast:   fast,
		logger: logger,
	}
}

// entityTerms is a small allow-list of terms that anchor an
// entity-prioritized query variant when present.
var entityTerms = map[string]bool{
	"stalin": true, "oxford": true, "europe": true, "minister": true, "chief": true,
}

// BuildQueries constructs up to 3 deduplicated query variants:
// quoted article title (plus title+top-term), the top-4 search terms,
// an entity-prioritized variant, and a first-5-words fallback.
func (p *Planner) BuildQueries(normalizedText string, searchTerms []string, articleTitle string) []string {
	var queries []string

	if title := strings.TrimSpace(articleTitle); title != "" && len(strings.Fields(title)) >= 3 {
		queries = append(queries, fmt.Sprintf("%q", title))
		if len(searchTerms) > 0 {
			queries = append(queries, title+" "+searchTerms[0])
		}
	}

	if len(searchTerms) >= 2 {
		top := searchTerms
		if len(top) > 4 {
			top = top[:4]
		}
		queries = append(queries, strings.Join(top, " "))
	}

	var entities, rest []string
	for _, term := range searchTerms {
		if entityTerms[strings.ToLower(term)] {
			entities = append(entities, term)
		} else {
			rest = append(rest, term)
		}
	}
	if len(entities) > 0 {
		if len(rest) > 2 {
			rest = rest[:2]
		}
		queries = append(queries, strings.Join(append(entities, rest...), " "))
	}

	if words := strings.Fields(normalizedText); len(words) > 0 {
		if len(words) > 5 {
			words = words[:5]
		}
		queries = append(queries, strings.Join(words, " "))
	}

	seen := make(map[string]bool)
	var unique []string
	for _, q := range queries {
		if q == "" || seen[q] || len(q) <= 5 {
			continue
		}
		seen[q] = true
		unique = append(unique, q)
		if len(unique) >= 3 {
			break
		}
	}
	return unique
}

// regionByLang maps sniffed language codes to outlet regions.
var regionByLang = map[string]string{
	"ta": "tamil",
	"te": "telugu",
	"ml": "malayalam",
	"hi": "hindi",
	"bn": "bengali",
}

// regionKeywords infers a region from English text when the language is
// unknown or English. Ordered, first match wins.
var regionKeywords = []struct {
	region   string
	keywords []string
}{
	{"tamil", []string{"tamil nadu", "chennai", "stalin", "coimbatore", "madurai", "thalaimurai", "dinamalar", "tamil"}},
	{"telugu", []string{"telangana", "andhra", "hyderabad", "telugu", "eenadu", "sakshi"}},
	{"malayalam", []string{"kerala", "kochi", "thiruvananthapuram", "malayalam", "manorama", "mathrubhumi"}},
	{"hindi", []string{"uttar pradesh", "delhi", "hindi", "dainik", "jagran", "bhaskar"}},
	{"bengali", []string{"kolkata", "bengal", "bengali", "anandabazar"}},
}

// curatedOutlets is the fallback table of credible regional outlet domains.
var curatedOutlets = map[string][]string{
	"tamil":     {"puthiyathalaimurai.com", "dinamalar.com", "vikatan.com", "maalaimalar.com", "thanthitv.com"},
	"telugu":    {"eenadu.net", "sakshi.com", "andhrajyothy.com"},
	"malayalam": {"manoramaonline.com", "mathrubhumi.com", "asianetnews.com"},
	"hindi":     {"dainikbhaskar.com", "jagran.com", "aajtak.in", "ndtv.com"},
	"bengali":   {"anandabazar.com", "bartamanpatrika.com"},
}

// inferRegion is a lightweight keyword heuristic over English text.
func inferRegion(text string) string {
	t := strings.ToLower(text)
	for _, rk := range regionKeywords {
		for _, kw := range rk.keywords {
			if strings.Contains(t, kw) {
				return rk.region
			}
		}
	}
	return "unknown"
}

// resolveRegion prefers the detected language, falling back to keyword
// inference for unknown/English text.
func resolveRegion(normalizedText, detectedLang string) string {
	if region, ok := regionByLang[detectedLang]; ok {
		return region
	}
	return inferRegion(normalizedText)
}

// RegionalOutlets returns credible regional outlet domains for the claim.
// Fast mode returns at most 5 curated domains without touching the LLM;
// otherwise LLM-proposed domains are merged with the curated defaults
// (deduplicated, capped at 10).
func (p *Planner) RegionalOutlets(ctx context.Context, normalizedText, detectedLang string) []string {
	defaults := curatedOutlets[resolveRegion(normalizedText, detectedLang)]

	if p.fast {
		if len(defaults) > 5 {
			return defaults[:5]
		}
		return defaults
	}

	if !p.runner.Enabled() {
		return defaults
	}

	proposed, err := p.outletsFromLLM(ctx, normalizedText)
	if err != nil {
		p.logger.Printf("regional outlet lookup failed, using curated defaults: %v", err)
		return defaults
	}

	return mergeDomains(proposed, defaults, 10)
}

func (p *Planner) outletsFromLLM(ctx context.Context, normalizedText string) ([]string, error) {
	prompt := fmt.Sprintf("List 10 credible regional Indian news outlet domains relevant to this claim. "+
		"Prefer the language/region inferred from the text. Respond ONLY as a JSON array of domains.\n\nTEXT: %s\n",
		truncate(normalizedText, 400))

	req := llm.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   160,
		Temperature: 0.1,
	}

	var domains []string
	// Single-shot on the primary model; curated defaults cover failure.
	_, err := p.runner.Run(ctx, p.models[:1], req, llm.RetryPolicy{}, func(raw string) error {
		arr, ok := llm.ExtractJSONArray(raw)
		if !ok {
			return fmt.Errorf("no JSON array in response")
		}
		var parsed []string
		if err := json.Unmarshal([]byte(arr), &parsed); err != nil {
			return err
		}
		for _, d := range parsed {
			d = strings.ToLower(strings.TrimSpace(d))
			if strings.Contains(d, ".") {
				domains = append(domains, d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return domains, nil
}

// Propose asks the LLM for high-signal queries and outlet domains in one
// broader prompt. Returns an empty plan in fast mode or without a client.
func (p *Planner) Propose(ctx context.Context, normalizedText, detectedLang string) Plan {
	if p.fast || !p.runner.Enabled() {
		return Plan{}
	}

	prompt := fmt.Sprintf("Extract key entities and propose 3-5 precise search queries (short) for fact-checking, "+
		"plus up to 8 credible outlet domains relevant to the language/region. "+
		"Output JSON only with keys 'queries' and 'outlets'.\n\nTEXT: %s\nLANG: %s",
		truncate(normalizedText, 400), detectedLang)

	req := llm.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   220,
		Temperature: 0.1,
	}

	var result Plan
	_, err := p.runner.Run(ctx, p.models, req, llm.RetryPolicy{}, func(raw string) error {
		obj, ok := llm.ExtractJSONObject(raw)
		if !ok {
			return fmt.Errorf("no JSON object in response")
		}
		var wire Plan
		if err := json.Unmarshal([]byte(obj), &wire); err != nil {
			return err
		}
		for _, q := range wire.Queries {
			q = strings.TrimSpace(q)
			if len(q) > 5 {
				result.Queries = append(result.Queries, q)
			}
		}
		for _, d := range wire.Outlets {
			d = strings.ToLower(strings.TrimSpace(d))
			if strings.Contains(d, ".") {
				result.Outlets = append(result.Outlets, d)
			}
		}
		if len(result.Queries) > 5 {
			result.Queries = result.Queries[:5]
		}
		if len(result.Outlets) > 8 {
			result.Outlets = result.Outlets[:8]
		}
		return nil
	})
	if err != nil {
		p.logger.Printf("LLM search plan failed: %v", err)
		return Plan{}
	}
	return result
}

// mergeDomains concatenates the two lists preserving order, deduplicated
// and capped.
func mergeDomains(first, second []string, cap int) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, d := range append(append([]string{}, first...), second...) {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		merged = append(merged, d)
		if len(merged) >= cap {
			break
		}
	}
	return merged
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
