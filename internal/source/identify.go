package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Gokul1734/factsense/internal/cache"
	"github.com/Gokul1734/factsense/internal/llm"
	"github.com/Gokul1734/factsense/internal/model"
)

const assessmentTTL = 12 * time.Hour

// identifyPolicy matches the assessment call contract: up to 2 extra
// attempts with attempt×5s backoff on rate limits, 2 with attempt×3s on
// other transport failures, immediate skip on a missing model.
var identifyPolicy = llm.RetryPolicy{
	MaxRateLimitRetries: 2,
	RateLimitBackoff:    5 * time.Second,
	MaxTransportRetries: 2,
	TransportBackoff:    3 * time.Second,
}

// Identifier resolves the apparent source of a claim to a credibility
// assessment, LLM-assisted with a deterministic fallback. Failure is never
// fatal: any error in this path degrades to an unknown-source default.
type Identifier struct {
	runner *llm.Runner
	models []string
	cache  cache.Cache
	logger *log.Logger
}

// NewIdentifier creates a new source identifier. runner may be disabled
// (nil client); the identifier then always uses the deterministic table.
func NewIdentifier(runner *llm.Runner, models []string, c cache.Cache, logger *log.Logger) *Identifier {
	return &Identifier{
		runner: runner,
		models: models,
		cache:  c,
		logger: logger,
	}
}

// Identify extracts source signals from the text and URL and resolves a
// credibility assessment.
func (id *Identifier) Identify(ctx context.Context, text, rawURL string) (analysis model.SourceAnalysis) {
	// Source assessment must never abort verification; degrade hard
	// failures to the minimal-confidence unknown default.
	defer func() {
		if r := recover(); r != nil {
			id.logger.Printf("source identification panic: %v", r)
			analysis = model.SourceAnalysis{
				SourceAssessment: model.SourceAssessment{
					CredibilityScore: 0.1,
					CredibilityTier:  model.TierUnknown,
					SourceType:       "unknown",
					LanguageFocus:    "unknown",
					Reasoning:        fmt.Sprintf("detection failed: %.100v", r),
					Confidence:       0.1,
				},
			}
		}
	}()

	info := ExtractSourceInfo(text, rawURL)
	assessment := id.assess(ctx, info, text)

	return model.SourceAnalysis{
		SourceAssessment: assessment,
		Platform:         info.SocialPlatform,
		AccountName:      info.AccountName,
		Domain:           info.URLDomain,
	}
}

// assessmentWire is the strict response schema for the assessment prompt.
// credibility_score and confidence are required numerics; anything else is
// a parse error and feeds the deterministic fallback.
type assessmentWire struct {
	IsNewsSource     bool     `json:"is_news_source"`
	OrganizationName string   `json:"organization_name"`
	CredibilityScore *float64 `json:"credibility_score"`
	CredibilityTier  string   `json:"credibility_tier"`
	SourceType       string   `json:"source_type"`
	LanguageFocus    string   `json:"language_focus"`
	Reasoning        string   `json:"reasoning"`
	Confidence       *float64 `json:"confidence"`
}

// assess resolves credibility for the extracted signals, serving repeat
// requests from cache. The first successful assessment wins for a key.
func (id *Identifier) assess(ctx context.Context, info model.SourceInfo, contentSample string) model.SourceAssessment {
	key := cache.SourceKey(info.AccountName, info.URLDomain, info.PotentialSources)
	if cached, ok := id.cache.Get(key); ok {
		if assessment, ok := cached.(model.SourceAssessment); ok {
			return assessment
		}
	}

	if id.runner.Enabled() {
		if assessment, err := id.assessWithLLM(ctx, info, contentSample); err == nil {
			id.cache.Set(key, assessment, assessmentTTL)
			return assessment
		} else {
			id.logger.Printf("LLM source assessment failed, using fallback: %v", err)
		}
	}

	assessment := FallbackAssessment(info)
	id.cache.Set(key, assessment, assessmentTTL)
	return assessment
}

func (id *Identifier) assessWithLLM(ctx context.Context, info model.SourceInfo, contentSample string) (model.SourceAssessment, error) {
	req := llm.CompletionRequest{
		Prompt:      buildAssessmentPrompt(info, contentSample),
		MaxTokens:   400,
		Temperature: 0.1,
	}

	var result model.SourceAssessment
	usedModel, err := id.runner.Run(ctx, id.models, req, identifyPolicy, func(raw string) error {
		obj, ok := llm.ExtractJSONObject(raw)
		if !ok {
			return fmt.Errorf("no JSON object in response")
		}
		var wire assessmentWire
		if err := json.Unmarshal([]byte(obj), &wire); err != nil {
			return err
		}
		if wire.CredibilityScore == nil || wire.Confidence == nil {
			return fmt.Errorf("missing credibility_score or confidence")
		}
		result = model.SourceAssessment{
			IsNewsSource:     wire.IsNewsSource,
			OrganizationName: wire.OrganizationName,
			CredibilityScore: clamp01(*wire.CredibilityScore),
			CredibilityTier:  parseTier(wire.CredibilityTier),
			SourceType:       orUnknown(wire.SourceType),
			LanguageFocus:    orUnknown(wire.LanguageFocus),
			Reasoning:        wire.Reasoning,
			Confidence:       clamp01(*wire.Confidence),
		}
		return nil
	})
	if err != nil {
		return model.SourceAssessment{}, err
	}

	id.logger.Printf("LLM source assessment using %s", usedModel)
	return result, nil
}

// knownOrganization is one row of the curated credibility fallback table.
type knownOrganization struct {
	name  string
	score float64
	tier  model.Tier
	kind  string
	lang  string
}

// knownOrganizations is consulted in order, first match wins.
var knownOrganizations = []knownOrganization{
	{"puthiya thalaimurai", 0.85, model.Tier1, "regional", "tamil"},
	{"puthiyathalaimurai", 0.85, model.Tier1, "regional", "tamil"},
	{"the hindu", 0.9, model.Tier1, "national", "english"},
	{"times of india", 0.85, model.Tier1, "national", "english"},
	{"ndtv", 0.85, model.Tier1, "national", "english"},
	{"india today", 0.8, model.Tier1, "national", "english"},
	{"dinamalar", 0.75, model.Tier2, "regional", "tamil"},
	{"vikatan", 0.75, model.Tier2, "regional", "tamil"},
	{"bbc", 0.95, model.Tier1, "international", "english"},
	{"reuters", 0.95, model.Tier1, "international", "english"},
}

// FallbackAssessment resolves credibility without an LLM: candidate names
// and the account handle are normalized and matched against the curated
// organization table; absent a match the source is unknown at 0.3.
func FallbackAssessment(info model.SourceInfo) model.SourceAssessment {
	for _, candidate := range info.PotentialSources {
		lower := strings.ToLower(candidate)
		for _, org := range knownOrganizations {
			if strings.Contains(lower, org.name) {
				return matchedAssessment(org, "matched known credible source: "+org.name, 0.8)
			}
		}
	}

	account := normalizeHandle(info.AccountName)
	if account != "" {
		for _, org := range knownOrganizations {
			name := normalizeHandle(org.name)
			if strings.Contains(account, name) || strings.Contains(name, account) {
				return matchedAssessment(org, "matched account name to known credible source: "+org.name, 0.9)
			}
		}
	}

	return model.SourceAssessment{
		IsNewsSource:     false,
		CredibilityScore: 0.3,
		CredibilityTier:  model.TierUnknown,
		SourceType:       "unknown",
		LanguageFocus:    "unknown",
		Reasoning:        "unknown source, cannot verify credibility",
		Confidence:       0.5,
	}
}

func matchedAssessment(org knownOrganization, reasoning string, confidence float64) model.SourceAssessment {
	return model.SourceAssessment{
		IsNewsSource:     true,
		OrganizationName: org.name,
		CredibilityScore: org.score,
		CredibilityTier:  org.tier,
		SourceType:       org.kind,
		LanguageFocus:    org.lang,
		Reasoning:        reasoning,
		Confidence:       confidence,
	}
}

// normalizeHandle strips separators so handle variants like
// "puthiya_thalaimurai" and "puthiyathalaimurai" compare equal.
func normalizeHandle(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(s))
}

func buildAssessmentPrompt(info model.SourceInfo, contentSample string) string {
	if len(contentSample) > 300 {
		contentSample = contentSample[:300]
	}

	return fmt.Sprintf(`You are an expert media literacy analyst. Assess the credibility of this news source based on the available information.

SOURCE INFORMATION:
- URL Domain: %s
- Social Platform: %s
- Account Name: %s
- Potential Source Names: %s
- Content Indicators: %s

CONTENT SAMPLE: %q

ASSESSMENT CRITERIA:
1. Is this a recognized news organization?
2. What is the reputation/credibility level?
3. Is this regional/local vs national/international media?
4. Any known bias or reliability issues?

For Indian/South Asian context, consider:
- Puthiya Thalaimurai TV: Credible Tamil news channel
- The Hindu, Times of India, NDTV, India Today: Major national outlets
- Regional outlets like Dinamalar, Vikatan, Eenadu, Manorama: Generally credible regional sources
- DD News, AIR: Government-owned but factual
- Wire services like PTI, ANI: High credibility

RESPOND ONLY IN THIS JSON FORMAT:
{
    "is_news_source": true/false,
    "organization_name": "detected name or null",
    "credibility_score": 0.0-1.0,
    "credibility_tier": "tier1/tier2/tier3/unknown",
    "source_type": "national/regional/local/international/social_only/unknown",
    "language_focus": "english/tamil/hindi/multilingual/unknown",
    "reasoning": "brief explanation of assessment",
    "confidence": 0.0-1.0
}

SCORING GUIDE:
- 0.9-1.0: Major established outlets (BBC, Reuters, The Hindu, etc.)
- 0.7-0.8: Regional established outlets (Puthiya Thalaimurai, Dinamalar, etc.)
- 0.5-0.6: Local outlets or newer sources with decent reputation
- 0.2-0.4: Unknown or questionable sources
- 0.0-0.1: Known unreliable sources`,
		info.URLDomain, info.SocialPlatform, info.AccountName,
		strings.Join(info.PotentialSources, ", "),
		strings.Join(info.ContentIndicators, ", "),
		contentSample)
}

func parseTier(s string) model.Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tier1":
		return model.Tier1
	case "tier2":
		return model.Tier2
	case "tier3":
		return model.Tier3
	default:
		return model.TierUnknown
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
