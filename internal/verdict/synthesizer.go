package verdict

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/Gokul1734/factsense/internal/llm"
	"github.com/Gokul1734/factsense/internal/model"
)

// verdictPolicy: one extra attempt after 5s on a rate limit, no transport
// retries, immediate skip on a missing model.
var verdictPolicy = llm.RetryPolicy{
	MaxRateLimitRetries: 1,
	RateLimitBackoff:    5 * time.Second,
}

// regionalOutlets is the allow-list of regional domains whose presence in
// the evidence set alone supports a "Likely True" fallback verdict.
var regionalOutlets = []string{
	"news7tamil.com", "news7tamil.live", "tamil.news18.com",
	"dinamalar.com", "vikatan.com", "maalaimalar.com", "polimernews.com",
}

// EvidenceWeight maps the source credibility score to how heavily evidence
// (vs. source reputation) drives the verdict, and how many evidence items
// retrieval should request.
func EvidenceWeight(credibility float64) (weight float64, maxResults int) {
	switch {
	case credibility >= 0.75:
		return 0.2, 3
	case credibility >= 0.60:
		return 0.4, 4
	case credibility >= 0.40:
		return 0.6, 6
	default:
		return 0.8, 8
	}
}

// EvidenceStrength is the max of the best single item score and the average
// of the 3 highest-scoring items, where each item scores
// 0.7×credibility + 0.3×relevance. Every item is scored, regardless of its
// position in the ranked list. Result is in [0,1].
func EvidenceStrength(items []model.EvidenceItem) float64 {
	if len(items) == 0 {
		return 0
	}

	scores := make([]float64, len(items))
	for i, item := range items {
		scores[i] = 0.7*item.Credibility + 0.3*item.Relevance
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	k := 3
	if len(scores) < k {
		k = len(scores)
	}
	var sum float64
	for _, s := range scores[:k] {
		sum += s
	}

	best := scores[0]
	if avg := sum / float64(k); avg > best {
		return avg
	}
	return best
}

// Synthesizer combines the source assessment and ranked evidence into a
// final verdict, LLM-assisted with a fully deterministic fallback.
type Synthesizer struct {
	runner *llm.Runner
	models []string
	logger *log.Logger
}

// NewSynthesizer creates a verdict synthesizer.
func NewSynthesizer(runner *llm.Runner, models []string, logger *log.Logger) *Synthesizer {
	return &Synthesizer{
		runner: runner,
		models: models,
		logger: logger,
	}
}

// Synthesize produces the final verdict. Every failure path lands on the
// deterministic fallback, so a VerdictResult is always returned.
func (s *Synthesizer) Synthesize(ctx context.Context, claimText string, assessment model.SourceAssessment,
	items []model.EvidenceItem, evidenceWeight float64) model.VerdictResult {

	if s.runner.Enabled() {
		if result, err := s.synthesizeWithLLM(ctx, claimText, assessment, items, evidenceWeight); err == nil {
			return result
		} else {
			s.logger.Printf("LLM verdict failed, using deterministic fallback: %v", err)
		}
	}

	return Fallback(assessment, items)
}

// verdictWire is the strict response schema for the verdict prompt.
type verdictWire struct {
	Label       string   `json:"label"`
	Confidence  *float64 `json:"confidence"`
	Explanation string   `json:"explanation"`
	Methodology string   `json:"methodology"`
	Factors     []string `json:"factors"`
}

func (s *Synthesizer) synthesizeWithLLM(ctx context.Context, claimText string, assessment model.SourceAssessment,
	items []model.EvidenceItem, evidenceWeight float64) (model.VerdictResult, error) {

	req := llm.CompletionRequest{
		Prompt:      buildVerdictPrompt(claimText, assessment, items, evidenceWeight),
		MaxTokens:   500,
		Temperature: 0.1,
	}

	var result model.VerdictResult
	usedModel, err := s.runner.Run(ctx, s.models, req, verdictPolicy, func(raw string) error {
		obj, ok := llm.ExtractJSONObject(raw)
		if !ok {
			return fmt.Errorf("no JSON object in response")
		}
		var wire verdictWire
		if err := json.Unmarshal([]byte(obj), &wire); err != nil {
			return err
		}
		label := strings.TrimSpace(wire.Label)
		if !model.ValidLabel(label) {
			return fmt.Errorf("unknown verdict label %q", wire.Label)
		}
		if wire.Confidence == nil {
			return fmt.Errorf("missing confidence")
		}
		result = model.VerdictResult{
			Label:       model.VerdictLabel(label),
			Confidence:  clamp01(*wire.Confidence),
			Explanation: wire.Explanation,
			Methodology: orDefault(wire.Methodology, model.MethodBalanced),
			Factors:     wire.Factors,
		}
		return nil
	})
	if err != nil {
		return model.VerdictResult{}, err
	}

	// A verified credible source lifts confidence in affirming verdicts.
	if assessment.CredibilityScore >= 0.7 &&
		(result.Label == model.LabelTrue || result.Label == model.LabelLikelyTrue) {
		result.Confidence = clamp01(result.Confidence + (assessment.CredibilityScore-0.5)*0.3)
	}

	s.logger.Printf("LLM verdict using %s: %s (%.2f)", usedModel, result.Label, result.Confidence)
	return result, nil
}

// Fallback is the deterministic verdict policy. It is a pure function of
// the assessment and evidence list and only ever produces "Likely True" or
// "Unverified".
func Fallback(assessment model.SourceAssessment, items []model.EvidenceItem) model.VerdictResult {
	credibility := assessment.CredibilityScore
	strength := EvidenceStrength(items)

	switch {
	case strength >= 0.7 ||
		(credibility >= 0.6 && strength >= 0.55) ||
		hasRegionalOutlet(items):
		return model.VerdictResult{
			Label:       model.LabelLikelyTrue,
			Confidence:  clamp01(0.6*strength + 0.4*credibility),
			Explanation: "Supporting coverage found in credible outlets.",
			Methodology: model.MethodEvidenceHeavy,
			Factors:     []string{"evidence_strength", "source_credibility"},
		}

	case credibility >= 0.7 && assessment.IsNewsSource:
		return model.VerdictResult{
			Label:       model.LabelLikelyTrue,
			Confidence:  clamp01(0.8 * credibility),
			Explanation: "Claim originates from a recognized credible news source.",
			Methodology: model.MethodSourceWeighted,
			Factors:     []string{"source_credibility"},
		}

	default:
		confidence := 0.5*credibility + 0.2*strength
		if confidence < 0.25 {
			confidence = 0.25
		}
		return model.VerdictResult{
			Label:       model.LabelUnverified,
			Confidence:  confidence,
			Explanation: "Insufficient corroborating evidence to verify this claim.",
			Methodology: model.MethodLimited,
			Factors:     []string{"insufficient_evidence"},
		}
	}
}

func hasRegionalOutlet(items []model.EvidenceItem) bool {
	for _, item := range items {
		domain := strings.ToLower(item.Domain)
		for _, outlet := range regionalOutlets {
			if strings.Contains(domain, outlet) {
				return true
			}
		}
	}
	return false
}

func buildVerdictPrompt(claimText string, assessment model.SourceAssessment,
	items []model.EvidenceItem, evidenceWeight float64) string {

	if len(claimText) > 500 {
		claimText = claimText[:500]
	}

	var evidence strings.Builder
	top := items
	if len(top) > 3 {
		top = top[:3]
	}
	if len(top) == 0 {
		evidence.WriteString("(no corroborating evidence found)")
	}
	for i, item := range top {
		fmt.Fprintf(&evidence, "%d. %s (%s, credibility %.2f)\n", i+1, item.Title, item.Domain, item.Credibility)
	}

	return fmt.Sprintf(`You are a careful fact-checking analyst. Assess this claim using the source assessment and evidence below.

CLAIM: %q

SOURCE ASSESSMENT:
- Organization: %s
- Is news source: %t
- Credibility score: %.2f (tier %s)
- Source type: %s
- Reasoning: %s

EVIDENCE (weight %.1f relative to source reputation):
%s
VERDICT LABELS: True, Likely True, Partially True, Needs Context, Opinion/Editorial, Satire/Sarcasm, Unverified, Misleading, False

RESPOND ONLY IN THIS JSON FORMAT:
{
    "label": "one of the verdict labels",
    "confidence": 0.0-1.0,
    "explanation": "brief reasoning",
    "methodology": "source-weighted/evidence-heavy/balanced/limited",
    "factors": ["key factors considered"]
}`,
		claimText,
		assessment.OrganizationName, assessment.IsNewsSource,
		assessment.CredibilityScore, assessment.CredibilityTier,
		assessment.SourceType, assessment.Reasoning,
		evidenceWeight, evidence.String())
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
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
