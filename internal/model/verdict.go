package model

// VerdictLabel classifies the outcome of a verification.
type VerdictLabel string

const (
	LabelTrue          VerdictLabel = "True"
	LabelLikelyTrue    VerdictLabel = "Likely True"
	LabelPartiallyTrue VerdictLabel = "Partially True"
	LabelNeedsContext  VerdictLabel = "Needs Context"
	LabelOpinion       VerdictLabel = "Opinion/Editorial"
	LabelSatire        VerdictLabel = "Satire/Sarcasm"
	LabelUnverified    VerdictLabel = "Unverified"
	LabelMisleading    VerdictLabel = "Misleading"
	LabelFalse         VerdictLabel = "False"
)

// ValidLabel reports whether s is one of the known verdict labels.
func ValidLabel(s string) bool {
	switch VerdictLabel(s) {
	case LabelTrue, LabelLikelyTrue, LabelPartiallyTrue, LabelNeedsContext,
		LabelOpinion, LabelSatire, LabelUnverified, LabelMisleading, LabelFalse:
		return true
	}
	return false
}

// Methodology tags describe how a verdict was reached; "limited" marks the
// degraded deterministic path.
const (
	MethodSourceWeighted = "source-weighted"
	MethodEvidenceHeavy  = "evidence-heavy"
	MethodBalanced       = "balanced"
	MethodLimited        = "limited"
)

// VerdictResult is the final classification returned to the caller.
// It is produced fresh per request and never cached, since it depends on
// the full evidence set.
type VerdictResult struct {
	Label       VerdictLabel `json:"label"`
	Confidence  float64      `json:"confidence"`
	Explanation string       `json:"explanation"`
	Methodology string       `json:"methodology"`
	Factors     []string     `json:"factors"`
}
