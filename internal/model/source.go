package model

// SourceInfo holds raw signals extracted from a claim's URL and text before
// any credibility resolution: platform, account handle, candidate
// organization names and content indicators.
type SourceInfo struct {
	PotentialSources  []string `json:"potential_sources"`
	URLDomain         string   `json:"url_domain,omitempty"`
	SocialPlatform    string   `json:"social_platform,omitempty"`
	AccountName       string   `json:"account_name,omitempty"`
	ContentIndicators []string `json:"content_indicators,omitempty"`
}

// SourceAssessment is the resolved credibility verdict for an apparent
// source. Assessments are cached by a key derived from account name, domain
// and the candidate-source list; the first successful assessment wins for
// that key and is never overwritten.
type SourceAssessment struct {
	IsNewsSource     bool    `json:"is_news_source"`
	OrganizationName string  `json:"organization_name,omitempty"`
	CredibilityScore float64 `json:"credibility_score"`
	CredibilityTier  Tier    `json:"credibility_tier"`
	SourceType       string  `json:"source_type"`
	LanguageFocus    string  `json:"language_focus"`
	Reasoning        string  `json:"reasoning"`
	Confidence       float64 `json:"confidence"`
}

// SourceAnalysis combines the raw extraction signals with the resolved
// assessment; this is what the verification flow passes downstream.
type SourceAnalysis struct {
	SourceAssessment

	Platform    string `json:"platform,omitempty"`
	AccountName string `json:"account_name,omitempty"`
	Domain      string `json:"domain,omitempty"`
}
