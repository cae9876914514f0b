package source

import (
	"testing"

	"github.com/Gokul1734/factsense/internal/model"
)

func TestExtractSourceInfo_InstagramAccount(t *testing.T) {
	info := ExtractSourceInfo("", "https://www.instagram.com/puthiyathalaimurai/")

	if info.SocialPlatform != "instagram" {
		t.Errorf("platform = %q, want instagram", info.SocialPlatform)
	}
	if info.AccountName != "puthiyathalaimurai" {
		t.Errorf("account = %q, want puthiyathalaimurai", info.AccountName)
	}
}

func TestExtractSourceInfo_InstagramPostIDRejected(t *testing.T) {
	info := ExtractSourceInfo("Video posted by puthiyathalaimurai on September 12, 2024: flood warning",
		"https://www.instagram.com/p/Cx12345/")

	if info.SocialPlatform != "instagram" {
		t.Errorf("platform = %q, want instagram", info.SocialPlatform)
	}
	// The path segment "p" is a post marker, so the handle must come from
	// the caption instead.
	if info.AccountName != "puthiyathalaimurai" {
		t.Errorf("account = %q, want puthiyathalaimurai from content", info.AccountName)
	}
}

func TestExtractSourceInfo_TwitterAndX(t *testing.T) {
	for _, u := range []string{"https://twitter.com/ndtv/status/1", "https://x.com/ndtv/status/1"} {
		info := ExtractSourceInfo("", u)
		if info.SocialPlatform != "twitter" {
			t.Errorf("%s: platform = %q, want twitter", u, info.SocialPlatform)
		}
		if info.AccountName != "ndtv" {
			t.Errorf("%s: account = %q, want ndtv", u, info.AccountName)
		}
	}
}

func TestExtractSourceInfo_NewsOrganizationNames(t *testing.T) {
	info := ExtractSourceInfo("Exclusive report from puthiya thalaimurai about the new scheme", "")

	found := false
	for _, s := range info.PotentialSources {
		if s == "puthiya thalaimurai" {
			found = true
		}
	}
	if !found {
		t.Errorf("potential sources = %v, want puthiya thalaimurai", info.PotentialSources)
	}

	hasNewsIndicator := false
	for _, ind := range info.ContentIndicators {
		if ind == "news_language" {
			hasNewsIndicator = true
		}
	}
	if !hasNewsIndicator {
		t.Errorf("indicators = %v, want news_language", info.ContentIndicators)
	}
}

func TestExtractSourceInfo_SocialPostIndicator(t *testing.T) {
	info := ExtractSourceInfo("500 likes 20 comments something happened", "")

	hasSocial := false
	for _, ind := range info.ContentIndicators {
		if ind == "social_media_post" {
			hasSocial = true
		}
	}
	if !hasSocial {
		t.Errorf("indicators = %v, want social_media_post", info.ContentIndicators)
	}
}

func TestFallbackAssessment_KnownCandidate(t *testing.T) {
	info := model.SourceInfo{
		PotentialSources: []string{"puthiya thalaimurai"},
	}

	a := FallbackAssessment(info)
	if !a.IsNewsSource {
		t.Error("known organization should be a news source")
	}
	if a.CredibilityScore != 0.85 || a.CredibilityTier != model.Tier1 {
		t.Errorf("assessment = %.2f/%s, want 0.85/tier1", a.CredibilityScore, a.CredibilityTier)
	}
	if a.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8 for candidate match", a.Confidence)
	}
}

func TestFallbackAssessment_HandleVariantMatches(t *testing.T) {
	info := model.SourceInfo{AccountName: "puthiya_thalaimurai"}

	a := FallbackAssessment(info)
	if !a.IsNewsSource || a.OrganizationName == "" {
		t.Errorf("handle variant should match known organization, got %+v", a)
	}
	if a.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9 for account match", a.Confidence)
	}
}

func TestFallbackAssessment_UnknownSource(t *testing.T) {
	a := FallbackAssessment(model.SourceInfo{AccountName: "random_user_42"})

	if a.IsNewsSource {
		t.Error("unknown account must not be a news source")
	}
	if a.CredibilityScore != 0.3 || a.CredibilityTier != model.TierUnknown {
		t.Errorf("assessment = %.2f/%s, want 0.3/unknown", a.CredibilityScore, a.CredibilityTier)
	}
}
