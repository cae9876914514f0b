package credibility

import (
	"testing"

	"github.com/Gokul1734/factsense/internal/model"
)

func TestTable_Lookup(t *testing.T) {
	table := NewTable()

	cases := []struct {
		domain string
		score  float64
		tier   model.Tier
	}{
		{"bbc.com", 0.9, model.Tier1},
		{"www.thehindu.com", 0.9, model.Tier1},
		{"dinamalar.com", 0.7, model.Tier2},
		{"tamil.news18.com", 0.7, model.Tier2},
		{"pib.gov.in", 0.85, model.Tier1},
		{"en.wikipedia.org", 0.85, model.Tier1},
		{"dailytimes.example", 0.6, model.Tier2},
		{"randomblog.example", 0.4, model.Tier3},
	}

	for _, tc := range cases {
		score, tier := table.Lookup(tc.domain)
		if score != tc.score || tier != tc.tier {
			t.Errorf("Lookup(%q) = (%.2f, %s), want (%.2f, %s)",
				tc.domain, score, tier, tc.score, tc.tier)
		}
	}
}

func TestIsSocialDomain(t *testing.T) {
	for _, d := range []string{"twitter.com", "www.facebook.com", "m.youtube.com", "tiktok.com"} {
		if !IsSocialDomain(d) {
			t.Errorf("IsSocialDomain(%q) = false, want true", d)
		}
	}
	if IsSocialDomain("thehindu.com") {
		t.Error("news domain misclassified as social")
	}
}

func TestIsWikipedia(t *testing.T) {
	if !IsWikipedia("ta.wikipedia.org") {
		t.Error("wikipedia subdomain not recognized")
	}
	if IsWikipedia("wikihow.com") {
		t.Error("wikihow misclassified as wikipedia")
	}
}
