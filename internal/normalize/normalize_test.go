package normalize

import (
	"strings"
	"testing"
)

func TestClean_DecodesEntitiesAndCollapsesWhitespace(t *testing.T) {
	in := "Breaking:&#32;minister   announces&amp;confirms \n new   scheme"
	got := Clean(in)

	if strings.Contains(got, "&#") || strings.Contains(got, "&amp;") {
		t.Errorf("entities not decoded: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}

func TestClean_StripsEngagementMetadata(t *testing.T) {
	in := "1,234 likes 56 comments Chief minister announces new scheme"
	got := Clean(in)

	if strings.Contains(got, "likes") || strings.Contains(got, "comments") {
		t.Errorf("engagement metadata survived: %q", got)
	}
	if !strings.Contains(got, "Chief minister announces") {
		t.Errorf("content lost: %q", got)
	}
}

func TestNormalize_ShortInputKeptVerbatim(t *testing.T) {
	r := New().Normalize("ok")
	if r.Text != "ok" || r.Lang != "unknown" {
		t.Errorf("short input: got %+v", r)
	}
	if len(r.SearchTerms) != 0 {
		t.Errorf("short input must not yield search terms: %v", r.SearchTerms)
	}
}

func TestExtractSocialContent_QuotedPassageWins(t *testing.T) {
	in := `@news_account posted on March 5, 2026: "Government confirms school holiday" 500 likes #breaking`
	got := ExtractSocialContent(in)

	if got != "Government confirms school holiday" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTerms_SkipsStopWordsAndDuplicates(t *testing.T) {
	terms := ExtractTerms("the minister and the minister have announced the flood relief", 5)

	for _, term := range terms {
		if stopWords[term] {
			t.Errorf("stop word %q in terms %v", term, terms)
		}
	}
	seen := map[string]bool{}
	for _, term := range terms {
		if seen[term] {
			t.Errorf("duplicate term %q in %v", term, terms)
		}
		seen[term] = true
	}
	if len(terms) == 0 || terms[0] != "minister" {
		t.Errorf("terms = %v, want minister first", terms)
	}
}

func TestExtractTerms_NonLatinPrefersEmbeddedEnglish(t *testing.T) {
	terms := ExtractTerms("முதல்வர் Stalin Europe visit announced", 5)

	if len(terms) == 0 {
		t.Fatal("expected terms from embedded English words")
	}
	for _, term := range terms {
		if term != strings.ToLower(term) {
			t.Errorf("term %q not lowercased", term)
		}
	}
}

func TestExtractTerms_ScriptDefaults(t *testing.T) {
	terms := ExtractTerms("முதல்வர் இன்று அறிவிப்பு", 5)

	if len(terms) == 0 {
		t.Fatal("expected default terms for recognized script keyword")
	}
	joined := strings.Join(terms, " ")
	if !strings.Contains(joined, "minister") {
		t.Errorf("terms = %v, want chief-minister defaults", terms)
	}
}

func TestSniffLanguage(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Chief minister announces new scheme", "en"},
		{"முதல்வர் இன்று புதிய திட்டம் அறிவித்தார்", "ta"},
		{"ముఖ్యమంత్రి కొత్త పథకం ప్రకటించారు", "te"},
		{"मुख्यमंत्री ने नई योजना की घोषणा की", "hi"},
		{"", "unknown"},
	}

	for _, tc := range cases {
		if got := SniffLanguage(tc.text); got != tc.want {
			t.Errorf("SniffLanguage(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
