package normalize

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Result is the normalization collaborator contract: cleaned text, a
// best-effort language code, extracted search terms and whether the text
// was translated (always false for the built-in heuristic normalizer; a
// translation-capable implementation can be swapped in behind the same
// shape).
type Result struct {
	Text        string   `json:"text"`
	Lang        string   `json:"lang"`
	SearchTerms []string `json:"search_terms"`
	Translated  bool     `json:"translated"`
}

// Normalizer cleans raw claim text and derives search terms.
type Normalizer struct{}

// New creates a new normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize cleans the input and extracts language and search terms.
func (n *Normalizer) Normalize(text string) Result {
	cleaned := Clean(text)
	if len(strings.TrimSpace(cleaned)) < 5 {
		return Result{Text: text, Lang: "unknown"}
	}

	lang := SniffLanguage(cleaned)
	return Result{
		Text:        cleaned,
		Lang:        lang,
		SearchTerms: ExtractTerms(cleaned, 5),
	}
}

var (
	hexEntityRe     = regexp.MustCompile(`&#x([0-9a-fA-F]+);`)
	decEntityRe     = regexp.MustCompile(`&#(\d+);`)
	engagementRe    = regexp.MustCompile(`(?i)\d+\s*(likes?|comments?|shares?|views?)`)
	postPreambleRe  = regexp.MustCompile(`^\d+.*?on\s+\w+\s+\d+,?\s+\d+:`)
	mentionRe       = regexp.MustCompile(`[@#]\w+`)
	timestampLineRe = regexp.MustCompile(`\w+\s+on\s+\w+\s+\d+,?\s+\d+:`)
	quotedRe        = regexp.MustCompile(`"([^"]+)"`)
	wordRe          = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)
)

// Clean decodes HTML entities, strips social-media engagement metadata and
// collapses whitespace.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = html.UnescapeString(text)
	text = hexEntityRe.ReplaceAllStringFunc(text, func(m string) string {
		code, err := strconv.ParseInt(hexEntityRe.FindStringSubmatch(m)[1], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
	text = decEntityRe.ReplaceAllStringFunc(text, func(m string) string {
		code, err := strconv.Atoi(decEntityRe.FindStringSubmatch(m)[1])
		if err != nil {
			return m
		}
		return string(rune(code))
	})

	text = engagementRe.ReplaceAllString(text, "")
	text = postPreambleRe.ReplaceAllString(text, "")

	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimSpace(norm.NFKC.String(text))
}

// ExtractSocialContent pulls the actual news content out of a social media
// post: handles, hashtags, timestamps and leftover entities are removed,
// and a quoted passage wins over the surrounding boilerplate.
func ExtractSocialContent(text string) string {
	content := engagementRe.ReplaceAllString(text, "")
	content = mentionRe.ReplaceAllString(content, "")
	content = timestampLineRe.ReplaceAllString(content, "")
	content = strings.NewReplacer("&quot;", "", "quot;", "").Replace(content)
	content = hexEntityRe.ReplaceAllString(content, "")

	if m := quotedRe.FindStringSubmatch(content); m != nil {
		content = m[1]
	}

	return strings.TrimSpace(strings.Join(strings.Fields(content), " "))
}

// stopWords filtered out of extracted search terms.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"day": true, "get": true, "has": true, "him": true, "his": true,
	"how": true, "man": true, "new": true, "now": true, "old": true,
	"see": true, "two": true, "way": true, "who": true, "boy": true,
	"did": true, "its": true, "let": true, "put": true, "say": true,
	"she": true, "too": true, "use": true, "with": true, "this": true,
	"that": true, "from": true, "have": true, "been": true, "were": true,
}

// scriptTermDefaults maps a recognizable non-Latin keyword to fallback
// search terms, first match wins. Non-Latin text with English words mixed
// in uses those words instead.
var scriptTermDefaults = []struct {
	keyword string
	terms   []string
}{
	{"முதல்வர்", []string{"chief", "minister", "stalin", "tamil", "nadu"}},
	{"பயணம்", []string{"travel", "europe", "chief", "minister", "visit"}},
}

// ExtractTerms extracts up to max meaningful search terms, avoiding social
// media noise and stop words.
func ExtractTerms(text string, max int) []string {
	if text == "" {
		return nil
	}

	if hasNonASCII(text) {
		english := wordRe.FindAllString(text, -1)
		if len(english) > 0 {
			if len(english) > max {
				english = english[:max]
			}
			lowered := make([]string, len(english))
			for i, w := range english {
				lowered[i] = strings.ToLower(w)
			}
			return lowered
		}
		for _, d := range scriptTermDefaults {
			if strings.Contains(text, d.keyword) {
				return d.terms
			}
		}
		return nil
	}

	cleaned := strings.ToLower(engagementRe.ReplaceAllString(text, " "))

	var terms []string
	seen := make(map[string]bool)
	for _, w := range wordRe.FindAllString(cleaned, -1) {
		if stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
		if len(terms) >= max {
			break
		}
	}
	return terms
}

// scriptRanges maps Unicode script blocks to language codes for the
// built-in language sniffer.
var scriptRanges = []struct {
	lo, hi rune
	lang   string
}{
	{0x0B80, 0x0BFF, "ta"}, // Tamil
	{0x0C00, 0x0C7F, "te"}, // Telugu
	{0x0D00, 0x0D7F, "ml"}, // Malayalam
	{0x0900, 0x097F, "hi"}, // Devanagari
	{0x0980, 0x09FF, "bn"}, // Bengali
}

// SniffLanguage guesses the dominant language of the text from its script.
// Latin-script text is reported as English; unrecognized non-Latin scripts
// as "unknown". A real language-detection collaborator can replace this.
func SniffLanguage(text string) string {
	counts := make(map[string]int)
	letters := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		for _, sr := range scriptRanges {
			if r >= sr.lo && r <= sr.hi {
				counts[sr.lang]++
				break
			}
		}
	}
	if letters == 0 {
		return "unknown"
	}

	bestLang, bestCount := "", 0
	for lang, c := range counts {
		if c > bestCount {
			bestLang, bestCount = lang, c
		}
	}
	if bestCount*3 >= letters { // at least a third of letters in one script
		return bestLang
	}
	if hasNonASCII(text) && bestCount > 0 {
		return bestLang
	}
	if hasNonASCII(text) {
		return "unknown"
	}
	return "en"
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	return false
}
