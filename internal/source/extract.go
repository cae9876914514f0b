package source

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/Gokul1734/factsense/internal/model"
)

// platformPattern recognizes a social platform host and extracts the
// account handle from its URL layout. Patterns are ordered, first match
// wins.
type platformPattern struct {
	hosts     []string
	name      string
	accountRe *regexp.Regexp
	// rejectSegments are path tokens that look like handles but are post
	// or media IDs (e.g. instagram.com/p/<id>).
	rejectSegments map[string]bool
}

var platformPatterns = []platformPattern{
	{
		hosts:     []string{"instagram.com"},
		name:      "instagram",
		accountRe: regexp.MustCompile(`instagram\.com/([^/?]+)`),
		rejectSegments: map[string]bool{
			"p": true, "reel": true, "reels": true, "stories": true, "tv": true, "explore": true,
		},
	},
	{
		hosts:          []string{"twitter.com", "x.com"},
		name:           "twitter",
		accountRe:      regexp.MustCompile(`(?:twitter|x)\.com/([^/?]+)`),
		rejectSegments: map[string]bool{"i": true, "home": true, "search": true, "hashtag": true},
	},
	{
		hosts:          []string{"facebook.com"},
		name:           "facebook",
		accountRe:      regexp.MustCompile(`facebook\.com/([^/?]+)`),
		rejectSegments: map[string]bool{"watch": true, "groups": true, "photo.php": true},
	},
	{
		hosts: []string{"youtube.com", "youtu.be"},
		name:  "youtube",
	},
}

// accountContentPatterns find account handles inside post text when the
// URL carries none (e.g. scraped captions like "... - somechannel on
// September 12, 2024:"). Ordered, first match wins.
var accountContentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9_]{2,})\s+on\s+(?:january|february|march|april|may|june|july|august|september|october|november|december)`),
	regexp.MustCompile(`-\s*([a-zA-Z][a-zA-Z0-9_]{3,})\s+on\s+`),
	regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9_]{3,}thalaimurai)`),
	regexp.MustCompile(`(puthiya[a-zA-Z]*)`),
}

// newsOrgPatterns match organization names in free text: generic news
// suffixes, broadcast words, and curated national/regional outlet names.
var newsOrgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([a-zA-Z\s]+(?:news|times|post|herald|gazette|tribune|express|mail|today|now|tv|channel|media|press))`),
	regexp.MustCompile(`([a-zA-Z\s]+(?:television|radio|broadcasting|network))`),
	regexp.MustCompile(`(bbc|cnn|reuters|ap|pti|ani|ndtv|zee|star|sun|india today|the hindu|times of india)`),
	regexp.MustCompile(`(puthiya thalaimurai|dinamalar|vikatan|maalaimalar|eenadu|malayala manorama|mathrubhumi)`),
	regexp.MustCompile(`([a-zA-Z\s]{3,}(?:thalaimurai|malar|vikatan|news|tv))`),
}

var (
	newsLanguageWords = []string{"breaking", "exclusive", "report", "correspondent", "bureau"}
	socialPostWords   = []string{"likes", "comments", "shares", "followers"}
)

// ExtractSourceInfo pulls platform, account handle, candidate organization
// names and content indicators from a claim's URL and text.
func ExtractSourceInfo(text, rawURL string) model.SourceInfo {
	info := model.SourceInfo{}

	if rawURL != "" {
		if parsed, err := url.Parse(strings.ToLower(rawURL)); err == nil {
			info.URLDomain = parsed.Host

			for _, p := range platformPatterns {
				if !hostMatches(parsed.Host, p.hosts) {
					continue
				}
				info.SocialPlatform = p.name
				if p.accountRe != nil {
					if m := p.accountRe.FindStringSubmatch(strings.ToLower(rawURL)); m != nil {
						account := m[1]
						if len(account) > 2 && !p.rejectSegments[account] {
							info.AccountName = account
						}
					}
				}
				break
			}
		}
	}

	textLower := strings.ToLower(text)

	// URL parsing can fail to yield a handle; fall back to the content.
	if len(info.AccountName) < 3 {
		for _, re := range accountContentPatterns {
			matched := false
			for _, m := range re.FindAllStringSubmatch(textLower, -1) {
				candidate := m[1]
				if len(candidate) > 3 && !isDigits(candidate) {
					info.AccountName = candidate
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
	}

	seen := make(map[string]bool)
	for _, re := range newsOrgPatterns {
		for _, m := range re.FindAllStringSubmatch(textLower, -1) {
			name := strings.TrimSpace(m[1])
			if len(name) > 2 && !seen[name] {
				seen[name] = true
				info.PotentialSources = append(info.PotentialSources, name)
			}
		}
	}

	if containsAnyWord(textLower, newsLanguageWords) {
		info.ContentIndicators = append(info.ContentIndicators, "news_language")
	}
	if containsAnyWord(textLower, socialPostWords) {
		info.ContentIndicators = append(info.ContentIndicators, "social_media_post")
	}

	return info
}

func hostMatches(host string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(host, c) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func containsAnyWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
