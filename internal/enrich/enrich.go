// Package enrich derives SEO and ranking metadata from article text.
// All functions are deterministic keyword/regex matches over the lowercased
// text; they are computed once at normalization time and never mutated.
package enrich

import (
	"strings"
	"unicode"
)

// Urgency levels, most urgent first.
const (
	UrgencyBreaking = "breaking"
	UrgencyHigh     = "high"
	UrgencyNormal   = "normal"
)

// urgencyRules are checked in order; the first matching rule wins.
var urgencyRules = []struct {
	level    string
	keywords []string
}{
	{UrgencyBreaking, []string{"breaking", "just in", "live:", "urgent", "alert"}},
	{UrgencyHigh, []string{"developing", "update:", "exclusive", "revealed", "crisis", "emergency"}},
}

// Urgency classifies how time-sensitive an article is from its title and
// content. Defaults to normal.
func Urgency(title, content string) string {
	text := strings.ToLower(title + " " + content)
	for _, rule := range urgencyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.level
			}
		}
	}
	return UrgencyNormal
}

// newsTypeRules are checked in order; the first matching rule wins.
var newsTypeRules = []struct {
	newsType string
	keywords []string
}{
	{"Opinion", []string{"opinion", "editorial", "op-ed", "comment:", "viewpoint"}},
	{"Analysis", []string{"analysis", "explained", "explainer", "in depth", "deep dive", "what we know"}},
	{"Review", []string{"review:", "hands-on", "first look", "verdict"}},
	{"Interview", []string{"interview", "q&a", "speaks to", "sits down with"}},
}

// NewsType classifies the article form (news, opinion, analysis, review,
// interview). Defaults to plain news.
func NewsType(title, content string) string {
	text := strings.ToLower(title + " " + content)
	for _, rule := range newsTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.newsType
			}
		}
	}
	return "News"
}

// newsVocabulary holds high-signal terms worth surfacing as keywords.
var newsVocabulary = map[string]bool{
	"economy": true, "inflation": true, "recession": true, "market": true,
	"stocks": true, "shares": true, "trade": true, "tariff": true,
	"election": true, "government": true, "parliament": true, "senate": true,
	"president": true, "minister": true, "policy": true, "sanctions": true,
	"war": true, "conflict": true, "ceasefire": true, "military": true,
	"climate": true, "energy": true, "oil": true, "renewable": true,
	"technology": true, "startup": true, "layoffs": true, "merger": true,
	"lawsuit": true, "court": true, "verdict": true, "investigation": true,
	"health": true, "vaccine": true, "outbreak": true, "hospital": true,
	"champions": true, "transfer": true, "fixture": true, "tournament": true,
	"premiere": true, "boxoffice": true, "streaming": true, "album": true,
}

const maxKeywords = 10

// Keywords extracts up to ten distinct vocabulary terms from the text, with
// the article category always included first.
func Keywords(title, content, category string) []string {
	out := []string{}
	seen := map[string]bool{}
	if category != "" {
		out = append(out, category)
		seen[strings.ToLower(category)] = true
	}
	for _, word := range tokenize(title + " " + content) {
		if len(out) >= maxKeywords {
			break
		}
		if newsVocabulary[word] && !seen[word] {
			seen[word] = true
			out = append(out, word)
		}
	}
	return out
}

// locations maps lowercase place keywords to display names; checked in
// order via locationOrder so matches are deterministic.
var locations = map[string]string{
	"london": "London", "washington": "Washington", "new york": "New York",
	"brussels": "Brussels", "paris": "Paris", "berlin": "Berlin",
	"moscow": "Moscow", "kyiv": "Kyiv", "ukraine": "Ukraine",
	"beijing": "Beijing", "china": "China", "tokyo": "Tokyo",
	"middle east": "Middle East", "gaza": "Gaza", "israel": "Israel",
	"united states": "United States", "uk": "UK", "europe": "Europe",
	"india": "India", "africa": "Africa",
}

var locationOrder = []string{
	"london", "washington", "new york", "brussels", "paris", "berlin",
	"moscow", "kyiv", "ukraine", "beijing", "china", "tokyo",
	"middle east", "gaza", "israel", "united states", "uk", "europe",
	"india", "africa",
}

// Location returns the first recognized place mentioned in the text, or "".
// Short keywords like "uk" match whole words only to avoid false hits.
func Location(title, content string) string {
	text := strings.ToLower(title + " " + content)
	words := make(map[string]bool)
	for _, w := range tokenize(text) {
		words[w] = true
	}
	for _, key := range locationOrder {
		if strings.Contains(key, " ") || len(key) > 3 {
			if strings.Contains(text, key) {
				return locations[key]
			}
		} else if words[key] {
			return locations[key]
		}
	}
	return ""
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
