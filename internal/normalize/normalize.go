// Package normalize turns raw feed entry fields into canonical article
// fields: decoded plain text, extracted image URLs, resolved dates, slugs.
// Everything here is a pure function of its inputs.
package normalize

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

var (
	spaceRe    = regexp.MustCompile(`[\s_]+`)
	nonSlugRe  = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRe   = regexp.MustCompile(`-{2,}`)
	imgTagRe   = regexp.MustCompile(`(?i)<img[^>]+src=["']?([^"'\s>]+)`)
	bareImgRe  = regexp.MustCompile(`(?i)https?://[^\s"'<>]+\.(?:jpe?g|png|gif|webp)(?:\?[^\s"'<>]*)?`)
	imageExtRe = regexp.MustCompile(`(?i)\.(?:jpe?g|png|gif|webp)(?:\?|$)`)
)

// CleanText decodes HTML entities (named, decimal and hex), strips markup
// tags, collapses whitespace and trims.
func CleanText(s string) string {
	s = html.UnescapeString(s)
	s = stripTags(s)
	return strings.Join(strings.Fields(s), " ")
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slug derives the article slug: ISO date prefix plus the slugified title.
// Deterministic: the same title and date always produce the same slug.
func Slug(title string, pubDate time.Time) string {
	return pubDate.UTC().Format("2006-01-02") + "-" + Slugify(title)
}

// Slugify lowercases, converts whitespace and underscore runs to single
// hyphens, drops everything that is not alphanumeric or a hyphen, collapses
// repeated hyphens, trims edge hyphens, and caps the result at 100 runes.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = spaceRe.ReplaceAllString(s, "-")
	s = nonSlugRe.ReplaceAllString(s, "")
	s = hyphenRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 100 {
		s = strings.TrimRight(s[:100], "-")
	}
	return s
}

// ReadingTime estimates minutes to read at 200 words per minute, minimum 1.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Tags returns the deduplicated set of non-empty feed categories.
func Tags(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	var out []string
	for _, c := range categories {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// Some feeds publish dates with timezone abbreviations Go's parser rejects.
var tzOffsets = map[string]string{
	"PST": "-0800", "PDT": "-0700",
	"MST": "-0700", "MDT": "-0600",
	"CST": "-0600", "CDT": "-0500",
	"EST": "-0500", "EDT": "-0400",
	"GMT": "+0000", "UT": "+0000",
}

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a raw feed date string, normalizing known non-standard
// timezone abbreviations first. Returns the zero time and false when no
// layout matches.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	fields := strings.Fields(raw)
	if len(fields) > 1 {
		if offset, ok := tzOffsets[fields[len(fields)-1]]; ok {
			fields[len(fields)-1] = offset
			raw = strings.Join(fields, " ")
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ResolveDate picks the entry's publish time: parsed publish date, then
// parsed update date, then the raw date strings, then now. Never fails.
func ResolveDate(item *gofeed.Item, now time.Time) (time.Time, bool) {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed, true
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed, true
	}
	if t, ok := ParseDate(item.Published); ok {
		return t, true
	}
	if t, ok := ParseDate(item.Updated); ok {
		return t, true
	}
	return now, false
}

// ExtractImage finds the entry's image URL, best effort. Precedence: image
// enclosure, media:content, media:thumbnail, first <img src> in the markup,
// first bare image URL in the markup. Absence yields "", never a placeholder.
func ExtractImage(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if strings.HasPrefix(enc.Type, "image/") || imageExtRe.MatchString(enc.URL) {
			return enc.URL
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		if url := firstMediaURL(media["content"]); url != "" {
			return url
		}
		if url := firstMediaURL(media["thumbnail"]); url != "" {
			return url
		}
	}

	for _, markup := range []string{item.Content, item.Description} {
		if m := imgTagRe.FindStringSubmatch(markup); len(m) > 1 {
			return m[1]
		}
	}
	for _, markup := range []string{item.Content, item.Description} {
		if m := bareImgRe.FindString(markup); m != "" {
			return m
		}
	}
	return ""
}

// firstMediaURL handles the two shapes media fields come in: an attributed
// element carrying url="...", or a bare string value.
func firstMediaURL(exts []ext.Extension) string {
	for _, e := range exts {
		if url := e.Attrs["url"]; url != "" {
			return url
		}
		if v := strings.TrimSpace(e.Value); strings.HasPrefix(v, "http") {
			return v
		}
	}
	return ""
}
