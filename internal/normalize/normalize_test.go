package normalize

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"&#8220;quoted&#8221;", "“quoted”"},
		{"&#x27;hex&#x27;", "'hex'"},
		{"  spaced\n\t out  ", "spaced out"},
		{"<div>a</div><div>b</div>", "a b"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.input); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	pub := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	got := Slug("Breaking: Market Crashes!", pub)
	want := "2024-01-05-breaking-market-crashes"
	if got != want {
		t.Errorf("Slug = %q, want %q", got, want)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"under_scores_too", "under-scores-too"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"Punct!@#uation?", "punctuation"},
		{"--edge--hyphens--", "edge-hyphens"},
		{"a - b -- c", "a-b-c"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "words "
	}
	got := Slugify(long)
	if len(got) > 100 {
		t.Errorf("expected slug capped at 100 chars, got %d", len(got))
	}
	if got[len(got)-1] == '-' {
		t.Errorf("expected no trailing hyphen after truncation, got %q", got)
	}
}

func TestReadingTime(t *testing.T) {
	word := "word "
	text := func(n int) string {
		var s string
		for i := 0; i < n; i++ {
			s += word
		}
		return s
	}

	tests := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{600, 3},
	}
	for _, tt := range tests {
		if got := ReadingTime(text(tt.words)); got != tt.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestTags(t *testing.T) {
	got := Tags([]string{"Politics", "", "politics", " Economy ", "Economy"})
	want := []string{"Politics", "Economy"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tags, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"Mon, 02 Jan 2006 15:04:05 -0700", true},
		{"Mon, 02 Jan 2006 15:04:05 GMT", true},
		{"Mon, 02 Jan 2006 15:04:05 EST", true},
		{"Mon, 02 Jan 2006 15:04:05 PDT", true},
		{"2006-01-02T15:04:05Z", true},
		{"2006-01-02", true},
		{"not-a-date", false},
		{"", false},
	}
	for _, tt := range tests {
		_, ok := ParseDate(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
		}
	}
}

func TestParseDateNormalizesTimezone(t *testing.T) {
	got, ok := ParseDate("Mon, 02 Jan 2006 15:04:05 EST")
	if !ok {
		t.Fatal("expected EST date to parse")
	}
	want := time.Date(2006, 1, 2, 20, 4, 5, 0, time.UTC)
	if !got.UTC().Equal(want) {
		t.Errorf("got %v, want %v", got.UTC(), want)
	}
}

func TestResolveDateFallsBackToNow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	item := &gofeed.Item{Published: "not-a-date"}
	got, ok := ResolveDate(item, now)
	if ok {
		t.Error("expected ok=false for unparseable date")
	}
	if !got.Equal(now) {
		t.Errorf("expected fallback to now, got %v", got)
	}
}

func TestResolveDatePrefersParsed(t *testing.T) {
	pub := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	item := &gofeed.Item{PublishedParsed: &pub, Published: "garbage"}
	got, ok := ResolveDate(item, time.Now())
	if !ok || !got.Equal(pub) {
		t.Errorf("expected parsed publish date, got %v ok=%v", got, ok)
	}
}

func TestExtractImagePrecedence(t *testing.T) {
	enclosure := &gofeed.Enclosure{URL: "https://cdn.example.com/enc.jpg", Type: "image/jpeg"}
	mediaContent := ext.Extension{Attrs: map[string]string{"url": "https://cdn.example.com/media.jpg"}}
	thumbnail := ext.Extension{Attrs: map[string]string{"url": "https://cdn.example.com/thumb.jpg"}}
	content := `<p>text <img src="https://cdn.example.com/inline.png"> more</p>`
	bare := `<p>see https://cdn.example.com/bare.webp for details</p>`

	withMedia := func(key string, e ext.Extension) map[string]map[string][]ext.Extension {
		return map[string]map[string][]ext.Extension{"media": {key: {e}}}
	}

	tests := []struct {
		name string
		item *gofeed.Item
		want string
	}{
		{
			"enclosure wins over media and markup",
			&gofeed.Item{
				Enclosures: []*gofeed.Enclosure{enclosure},
				Extensions: withMedia("content", mediaContent),
				Content:    content,
			},
			"https://cdn.example.com/enc.jpg",
		},
		{
			"non-image enclosure skipped",
			&gofeed.Item{
				Enclosures: []*gofeed.Enclosure{{URL: "https://cdn.example.com/a.mp3", Type: "audio/mpeg"}},
				Extensions: withMedia("content", mediaContent),
			},
			"https://cdn.example.com/media.jpg",
		},
		{
			"media content wins over thumbnail",
			&gofeed.Item{
				Extensions: map[string]map[string][]ext.Extension{
					"media": {"content": {mediaContent}, "thumbnail": {thumbnail}},
				},
			},
			"https://cdn.example.com/media.jpg",
		},
		{
			"thumbnail wins over markup",
			&gofeed.Item{
				Extensions: withMedia("thumbnail", thumbnail),
				Content:    content,
			},
			"https://cdn.example.com/thumb.jpg",
		},
		{
			"img tag from content",
			&gofeed.Item{Content: content},
			"https://cdn.example.com/inline.png",
		},
		{
			"bare image url from content",
			&gofeed.Item{Content: bare},
			"https://cdn.example.com/bare.webp",
		},
		{
			"media value string shape",
			&gofeed.Item{Extensions: withMedia("content", ext.Extension{Value: "https://cdn.example.com/val.jpg"})},
			"https://cdn.example.com/val.jpg",
		},
		{
			"no image yields empty",
			&gofeed.Item{Content: "<p>just text</p>"},
			"",
		},
	}
	for _, tt := range tests {
		if got := ExtractImage(tt.item); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
