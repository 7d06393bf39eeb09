package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/1imo/rss-live/internal/cache"
	"github.com/1imo/rss-live/internal/config"
	"github.com/1imo/rss-live/internal/enrich"
	"github.com/1imo/rss-live/internal/normalize"
	"github.com/mmcdole/gofeed"
)

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]cache.Article, error)
}

const maxRedirects = 3

// RSSFetcher retrieves and parses one feed URL into normalized articles.
// Request timeout and redirect count are both bounded; a feed exceeding
// either is a failed fetch.
type RSSFetcher struct {
	parser     *gofeed.Parser
	maxEntries int
}

func NewRSSFetcher(timeout time.Duration, maxEntries int) *RSSFetcher {
	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	parser := gofeed.NewParser()
	parser.Client = client
	if maxEntries <= 0 {
		maxEntries = 20
	}
	return &RSSFetcher{parser: parser, maxEntries: maxEntries}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]cache.Article, error) {
	parsed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	now := time.Now()
	articles := make([]cache.Article, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		a := normalizeItem(item, source, now, i)
		// An entry without a title or link can't be cached or deduped.
		if a.Title == "" || a.Link == "" {
			continue
		}
		articles = append(articles, a)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PubDate.After(articles[j].PubDate)
	})
	if len(articles) > f.maxEntries {
		articles = articles[:f.maxEntries]
	}
	return articles, nil
}

// normalizeItem converts one raw feed entry into a canonical Article.
// Malformed fields degrade to safe defaults rather than dropping the entry.
func normalizeItem(item *gofeed.Item, source config.Source, now time.Time, index int) cache.Article {
	title := normalize.CleanText(item.Title)
	description := normalize.CleanText(item.Description)
	content := normalize.CleanText(item.Content)
	if description == "" {
		description = content
	}

	pubDate, ok := normalize.ResolveDate(item, now)
	if !ok && (item.Published != "" || item.Updated != "") {
		log.Printf("[%s] unparseable date %q, using fetch time", source.Name, item.Published)
	}

	id := item.GUID
	if id == "" {
		id = item.Link
	}
	if id == "" {
		id = syntheticID(source.Name, title, index)
	}

	body := content
	if body == "" {
		body = description
	}

	return cache.Article{
		ID:           id,
		Title:        title,
		Description:  description,
		Content:      content,
		Link:         item.Link,
		PubDate:      pubDate,
		Slug:         normalize.Slug(title, pubDate),
		Category:     source.Category,
		Source:       source.Name,
		SourceColor:  source.Color,
		Image:        normalize.ExtractImage(item),
		Tags:         normalize.Tags(item.Categories),
		ReadingTime:  normalize.ReadingTime(body),
		Urgency:      enrich.Urgency(title, body),
		NewsType:     enrich.NewsType(title, body),
		NewsKeywords: enrich.Keywords(title, body, source.Category),
		Location:     enrich.Location(title, body),
	}
}

// syntheticID is the last-resort identity for entries with neither GUID nor
// link. The batch index keeps it collision-free within one fetch.
func syntheticID(source, title string, index int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", source, title, index)))
	return hex.EncodeToString(h[:])[:16]
}
