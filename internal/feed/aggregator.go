package feed

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/1imo/rss-live/internal/cache"
	"github.com/1imo/rss-live/internal/config"
)

// Result is the outcome of one full aggregation cycle.
type Result struct {
	Articles  []cache.Article
	Statuses  []cache.FeedStatus
	Errors    []error
	Succeeded int
	Failed    int
}

// FetchAll runs one fetch pipeline per source concurrently and waits for all
// of them to settle. A failing source contributes zero articles and a
// recorded error, never a failed aggregation. The combined list is sorted
// newest first with cross-source duplicates dropped.
func FetchAll(ctx context.Context, sources []config.Source, fetcher Fetcher) Result {
	var (
		mu     sync.Mutex
		result Result
		wg     sync.WaitGroup
	)

	for _, src := range sources {
		wg.Add(1)
		go func(s config.Source) {
			defer wg.Done()
			articles, err := fetcher.Fetch(ctx, s)

			status := cache.FeedStatus{
				Source:    s.Name,
				Category:  s.Category,
				FetchedAt: time.Now(),
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				status.Error = err.Error()
				result.Errors = append(result.Errors, err)
				result.Failed++
			} else {
				status.Count = len(articles)
				result.Articles = append(result.Articles, articles...)
				result.Succeeded++
			}
			result.Statuses = append(result.Statuses, status)
		}(src)
	}

	wg.Wait()

	sort.SliceStable(result.Articles, func(i, j int) bool {
		return result.Articles[i].PubDate.After(result.Articles[j].PubDate)
	})
	result.Articles = dedupe(result.Articles)
	return result
}

// dedupe drops articles that share a normalized-title+link key with an
// earlier one, collapsing same-story re-publications across sources. The
// list is already newest first, so the first occurrence kept is the newest.
func dedupe(articles []cache.Article) []cache.Article {
	seen := make(map[string]bool, len(articles))
	out := articles[:0]
	for _, a := range articles {
		key := dedupKey(a.Title, a.Link)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

var punctRe = regexp.MustCompile(`[^\w\s]`)

func dedupKey(title, link string) string {
	return punctRe.ReplaceAllString(strings.ToLower(title), "") + "-" + link
}
