package cache

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Read queries are pure filters over the cached article list. Linear scans
// are fine at the retention bound of this cache.

func (c *Cache) ByCategory(category string) []Article {
	var out []Article
	for _, a := range c.Articles() {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// BySlug returns the first cached article with the given slug, newest first.
// Slug collisions are possible and accepted; the newest article wins.
func (c *Cache) BySlug(slug string) (Article, bool) {
	for _, a := range c.Articles() {
		if a.Slug == slug {
			return a, true
		}
	}
	return Article{}, false
}

// Search does case-insensitive substring matching across title, description,
// content and tags.
func (c *Cache) Search(query string) []Article {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Article
	for _, a := range c.Articles() {
		if matches(a, q) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a Article, q string) bool {
	if strings.Contains(strings.ToLower(a.Title), q) ||
		strings.Contains(strings.ToLower(a.Description), q) ||
		strings.Contains(strings.ToLower(a.Content), q) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (c *Cache) Latest(limit int) []Article {
	articles := c.Articles()
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles
}

// Featured returns the cached list with the first image-bearing article
// promoted to the front, so the lead slot always has an image when any
// cached article does. The remaining order is untouched.
func (c *Cache) Featured() []Article {
	articles := c.Articles()
	if len(articles) == 0 || articles[0].Image != "" {
		return articles
	}
	for i, a := range articles {
		if a.Image != "" {
			out := make([]Article, 0, len(articles))
			out = append(out, a)
			out = append(out, articles[:i]...)
			out = append(out, articles[i+1:]...)
			return out
		}
	}
	return articles
}

const trendingPerCategory = 3

// TrendingByCategory returns up to three articles per category, ranked by a
// recency-decayed score: 1.0 at publish, ~0.5 at 24h, ~0.1 at 72h.
func (c *Cache) TrendingByCategory() map[string][]Article {
	byCat := make(map[string][]Article)
	for _, a := range c.Articles() {
		byCat[a.Category] = append(byCat[a.Category], a)
	}

	for cat, articles := range byCat {
		sort.SliceStable(articles, func(i, j int) bool {
			si, sj := trendScore(articles[i]), trendScore(articles[j])
			if si != sj {
				return si > sj
			}
			return articles[i].PubDate.After(articles[j].PubDate)
		})
		if len(articles) > trendingPerCategory {
			articles = articles[:trendingPerCategory]
		}
		byCat[cat] = articles
	}
	return byCat
}

func trendScore(a Article) float64 {
	hours := time.Since(a.PubDate).Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Exp(-0.02888 * hours)
}

// Related scores every cached article against the given one: shared category
// +3, each shared tag +2, same source +1, plus a recency bonus of +2 within
// 24h or +1 within 72h. Zero-score candidates and the article itself are
// excluded.
func (c *Cache) Related(article Article, limit int) []Article {
	type scored struct {
		article Article
		score   int
	}

	tags := make(map[string]bool, len(article.Tags))
	for _, t := range article.Tags {
		tags[strings.ToLower(t)] = true
	}

	var candidates []scored
	for _, a := range c.Articles() {
		if a.ID == article.ID {
			continue
		}
		score := 0
		if a.Category == article.Category {
			score += 3
		}
		for _, t := range a.Tags {
			if tags[strings.ToLower(t)] {
				score += 2
			}
		}
		if a.Source == article.Source {
			score++
		}
		switch age := time.Since(a.PubDate); {
		case age < 24*time.Hour:
			score += 2
		case age < 72*time.Hour:
			score++
		}
		if score > 0 {
			candidates = append(candidates, scored{article: a, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].article.PubDate.After(candidates[j].article.PubDate)
	})

	if limit <= 0 {
		limit = 4
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Article, len(candidates))
	for i, s := range candidates {
		out[i] = s.article
	}
	return out
}

// Paginated slices the cached list (optionally filtered by category) into
// fixed-size pages. Page numbers start at 1; out-of-range pages are empty.
func (c *Cache) Paginated(page, limit int, category string) Page {
	articles := c.Articles()
	if category != "" {
		var filtered []Article
		for _, a := range articles {
			if a.Category == category {
				filtered = append(filtered, a)
			}
		}
		articles = filtered
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	total := len(articles)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Page{
		Articles:   articles[start:end],
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}
