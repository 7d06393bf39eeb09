// Package service owns the refresh lifecycle: it drives the aggregator on a
// fixed interval or on demand, guards against overlapping refreshes, and is
// the read surface consumers query against the cache.
package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/1imo/rss-live/internal/cache"
	"github.com/1imo/rss-live/internal/config"
	"github.com/1imo/rss-live/internal/feed"
)

type Service struct {
	cfg     *config.Config
	cache   *cache.Cache
	fetcher feed.Fetcher

	mu         sync.Mutex
	refreshing bool
	started    bool
	stopCh     chan struct{}

	// refreshMu serializes cache-mutating refresh cycles. Forced calls queue
	// behind an in-flight cycle here; non-forced calls never wait on it.
	refreshMu sync.Mutex
}

func New(cfg *config.Config, c *cache.Cache, fetcher feed.Fetcher) *Service {
	return &Service{cfg: cfg, cache: c, fetcher: fetcher}
}

// Refresh runs one refresh cycle and returns the best-known article set.
// While a refresh is already in flight, a non-forced call serves the current
// cache immediately instead of starting a second fetch, and a forced call
// waits for the in-flight cycle to finish before running its own; at most one
// cycle executes cache-mutating work at a time. A non-forced call against a
// fresh, non-empty cache short-circuits without network activity. The
// returned error is non-nil only when merged articles could not be persisted;
// the article slice is always usable.
func (s *Service) Refresh(ctx context.Context, force bool) ([]cache.Article, error) {
	s.mu.Lock()
	if s.refreshing && !force {
		s.mu.Unlock()
		return s.cache.Articles(), nil
	}
	s.mu.Unlock()

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.Lock()
	s.refreshing = true
	s.mu.Unlock()

	// Cleared on every exit path so a failed cycle can't lock refreshes out.
	defer func() {
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
	}()

	if !force {
		if st := s.cache.Stats(); !st.Expired && st.Count > 0 {
			return s.cache.Articles(), nil
		}
	}

	result := feed.FetchAll(ctx, s.cfg.Sources, s.fetcher)
	for _, err := range result.Errors {
		log.Printf("refresh: %v", err)
	}
	if err := s.cache.WriteFeedReport(result.Statuses); err != nil {
		log.Printf("refresh: persisting feed report: %v", err)
	}

	if len(result.Articles) == 0 {
		log.Printf("refresh: nothing fetched (%d of %d sources failed), keeping cache",
			result.Failed, len(s.cfg.Sources))
		return s.cache.Articles(), nil
	}

	return s.cache.MergeArticles(result.Articles)
}

// Start launches the periodic driver: one immediate refresh, then one per
// interval until Stop or context cancellation.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("service already started")
	}
	s.started = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	go s.loop(ctx, stopCh)
	return nil
}

func (s *Service) loop(ctx context.Context, stopCh chan struct{}) {
	if _, err := s.Refresh(ctx, false); err != nil {
		log.Printf("refresh: %v", err)
	}

	ticker := time.NewTicker(s.cfg.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Refresh(ctx, false); err != nil {
				log.Printf("refresh: %v", err)
			}
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels the periodic driver. An in-flight fetch is not interrupted;
// its timeout bounds how long it can run.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.stopCh)
}

// Info is the cache and refresh status exposed to consumers.
type Info struct {
	cache.Stats
	Refreshing bool
	Feeds      []cache.FeedStatus
}

func (s *Service) CacheInfo() Info {
	s.mu.Lock()
	refreshing := s.refreshing
	s.mu.Unlock()
	return Info{
		Stats:      s.cache.Stats(),
		Refreshing: refreshing,
		Feeds:      s.cache.FeedReport(),
	}
}

// Read API. Queries never block on an in-flight refresh; they read the
// last-persisted snapshot.

func (s *Service) Articles() []cache.Article { return s.cache.Articles() }

func (s *Service) ArticlesByCategory(category string) []cache.Article {
	return s.cache.ByCategory(category)
}

func (s *Service) ArticleBySlug(slug string) (cache.Article, bool) {
	return s.cache.BySlug(slug)
}

func (s *Service) SearchArticles(query string) []cache.Article {
	return s.cache.Search(query)
}

func (s *Service) LatestArticles(limit int) []cache.Article {
	return s.cache.Latest(limit)
}

func (s *Service) FeaturedArticles() []cache.Article { return s.cache.Featured() }

func (s *Service) TrendingByCategory() map[string][]cache.Article {
	return s.cache.TrendingByCategory()
}

func (s *Service) RelatedArticles(article cache.Article, limit int) []cache.Article {
	return s.cache.Related(article, limit)
}

func (s *Service) ArticlesPaginated(page, limit int, category string) cache.Page {
	return s.cache.Paginated(page, limit, category)
}
