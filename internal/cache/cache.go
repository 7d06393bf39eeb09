package cache

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// SchemaVersion tags every persisted snapshot. A mismatch on read is a cache
// miss, never an error, so old snapshots are discarded after an upgrade.
const SchemaVersion = "1"

const (
	keyArticles = "articles"
	keyFeeds    = "feeds"
)

type snapshot struct {
	Version     string          `json:"version"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Payload     json.RawMessage `json:"payload"`
}

// Cache is the merged article set plus the last fetch report, persisted
// through a Store. All query methods read the last-persisted snapshot; there
// is no in-memory state to go stale.
type Cache struct {
	store       Store
	ttl         time.Duration
	maxArticles int
}

func New(store Store, ttl time.Duration, maxArticles int) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if maxArticles <= 0 {
		maxArticles = 1000
	}
	return &Cache{store: store, ttl: ttl, maxArticles: maxArticles}
}

// read loads and unmarshals one snapshot payload. Absent records, records
// older than the TTL, version mismatches, and read or decode failures all
// degrade to a miss.
func (c *Cache) read(key string, payload any) (time.Time, bool) {
	rec, err := c.store.Read(key)
	if err != nil || rec == nil {
		return time.Time{}, false
	}
	if time.Since(rec.ModTime) > c.ttl {
		return time.Time{}, false
	}
	var snap snapshot
	if err := json.Unmarshal(rec.Data, &snap); err != nil {
		return time.Time{}, false
	}
	if snap.Version != SchemaVersion {
		return time.Time{}, false
	}
	if err := json.Unmarshal(snap.Payload, payload); err != nil {
		return time.Time{}, false
	}
	return snap.LastUpdated, true
}

// write persists one snapshot, stamping the current schema version and time.
// Snapshots are always rewritten whole.
func (c *Cache) write(key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", key, err)
	}
	data, err := json.Marshal(snapshot{
		Version:     SchemaVersion,
		LastUpdated: time.Now().UTC(),
		Payload:     raw,
	})
	if err != nil {
		return fmt.Errorf("encoding %s snapshot: %w", key, err)
	}
	return c.store.Write(key, data)
}

// Articles returns the cached article set, or nil on a cache miss.
func (c *Cache) Articles() []Article {
	var articles []Article
	if _, ok := c.read(keyArticles, &articles); !ok {
		return nil
	}
	return articles
}

// MergeArticles folds freshly fetched articles into the cached set. Articles
// whose id is already cached are dropped, genuinely new ones are prepended,
// the result is re-sorted newest first and truncated to the retention bound.
// When nothing is genuinely new the cached set is returned without a write.
func (c *Cache) MergeArticles(incoming []Article) ([]Article, error) {
	existing := c.Articles()

	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[a.ID] = true
	}

	var fresh []Article
	for _, a := range incoming {
		if a.Title == "" || a.Link == "" {
			continue
		}
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		fresh = append(fresh, a)
	}

	if len(fresh) == 0 {
		return existing, nil
	}

	merged := append(fresh, existing...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PubDate.After(merged[j].PubDate)
	})
	if len(merged) > c.maxArticles {
		merged = merged[:c.maxArticles]
	}

	if err := c.write(keyArticles, merged); err != nil {
		return existing, fmt.Errorf("persisting merged articles: %w", err)
	}
	return merged, nil
}

// WriteFeedReport persists the per-source outcome of the latest fetch cycle.
func (c *Cache) WriteFeedReport(statuses []FeedStatus) error {
	return c.write(keyFeeds, statuses)
}

// FeedReport returns the last persisted fetch report, or nil on a miss.
func (c *Cache) FeedReport() []FeedStatus {
	var statuses []FeedStatus
	if _, ok := c.read(keyFeeds, &statuses); !ok {
		return nil
	}
	return statuses
}

// Clear removes all snapshots. Missing records are not an error.
func (c *Cache) Clear() error {
	for _, key := range []string{keyArticles, keyFeeds} {
		if err := c.store.Remove(key); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports the current cache state, computed fresh from storage.
func (c *Cache) Stats() Stats {
	var st Stats

	rec, err := c.store.Read(keyArticles)
	if err != nil || rec == nil {
		st.Expired = true
		return st
	}

	var snap snapshot
	if err := json.Unmarshal(rec.Data, &snap); err != nil || snap.Version != SchemaVersion {
		st.Expired = true
		return st
	}

	var articles []Article
	if err := json.Unmarshal(snap.Payload, &articles); err != nil {
		st.Expired = true
		return st
	}

	size, _ := c.store.Size(keyArticles)

	st.Exists = true
	st.Count = len(articles)
	st.LastUpdated = snap.LastUpdated
	st.SizeBytes = size
	st.Expired = time.Since(rec.ModTime) > c.ttl
	return st
}
