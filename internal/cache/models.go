package cache

import "time"

// Article is the canonical, normalized form of one feed entry. Instances are
// immutable once cached; a re-merge replaces the stored set wholesale.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	Link        string    `json:"link"`
	PubDate     time.Time `json:"pubDate"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Source      string    `json:"source"`
	SourceColor string    `json:"sourceColor,omitempty"`
	Image       string    `json:"image,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	ReadingTime int       `json:"readingTime"`

	// Derived ranking metadata, computed at normalization time.
	Urgency      string   `json:"urgency,omitempty"`
	NewsType     string   `json:"newsType,omitempty"`
	NewsKeywords []string `json:"newsKeywords,omitempty"`
	Location     string   `json:"location,omitempty"`
}

// FeedStatus records the outcome of the last fetch for one source. The list
// of these is persisted as the "feeds" snapshot.
type FeedStatus struct {
	Source    string    `json:"source"`
	Category  string    `json:"category"`
	Count     int       `json:"count"`
	Error     string    `json:"error,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Stats describes the current on-disk cache state, computed fresh on each call.
type Stats struct {
	Count       int       `json:"count"`
	LastUpdated time.Time `json:"lastUpdated"`
	SizeBytes   int64     `json:"sizeBytes"`
	Expired     bool      `json:"expired"`
	Exists      bool      `json:"exists"`
}

// Page is one page of a paginated article query.
type Page struct {
	Articles   []Article `json:"articles"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
	HasNext    bool      `json:"hasNext"`
	HasPrev    bool      `json:"hasPrev"`
}
