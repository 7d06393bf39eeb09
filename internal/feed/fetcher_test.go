package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/1imo/rss-live/internal/config"
)

func rssServer(t *testing.T, items string) *httptest.Server {
	t.Helper()
	body := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Test Feed</title><link>https://example.com</link>
` + items + `</channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func rssItem(title, link, guid, pubDate string) string {
	var b strings.Builder
	b.WriteString("<item>")
	if title != "" {
		b.WriteString("<title>" + title + "</title>")
	}
	if link != "" {
		b.WriteString("<link>" + link + "</link>")
	}
	if guid != "" {
		b.WriteString("<guid>" + guid + "</guid>")
	}
	if pubDate != "" {
		b.WriteString("<pubDate>" + pubDate + "</pubDate>")
	}
	b.WriteString("<description>Some description text.</description></item>")
	return b.String()
}

func testSource(url string) config.Source {
	return config.Source{Name: "Test", URL: url, Category: "world", Color: "#BB1919"}
}

func TestFetchNormalizes(t *testing.T) {
	srv := rssServer(t, rssItem("Breaking: Big &amp; Bold News", "https://example.com/a", "guid-a", "Mon, 02 Jan 2006 15:04:05 GMT"))

	f := NewRSSFetcher(5*time.Second, 20)
	articles, err := f.Fetch(context.Background(), testSource(srv.URL))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}

	a := articles[0]
	if a.Title != "Breaking: Big & Bold News" {
		t.Errorf("title not decoded: %q", a.Title)
	}
	if a.ID != "guid-a" {
		t.Errorf("expected GUID as id, got %q", a.ID)
	}
	if a.Category != "world" || a.Source != "Test" || a.SourceColor != "#BB1919" {
		t.Errorf("source config not inherited: %+v", a)
	}
	if a.Slug != "2006-01-02-breaking-big-bold-news" {
		t.Errorf("unexpected slug %q", a.Slug)
	}
	if a.Urgency != "breaking" {
		t.Errorf("expected breaking urgency, got %q", a.Urgency)
	}
	if a.ReadingTime < 1 {
		t.Errorf("expected reading time >= 1, got %d", a.ReadingTime)
	}
}

func TestFetchIDFallsBackToLink(t *testing.T) {
	srv := rssServer(t, rssItem("No GUID Here", "https://example.com/b", "", "Mon, 02 Jan 2006 15:04:05 GMT"))

	f := NewRSSFetcher(5*time.Second, 20)
	articles, err := f.Fetch(context.Background(), testSource(srv.URL))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 1 || articles[0].ID != "https://example.com/b" {
		t.Fatalf("expected link as id, got %+v", articles)
	}
}

func TestFetchDropsEntriesWithoutTitleOrLink(t *testing.T) {
	srv := rssServer(t,
		rssItem("Kept", "https://example.com/kept", "", "Mon, 02 Jan 2006 15:04:05 GMT")+
			rssItem("", "https://example.com/no-title", "", "Mon, 02 Jan 2006 15:04:05 GMT")+
			rssItem("No Link", "", "", "Mon, 02 Jan 2006 15:04:05 GMT"))

	f := NewRSSFetcher(5*time.Second, 20)
	articles, err := f.Fetch(context.Background(), testSource(srv.URL))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "Kept" {
		t.Fatalf("expected only the valid entry, got %+v", articles)
	}
}

func TestFetchTruncatesToNewest(t *testing.T) {
	var items strings.Builder
	for i := 0; i < 30; i++ {
		pub := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
		items.WriteString(rssItem(
			fmt.Sprintf("Entry %d", i),
			fmt.Sprintf("https://example.com/%d", i),
			"",
			pub.Format(time.RFC1123Z),
		))
	}
	srv := rssServer(t, items.String())

	f := NewRSSFetcher(5*time.Second, 20)
	articles, err := f.Fetch(context.Background(), testSource(srv.URL))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 20 {
		t.Fatalf("expected 20 articles, got %d", len(articles))
	}
	// Newest retained, oldest discarded
	if articles[0].Title != "Entry 29" {
		t.Errorf("expected newest first, got %q", articles[0].Title)
	}
	if articles[len(articles)-1].Title != "Entry 10" {
		t.Errorf("expected oldest 10 discarded, last is %q", articles[len(articles)-1].Title)
	}
}

func TestFetchBadDateFallsBackToNow(t *testing.T) {
	srv := rssServer(t, rssItem("Odd Date", "https://example.com/odd", "", "not-a-date"))

	before := time.Now()
	f := NewRSSFetcher(5*time.Second, 20)
	articles, err := f.Fetch(context.Background(), testSource(srv.URL))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected entry kept despite bad date, got %d", len(articles))
	}
	a := articles[0]
	if a.PubDate.Before(before.Add(-time.Minute)) {
		t.Errorf("expected pubDate near now, got %v", a.PubDate)
	}
	if a.Slug == "" || !strings.HasSuffix(a.Slug, "-odd-date") {
		t.Errorf("expected valid slug, got %q", a.Slug)
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	f := NewRSSFetcher(5*time.Second, 20)
	if _, err := f.Fetch(context.Background(), testSource(srv.URL)); err == nil {
		t.Fatal("expected error from failing feed")
	}
}

func TestFetchRedirectCeiling(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	t.Cleanup(srv.Close)

	f := NewRSSFetcher(5*time.Second, 20)
	if _, err := f.Fetch(context.Background(), testSource(srv.URL)); err == nil {
		t.Fatal("expected error after exceeding redirect ceiling")
	}
}
