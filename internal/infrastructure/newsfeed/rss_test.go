package newsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"NewsReel/internal/ports"
)

const rssPayload = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>BBC News - Technology</title>
    <item>
      <title>  Quantum Computer Hits Milestone </title>
      <link>https://example.org/quantum</link>
      <description>Researchers report a record qubit count.</description>
      <pubDate>Tue, 25 Aug 2026 08:00:00 +0000</pubDate>
      <guid>https://example.org/quantum</guid>
    </item>
    <item>
      <title></title>
      <link>https://example.org/broken</link>
      <description>no title, dropped</description>
    </item>
    <item>
      <title>Second Headline</title>
      <link>https://example.org/second</link>
    </item>
  </channel>
</rss>`

func TestRSSFetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssPayload))
	}))
	defer srv.Close()

	feed := NewRSSFeed("bbc-tech", srv.URL, 5*time.Second)
	articles, err := feed.Fetch(context.Background(), ports.FeedQuery{Limit: 10})

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(articles))

	a := articles[0]
	assert.Equal(t, "Quantum Computer Hits Milestone", a.Title)
	assert.Equal(t, "https://example.org/quantum", a.URL)
	assert.Equal(t, "Researchers report a record qubit count.", a.Description)
	// Source name comes from the channel title, not the adapter name.
	assert.Equal(t, "BBC News - Technology", a.SourceName)
	assert.Equal(t, 2026, a.PublishedAt.Year())

	// Items without a guid get a synthesized positional ID.
	assert.Equal(t, "bbc-tech-2", articles[1].ID)
}

func TestRSSFetchRespectsLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssPayload))
	}))
	defer srv.Close()

	feed := NewRSSFeed("bbc-tech", srv.URL, 5*time.Second)
	articles, err := feed.Fetch(context.Background(), ports.FeedQuery{Limit: 1})

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))
}

func TestRSSFetchBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	feed := NewRSSFeed("bbc-tech", srv.URL, 5*time.Second)
	_, err := feed.Fetch(context.Background(), ports.FeedQuery{Limit: 5})
	assert.NotEqual(t, nil, err)
}
