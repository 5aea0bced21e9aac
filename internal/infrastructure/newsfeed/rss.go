package newsfeed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"NewsReel/internal/domain"
	"NewsReel/internal/ports"
)

// RSSFeed is a secondary source reading one configured RSS feed URL.
// Feed schemas vary per publisher, so each instance normalizes on its own.
type RSSFeed struct {
	name       string
	feedURL    string
	httpClient *http.Client
}

var _ ports.SourceFeed = (*RSSFeed)(nil)

// NewRSSFeed builds a feed adapter for one RSS endpoint.
func NewRSSFeed(name, feedURL string, timeout time.Duration) *RSSFeed {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RSSFeed{
		name:       name,
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies this feed inside fallback diagnostics.
func (f *RSSFeed) Name() string {
	return f.name
}

type rssDocument struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// Fetch downloads and parses the feed. Items without a title are dropped;
// category/country/language have no meaning for a fixed feed URL, only the
// limit applies.
func (f *RSSFeed) Fetch(ctx context.Context, q ports.FeedQuery) ([]domain.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsReel/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s returned %s", f.name, resp.Status)
	}

	var doc rssDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", f.name, err)
	}

	sourceName := strings.TrimSpace(doc.Channel.Title)
	if sourceName == "" {
		sourceName = f.name
	}

	articles := make([]domain.Article, 0, len(doc.Channel.Items))
	for i, item := range doc.Channel.Items {
		if q.Limit > 0 && len(articles) >= q.Limit {
			break
		}

		article := domain.Article{
			ID:          nonEmpty(strings.TrimSpace(item.GUID), fmt.Sprintf("%s-%d", f.name, i)),
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(item.Description),
			URL:         strings.TrimSpace(item.Link),
			SourceName:  sourceName,
			PublishedAt: parseTimestamp(strings.TrimSpace(item.PubDate)),
		}
		if !article.Valid() {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}
