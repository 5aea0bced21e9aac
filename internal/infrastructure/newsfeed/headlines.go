package newsfeed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsReel/internal/domain"
	"NewsReel/internal/ports"
)

// HeadlineScraper is a secondary source extracting headlines from an HTML
// page with configured CSS selectors.
type HeadlineScraper struct {
	name          string
	pageURL       string
	itemSelector  string
	titleSelector string
	linkSelector  string
	httpClient    *http.Client
}

var _ ports.SourceFeed = (*HeadlineScraper)(nil)

// NewHeadlineScraper wires one headline page. Empty selectors default to a
// plain list of anchors.
func NewHeadlineScraper(name, pageURL, itemSelector, titleSelector, linkSelector string, timeout time.Duration) *HeadlineScraper {
	if itemSelector == "" {
		itemSelector = "a"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HeadlineScraper{
		name:          name,
		pageURL:       pageURL,
		itemSelector:  itemSelector,
		titleSelector: titleSelector,
		linkSelector:  linkSelector,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// Name identifies this feed inside fallback diagnostics.
func (s *HeadlineScraper) Name() string {
	return s.name
}

// Fetch downloads the page and walks the configured selectors. Entries
// without a usable title are skipped.
func (s *HeadlineScraper) Fetch(ctx context.Context, q ports.FeedQuery) ([]domain.Article, error) {
	doc, err := s.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}

	var articles []domain.Article
	doc.Find(s.itemSelector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if q.Limit > 0 && len(articles) >= q.Limit {
			return false
		}

		title := sel.Text()
		if s.titleSelector != "" {
			title = sel.Find(s.titleSelector).First().Text()
		}
		title = strings.Join(strings.Fields(title), " ")

		link := s.extractLink(sel)

		article := domain.Article{
			ID:         nonEmpty(link, fmt.Sprintf("%s-%d", s.name, i)),
			Title:      title,
			URL:        link,
			SourceName: s.name,
		}
		if !article.Valid() {
			return true
		}
		articles = append(articles, article)
		return true
	})

	return articles, nil
}

func (s *HeadlineScraper) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsReel/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page %s returned %s", s.name, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

func (s *HeadlineScraper) extractLink(sel *goquery.Selection) string {
	anchor := sel
	if s.linkSelector != "" {
		anchor = sel.Find(s.linkSelector).First()
	}
	href, ok := anchor.Attr("href")
	if !ok {
		return ""
	}
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}

	base, err := url.Parse(s.pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
