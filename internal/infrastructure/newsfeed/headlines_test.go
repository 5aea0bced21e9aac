package newsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NewsReel/internal/ports"
)

func TestHeadlineScraperFetch(t *testing.T) {
	t.Parallel()

	html := `
	<html><body>
	  <div class="headline">
	    <h3>  Storage Prices Keep Falling  </h3>
	    <a href="/story/storage">read</a>
	  </div>
	  <div class="headline">
	    <h3></h3>
	    <a href="/story/empty">read</a>
	  </div>
	  <div class="headline">
	    <h3>Browser Ships New Engine</h3>
	    <a href="https://other.example.com/engine">read</a>
	  </div>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(html))
	}))
	defer srv.Close()

	scraper := NewHeadlineScraper("tech-page", srv.URL, "div.headline", "h3", "a", 5*time.Second)

	articles, err := scraper.Fetch(context.Background(), ports.FeedQuery{Limit: 10})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles (empty headline dropped), got %d", len(articles))
	}

	if articles[0].Title != "Storage Prices Keep Falling" {
		t.Fatalf("unexpected title: %q", articles[0].Title)
	}
	if articles[0].SourceName != "tech-page" {
		t.Fatalf("unexpected source: %s", articles[0].SourceName)
	}

	// Relative links resolve against the page URL.
	if articles[0].URL != srv.URL+"/story/storage" {
		t.Fatalf("relative link not resolved: %s", articles[0].URL)
	}
	if articles[1].URL != "https://other.example.com/engine" {
		t.Fatalf("absolute link mangled: %s", articles[1].URL)
	}
}

func TestHeadlineScraperLimit(t *testing.T) {
	t.Parallel()

	html := `<ul>
	  <li class="item"><span>First</span><a href="/1">x</a></li>
	  <li class="item"><span>Second</span><a href="/2">x</a></li>
	  <li class="item"><span>Third</span><a href="/3">x</a></li>
	</ul>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(html))
	}))
	defer srv.Close()

	scraper := NewHeadlineScraper("list", srv.URL, "li.item", "span", "a", 5*time.Second)

	articles, err := scraper.Fetch(context.Background(), ports.FeedQuery{Limit: 2})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected the limit to apply, got %d articles", len(articles))
	}
}
