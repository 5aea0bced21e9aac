package newsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"NewsReel/internal/domain"
	"NewsReel/internal/ports"
)

// NewsAPIClient is the primary provider: a top-headlines JSON endpoint.
type NewsAPIClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

var _ ports.SourceFeed = (*NewsAPIClient)(nil)

// NewNewsAPIClient builds the primary client. An empty endpoint falls back
// to the public NewsAPI top-headlines URL.
func NewNewsAPIClient(apiKey, endpoint string, timeout time.Duration) *NewsAPIClient {
	if endpoint == "" {
		endpoint = "https://newsapi.org/v2/top-headlines"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NewsAPIClient{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies this feed inside fallback diagnostics.
func (c *NewsAPIClient) Name() string {
	return "newsapi"
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"publishedAt"`
	URLToImage  string        `json:"urlToImage"`
	Source      newsAPISource `json:"source"`
}

type newsAPISource struct {
	Name string `json:"name"`
}

// Fetch queries top headlines and normalizes the result. Records missing a
// required field are dropped, not reported as errors.
func (c *NewsAPIClient) Fetch(ctx context.Context, q ports.FeedQuery) ([]domain.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi key is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("language", q.Language)
	params.Set("category", q.Category)
	params.Set("country", q.Country)
	params.Set("pageSize", strconv.Itoa(q.Limit))
	req.URL.RawQuery = params.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request headlines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned %s", resp.Status)
	}

	var raw newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode headlines: %w", err)
	}
	if raw.Status != "ok" {
		return nil, fmt.Errorf("newsapi error: %s", nonEmpty(raw.Message, "unknown error"))
	}

	articles := make([]domain.Article, 0, len(raw.Articles))
	for i, item := range raw.Articles {
		if q.Limit > 0 && len(articles) >= q.Limit {
			break
		}

		article := domain.Article{
			ID:          nonEmpty(strings.TrimSpace(item.URL), fmt.Sprintf("newsapi-%d", i)),
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(item.Description),
			URL:         strings.TrimSpace(item.URL),
			SourceName:  nonEmpty(strings.TrimSpace(item.Source.Name), "Unknown"),
			PublishedAt: parseTimestamp(item.PublishedAt),
			ImageURL:    strings.TrimSpace(item.URLToImage),
		}
		if !article.Valid() {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339, time.RFC1123Z, time.RFC1123} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func nonEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
