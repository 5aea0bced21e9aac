package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"NewsReel/internal/domain"
	"NewsReel/internal/ports"
)

// SourceAttempt records the outcome of trying one feed in the chain.
type SourceAttempt struct {
	Source   string
	Err      error
	Articles int
	Used     bool
}

// FallbackSource tries each configured feed in priority order and
// short-circuits at the first one returning at least one valid article.
// It fails only when every feed fails, never by returning an empty result.
type FallbackSource struct {
	feeds   []ports.SourceFeed
	timeout time.Duration
	logger  *slog.Logger
}

// NewFallbackSource wires the ordered feed chain. The timeout bounds each
// individual feed attempt, not the chain as a whole.
func NewFallbackSource(feeds []ports.SourceFeed, timeout time.Duration, logger *slog.Logger) *FallbackSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FallbackSource{feeds: feeds, timeout: timeout, logger: logger}
}

// FetchTrending returns the first healthy feed's articles together with the
// attempt log. When every feed fails the error is a *domain.SourceUnavailable
// carrying all per-source reasons.
func (s *FallbackSource) FetchTrending(ctx context.Context, q ports.FeedQuery) ([]domain.Article, []SourceAttempt, error) {
	attempts := make([]SourceAttempt, 0, len(s.feeds))

	for _, feed := range s.feeds {
		articles, err := s.fetchOne(ctx, feed, q)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("news source failed", "source", feed.Name(), "error", err)
			}
			attempts = append(attempts, SourceAttempt{Source: feed.Name(), Err: err})
			continue
		}

		attempts = append(attempts, SourceAttempt{Source: feed.Name(), Articles: len(articles), Used: true})
		if s.logger != nil {
			s.logger.Debug("news source used", "source", feed.Name(), "articles", len(articles))
		}
		return articles, attempts, nil
	}

	failures := make([]domain.SourceFailure, 0, len(attempts))
	for _, a := range attempts {
		failures = append(failures, domain.SourceFailure{Source: a.Source, Err: a.Err})
	}
	return nil, attempts, &domain.SourceUnavailable{Failures: failures}
}

func (s *FallbackSource) fetchOne(ctx context.Context, feed ports.SourceFeed, q ports.FeedQuery) ([]domain.Article, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	articles, err := feed.Fetch(attemptCtx, q)
	if err != nil {
		return nil, err
	}

	valid := dedupe(articles, feed.Name())
	if len(valid) == 0 {
		return nil, fmt.Errorf("returned no valid articles")
	}
	return valid, nil
}

// dedupe drops invalid records and guarantees in-batch ID uniqueness,
// assigning positional IDs where the upstream provided none.
func dedupe(articles []domain.Article, feedName string) []domain.Article {
	seen := map[string]struct{}{}
	valid := make([]domain.Article, 0, len(articles))
	for i, article := range articles {
		if !article.Valid() {
			continue
		}
		id := strings.TrimSpace(article.ID)
		if id == "" {
			id = fmt.Sprintf("%s-%d", feedName, i)
		}
		if _, dup := seen[id]; dup {
			id = fmt.Sprintf("%s-%d", id, i)
		}
		seen[id] = struct{}{}
		article.ID = id
		valid = append(valid, article)
	}
	return valid
}

// DescribeAttempts renders the attempt log for stage-status reporting.
func DescribeAttempts(attempts []SourceAttempt) string {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		switch {
		case a.Used:
			parts = append(parts, fmt.Sprintf("%s: used (%d articles)", a.Source, a.Articles))
		case a.Err != nil:
			parts = append(parts, fmt.Sprintf("%s: failed (%v)", a.Source, a.Err))
		default:
			parts = append(parts, fmt.Sprintf("%s: skipped", a.Source))
		}
	}
	return strings.Join(parts, "; ")
}
