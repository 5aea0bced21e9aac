package ports

import (
	"context"

	"NewsReel/internal/domain"
)

// FeedQuery carries the parameters for one trending-news fetch.
type FeedQuery struct {
	Category string
	Country  string
	Language string
	Limit    int
}

// SourceFeed pulls candidate articles from one upstream provider. Feeds are
// tried in a fixed priority order by the fallback chain.
type SourceFeed interface {
	Name() string
	Fetch(ctx context.Context, q FeedQuery) ([]domain.Article, error)
}

// Completer is the single capability both generative backends expose.
// Provider selection happens at construction, never inside callers.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Renderer turns a fully planned segment sequence into a video file.
// It owns pixel and encoding concerns only.
type Renderer interface {
	Render(ctx context.Context, segments []domain.Segment, outputPath string) error
}

// RunRecorder persists completed runs for history and audit.
type RunRecorder interface {
	SaveRun(ctx context.Context, run domain.PipelineRun) error
	RecentRuns(ctx context.Context, limit int) ([]domain.PipelineRun, error)
}
