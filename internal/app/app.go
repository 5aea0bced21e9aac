package app

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"NewsReel/internal/config"
	"NewsReel/internal/domain"
	"NewsReel/internal/infrastructure/llm"
	"NewsReel/internal/infrastructure/newsfeed"
	"NewsReel/internal/infrastructure/render"
	"NewsReel/internal/infrastructure/storage"
	"NewsReel/internal/logging"
	"NewsReel/internal/ports"
	"NewsReel/internal/usecase"
)

// Application wires configuration to adapters and the pipeline.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	recorder ports.RunRecorder
	db       *sql.DB
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.New(cfg.Logging.Level)
	}

	newsTimeout := time.Duration(cfg.News.TimeoutSeconds) * time.Second

	feeds := []ports.SourceFeed{
		newsfeed.NewNewsAPIClient(cfg.News.APIKey, cfg.News.Endpoint, newsTimeout),
	}
	for _, feed := range cfg.News.Feeds {
		feeds = append(feeds, newsfeed.NewRSSFeed(feed.Name, feed.URL, newsTimeout))
	}
	for _, scrape := range cfg.News.Scrapers {
		feeds = append(feeds, newsfeed.NewHeadlineScraper(
			scrape.Name, scrape.URL, scrape.ItemSelector, scrape.TitleSelector, scrape.LinkSelector, newsTimeout))
	}

	source := usecase.NewFallbackSource(feeds, newsTimeout, logging.Component(logger, "source"))

	completer := buildCompleter(cfg.LLM)
	if completer == nil {
		logger.Warn("no generative backend configured, scripts will use the fallback template")
	}

	synthesizer := usecase.NewSynthesizer(usecase.SynthesizerDeps{
		Completer:   completer,
		MinSegments: cfg.Script.MinSegments,
		MaxSegments: cfg.Script.MaxSegments,
		Timeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		ScriptDir:   cfg.Output.ScriptDir,
		Logger:      logging.Component(logger, "synthesizer"),
	})

	var (
		recorder ports.RunRecorder
		db       *sql.DB
	)
	if cfg.Database.DSN != "" {
		var err error
		db, err = storage.Open(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		recorder = storage.NewPostgresRepository(db)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      source,
		Synthesizer: synthesizer,
		Planner:     usecase.NewPlanner(cfg.Video),
		Renderer:    render.NewFFmpegRenderer(cfg.Video, logging.Component(logger, "render")),
		Recorder:    recorder,
		Query: ports.FeedQuery{
			Category: cfg.News.Category,
			Country:  cfg.News.Country,
			Language: cfg.News.Language,
			Limit:    cfg.News.MaxArticles,
		},
		VideoDir: cfg.Output.VideoDir,
		Logger:   logging.Component(logger, "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, recorder: recorder, db: db}, nil
}

func buildCompleter(cfg config.LLMConfig) ports.Completer {
	switch cfg.Provider {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil
		}
		return llm.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Endpoint,
			time.Duration(cfg.TimeoutSeconds)*time.Second)
	default:
		if cfg.OpenAI.APIKey == "" {
			return nil
		}
		return llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}
}

// ListArticles returns the current trending articles.
func (a *Application) ListArticles(ctx context.Context) ([]domain.Article, error) {
	return a.pipeline.ListArticles(ctx)
}

// Generate runs one pipeline for the article at the given index.
func (a *Application) Generate(ctx context.Context, index int) (domain.PipelineRun, error) {
	return a.pipeline.Run(ctx, index)
}

// Batch runs n sequential pipelines and reports the aggregate outcome.
func (a *Application) Batch(ctx context.Context, n int) domain.BatchReport {
	return a.pipeline.RunBatch(ctx, n)
}

// RecentRuns lists persisted run history, newest first. Returns nil when no
// run recorder is configured.
func (a *Application) RecentRuns(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	if a.recorder == nil {
		return nil, nil
	}
	return a.recorder.RecentRuns(ctx, limit)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
