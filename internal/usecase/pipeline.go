package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"NewsReel/internal/domain"
	"NewsReel/internal/ports"
)

const stampLayout = "20060102_150405"

// PipelineDeps wires the stage components into the orchestrator. Recorder
// is optional; everything else is required for a run to make progress.
type PipelineDeps struct {
	Source      *FallbackSource
	Synthesizer *Synthesizer
	Planner     Planner
	Renderer    ports.Renderer
	Recorder    ports.RunRecorder
	Query       ports.FeedQuery
	VideoDir    string
	Logger      *slog.Logger
}

// Pipeline sequences fetch, script, and render for one article, and runs
// batches of independent runs sequentially.
type Pipeline struct {
	source      *FallbackSource
	synthesizer *Synthesizer
	planner     Planner
	renderer    ports.Renderer
	recorder    ports.RunRecorder
	query       ports.FeedQuery
	videoDir    string
	logger      *slog.Logger
	lastStamp   string
}

// NewPipeline constructs the orchestrator.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:      deps.Source,
		synthesizer: deps.Synthesizer,
		planner:     deps.Planner,
		renderer:    deps.Renderer,
		recorder:    deps.Recorder,
		query:       deps.Query,
		videoDir:    deps.VideoDir,
		logger:      deps.Logger,
	}
}

// ListArticles fetches the current trending articles without starting a run.
func (p *Pipeline) ListArticles(ctx context.Context) ([]domain.Article, error) {
	articles, _, err := p.source.FetchTrending(ctx, p.query)
	return articles, err
}

// Run executes one end-to-end pipeline for the article at the given index.
// The returned run carries stage statuses and output paths even on failure.
func (p *Pipeline) Run(ctx context.Context, index int) (domain.PipelineRun, error) {
	run := domain.PipelineRun{
		ID:        uuid.NewString()[:8],
		State:     domain.StateIdle,
		StartedAt: time.Now(),
	}

	// Fetching
	run.State = domain.StateFetching
	articles, attempts, err := p.source.FetchTrending(ctx, p.query)
	if err != nil {
		return p.fail(ctx, run, domain.StageFetching, err)
	}
	if index < 0 || index >= len(articles) {
		err := fmt.Errorf("article index %d out of range (%d available)", index, len(articles))
		return p.fail(ctx, run, domain.StageFetching, err)
	}
	run.Article = articles[index]
	run.RecordStage(domain.StageFetching, true, DescribeAttempts(attempts))
	p.info("article selected", "run", run.ID, "index", index, "title", run.Article.Title, "source", run.Article.SourceName)

	stamp := p.nextStamp(run.StartedAt)

	// Scripting never fails; a degraded script is still a valid script.
	run.State = domain.StateScripting
	script, scriptPath, degraded := p.synthesizer.Synthesize(ctx, run.Article, stamp)
	run.Script = script
	run.ScriptPath = scriptPath
	run.Degraded = degraded
	detail := "backend script"
	if degraded {
		detail = "fallback script"
	}
	run.RecordStage(domain.StageScripting, true, detail)
	p.info("script ready", "run", run.ID, "segments", len(script.Segments), "degraded", degraded)

	// Rendering
	run.State = domain.StateRendering
	segments, warning := p.planner.Plan(script)
	if warning != "" && p.logger != nil {
		p.logger.Warn(warning, "run", run.ID)
	}

	videoPath := filepath.Join(p.videoDir, fmt.Sprintf("video_%s.mp4", stamp))
	if err := p.renderer.Render(ctx, segments, videoPath); err != nil {
		_ = os.Remove(videoPath)
		return p.fail(ctx, run, domain.StageRendering, &domain.RenderFailure{Err: err})
	}
	run.VideoPath = videoPath
	run.RecordStage(domain.StageRendering, true, fmt.Sprintf("%d segments", len(segments)))

	run.State = domain.StateDone
	run.CompletedAt = time.Now()
	p.record(ctx, run)
	p.info("run complete", "run", run.ID, "video", run.VideoPath, "script", run.ScriptPath)
	return run, nil
}

// RunBatch executes n independent runs sequentially, continuing past
// failures, and reports the aggregate tally.
func (p *Pipeline) RunBatch(ctx context.Context, n int) domain.BatchReport {
	report := domain.BatchReport{Runs: make([]domain.PipelineRun, 0, n)}

	for i := 0; i < n; i++ {
		run, err := p.Run(ctx, i)
		report.Runs = append(report.Runs, run)
		if err != nil {
			report.Failed++
			if p.logger != nil {
				p.logger.Error("batch item failed", "item", i+1, "of", n, "stage", run.FailedStage, "error", err)
			}
			continue
		}
		report.Succeeded++
	}

	p.info("batch finished", "succeeded", report.Succeeded, "failed", report.Failed)
	return report
}

// nextStamp keys the artifact pair of one run. Execution is sequential, so
// a repeated same-second stamp simply takes the next second's key to keep
// the pair unique.
func (p *Pipeline) nextStamp(start time.Time) string {
	stamp := start.Format(stampLayout)
	if p.lastStamp != "" && stamp <= p.lastStamp {
		if prev, err := time.Parse(stampLayout, p.lastStamp); err == nil {
			stamp = prev.Add(time.Second).Format(stampLayout)
		}
	}
	p.lastStamp = stamp
	return stamp
}

func (p *Pipeline) fail(ctx context.Context, run domain.PipelineRun, stage domain.Stage, err error) (domain.PipelineRun, error) {
	run.State = domain.StateFailed
	run.FailedStage = stage
	run.Err = err.Error()
	run.CompletedAt = time.Now()
	run.RecordStage(stage, false, err.Error())
	p.record(ctx, run)
	return run, err
}

// record persists run history when a recorder is configured; recording
// errors are logged, never fatal.
func (p *Pipeline) record(ctx context.Context, run domain.PipelineRun) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.SaveRun(ctx, run); err != nil && p.logger != nil {
		p.logger.Warn("could not record run", "run", run.ID, "error", err)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
