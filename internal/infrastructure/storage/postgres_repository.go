package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"NewsReel/internal/domain"
	"NewsReel/internal/ports"
)

// PostgresRepository records completed pipeline runs for history and audit.
// Artifacts on disk stay the durable record; this table is bookkeeping.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRecorder = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects to Postgres with the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// SaveRun upserts one run snapshot keyed by run id.
func (r *PostgresRepository) SaveRun(ctx context.Context, run domain.PipelineRun) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("pipeline_runs").
		Columns("run_id", "article_title", "article_source", "script_path", "video_path", "state", "failed_stage", "degraded", "created_at").
		Values(run.ID, run.Article.Title, run.Article.SourceName, run.ScriptPath, run.VideoPath, string(run.State), string(run.FailedStage), run.Degraded, run.CompletedAt).
		Suffix(`ON CONFLICT (run_id) DO UPDATE
		        SET video_path = EXCLUDED.video_path,
		            state = EXCLUDED.state,
		            failed_stage = EXCLUDED.failed_stage,
		            degraded = EXCLUDED.degraded`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert run %s: %w", run.ID, err)
	}
	return nil
}

// RecentRuns returns the newest runs, most recent first.
func (r *PostgresRepository) RecentRuns(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query, args, err := r.builder.
		Select("run_id", "article_title", "article_source", "script_path", "video_path", "state", "failed_stage", "degraded", "created_at").
		From("pipeline_runs").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.PipelineRun
	for rows.Next() {
		var (
			run         domain.PipelineRun
			state       string
			failedStage string
		)
		if err := rows.Scan(&run.ID, &run.Article.Title, &run.Article.SourceName,
			&run.ScriptPath, &run.VideoPath, &state, &failedStage, &run.Degraded, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.State = domain.RunState(state)
		run.FailedStage = domain.Stage(failedStage)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return runs, nil
}
