package domain

import "time"

// Stage identifies one step of the pipeline.
type Stage string

const (
	StageFetching  Stage = "fetching"
	StageScripting Stage = "scripting"
	StageRendering Stage = "rendering"
)

// RunState tracks where a PipelineRun is in its lifecycle.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateFetching  RunState = "fetching"
	StateScripting RunState = "scripting"
	StateRendering RunState = "rendering"
	StateDone      RunState = "done"
	StateFailed    RunState = "failed"
)

// StageStatus records the outcome of one stage within a run.
type StageStatus struct {
	Stage  Stage
	OK     bool
	Detail string
}

// PipelineRun is one end-to-end execution from article selection to video
// artifact. The two output paths are the durable record; the struct itself
// is discarded once the caller has the result.
type PipelineRun struct {
	ID          string
	Article     Article
	Script      Script
	ScriptPath  string
	VideoPath   string
	State       RunState
	FailedStage Stage
	Degraded    bool
	Stages      []StageStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
}

// RecordStage appends a stage outcome to the run history.
func (r *PipelineRun) RecordStage(stage Stage, ok bool, detail string) {
	r.Stages = append(r.Stages, StageStatus{Stage: stage, OK: ok, Detail: detail})
}

// BatchReport aggregates the outcome of several sequential runs.
type BatchReport struct {
	Runs      []PipelineRun
	Succeeded int
	Failed    int
}
