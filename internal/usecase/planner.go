package usecase

import (
	"fmt"
	"time"

	"NewsReel/internal/config"
	"NewsReel/internal/domain"
)

// Planner converts a Script into an ordered, contiguous segment sequence.
// Timing is count-driven: total runtime emerges from segment count times the
// fixed per-segment duration and is never solved for.
type Planner struct {
	segmentDuration time.Duration
	minTotal        time.Duration
	maxTotal        time.Duration
}

// NewPlanner derives timing policy from the video configuration.
func NewPlanner(cfg config.VideoConfig) Planner {
	segment := time.Duration(cfg.SegmentSeconds) * time.Second
	if segment <= 0 {
		segment = 3 * time.Second
	}
	return Planner{
		segmentDuration: segment,
		minTotal:        time.Duration(cfg.MinTotalSeconds) * time.Second,
		maxTotal:        time.Duration(cfg.MaxTotalSeconds) * time.Second,
	}
}

// Plan is a pure function of the script: repeated calls yield identical
// timings. The warning is non-empty when the emergent total falls outside
// the configured window; the plan is returned regardless, uncorrected.
func (p Planner) Plan(script domain.Script) ([]domain.Segment, string) {
	segments := make([]domain.Segment, 0, len(script.Segments)+2)
	var cursor time.Duration

	emit := func(text string, role domain.SegmentRole) {
		segments = append(segments, domain.Segment{
			Text:     text,
			Start:    cursor,
			Duration: p.segmentDuration,
			Role:     role,
		})
		cursor += p.segmentDuration
	}

	emit(script.Hook, domain.RoleTitle)
	for _, text := range script.Segments {
		emit(text, domain.RoleBody)
	}
	emit(script.Conclusion, domain.RoleConclusion)

	var warning string
	if p.maxTotal > 0 && (cursor < p.minTotal || cursor > p.maxTotal) {
		warning = fmt.Sprintf("planned total %s is outside the target window [%s, %s]",
			cursor, p.minTotal, p.maxTotal)
	}
	return segments, warning
}
