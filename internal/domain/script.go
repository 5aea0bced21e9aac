package domain

import (
	"fmt"
	"strings"
	"time"
)

// Script is the structured narration generated for one Article.
// Once built it is immutable; the JSON shape below is also the on-disk artifact.
type Script struct {
	Hook       string   `json:"hook"`
	Segments   []string `json:"segments"`
	Conclusion string   `json:"conclusion"`
}

// Validate checks the segment-count window and that every field is
// non-empty after trimming.
func (s Script) Validate(minSegments, maxSegments int) error {
	if strings.TrimSpace(s.Hook) == "" {
		return fmt.Errorf("script hook is empty")
	}
	if strings.TrimSpace(s.Conclusion) == "" {
		return fmt.Errorf("script conclusion is empty")
	}
	if len(s.Segments) < minSegments || len(s.Segments) > maxSegments {
		return fmt.Errorf("script has %d segments, want between %d and %d", len(s.Segments), minSegments, maxSegments)
	}
	for i, seg := range s.Segments {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("script segment %d is empty", i)
		}
	}
	return nil
}

// SegmentRole labels the position of one render unit inside the video.
type SegmentRole string

const (
	RoleTitle      SegmentRole = "title"
	RoleBody       SegmentRole = "body"
	RoleConclusion SegmentRole = "conclusion"
)

// Segment is one timed visual unit handed to the rendering engine.
// Segments are contiguous: the next start equals Start+Duration.
type Segment struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
	Role     SegmentRole
}
