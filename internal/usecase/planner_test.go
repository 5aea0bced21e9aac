package usecase

import (
	"reflect"
	"testing"
	"time"

	"NewsReel/internal/config"
	"NewsReel/internal/domain"
)

func testVideoConfig() config.VideoConfig {
	return config.VideoConfig{
		Width:           1280,
		Height:          720,
		FPS:             24,
		SegmentSeconds:  3,
		MinTotalSeconds: 30,
		MaxTotalSeconds: 60,
	}
}

func TestPlanFourSegmentScript(t *testing.T) {
	t.Parallel()

	planner := NewPlanner(testVideoConfig())
	script := domain.Script{
		Hook:       "The hook",
		Segments:   []string{"one", "two", "three", "four"},
		Conclusion: "The end",
	}

	segments, warning := planner.Plan(script)

	if len(segments) != 6 {
		t.Fatalf("expected 6 segments, got %d", len(segments))
	}

	wantStarts := []time.Duration{0, 3 * time.Second, 6 * time.Second, 9 * time.Second, 12 * time.Second, 15 * time.Second}
	for i, seg := range segments {
		if seg.Start != wantStarts[i] {
			t.Fatalf("segment %d starts at %s, want %s", i, seg.Start, wantStarts[i])
		}
		if seg.Duration != 3*time.Second {
			t.Fatalf("segment %d duration %s, want 3s", i, seg.Duration)
		}
	}

	if segments[0].Role != domain.RoleTitle {
		t.Fatalf("first segment role %s, want title", segments[0].Role)
	}
	if segments[5].Role != domain.RoleConclusion {
		t.Fatalf("last segment role %s, want conclusion", segments[5].Role)
	}

	last := segments[len(segments)-1]
	if total := last.Start + last.Duration; total != 18*time.Second {
		t.Fatalf("total duration %s, want 18s", total)
	}

	// 18s is below the 30s floor, so the planner surfaces a warning.
	if warning == "" {
		t.Fatal("expected an out-of-window warning")
	}
}

func TestPlanIsContiguous(t *testing.T) {
	t.Parallel()

	planner := NewPlanner(testVideoConfig())
	script := domain.Script{
		Hook:       "h",
		Segments:   []string{"a", "b", "c", "d", "e", "f", "g", "i"},
		Conclusion: "c",
	}

	segments, warning := planner.Plan(script)
	if warning != "" {
		// 10 segments at 3s each lands at 30s, inside the window.
		t.Fatalf("unexpected warning: %s", warning)
	}

	for i := 1; i < len(segments); i++ {
		prev := segments[i-1]
		if segments[i].Start != prev.Start+prev.Duration {
			t.Fatalf("segment %d is not contiguous: start %s, previous ended %s",
				i, segments[i].Start, prev.Start+prev.Duration)
		}
		if segments[i].Start <= prev.Start {
			t.Fatalf("segment %d start is not strictly increasing", i)
		}
	}
}

func TestPlanIsPure(t *testing.T) {
	t.Parallel()

	planner := NewPlanner(testVideoConfig())
	script := domain.Script{
		Hook:       "Again and again",
		Segments:   []string{"x", "y", "z"},
		Conclusion: "done",
	}

	first, _ := planner.Plan(script)
	second, _ := planner.Plan(script)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("planning the same script twice produced different segments")
	}
}
