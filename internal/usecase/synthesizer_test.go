package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"NewsReel/internal/domain"
)

type completerFunc func(ctx context.Context, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func testArticle() domain.Article {
	return domain.Article{
		ID:          "a-1",
		Title:       "New AI Technology Revolutionizes Video Creation",
		Description: "Researchers have developed a system that generates videos from text.",
		SourceName:  "Tech News",
		URL:         "https://example.com/ai",
	}
}

func newTestSynthesizer(t *testing.T, completer completerFunc) *Synthesizer {
	t.Helper()
	return NewSynthesizer(SynthesizerDeps{
		Completer:   completer,
		MinSegments: 3,
		MaxSegments: 8,
		ScriptDir:   t.TempDir(),
	})
}

func TestSynthesizeStripsMarkdownFence(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"hook\":\"X\",\"segments\":[\"a\",\"b\",\"c\"],\"conclusion\":\"Y\"}\n```"
	s := newTestSynthesizer(t, func(ctx context.Context, prompt string) (string, error) {
		return raw, nil
	})

	script, _, degraded := s.Synthesize(context.Background(), testArticle(), "20240101_000000")

	if degraded {
		t.Fatal("fenced JSON should not be treated as degraded")
	}
	want := domain.Script{Hook: "X", Segments: []string{"a", "b", "c"}, Conclusion: "Y"}
	if !reflect.DeepEqual(script, want) {
		t.Fatalf("got %+v, want %+v", script, want)
	}
}

func TestSynthesizeUnparsableProseFallsBack(t *testing.T) {
	t.Parallel()

	s := newTestSynthesizer(t, func(ctx context.Context, prompt string) (string, error) {
		return "I cannot help with that", nil
	})

	article := testArticle()
	script, _, degraded := s.Synthesize(context.Background(), article, "20240101_000001")

	if !degraded {
		t.Fatal("expected the fallback path to be flagged as degraded")
	}
	if err := script.Validate(3, 8); err != nil {
		t.Fatalf("fallback script violates invariants: %v", err)
	}
	if !strings.Contains(script.Hook, "New AI Technology") {
		t.Fatalf("fallback hook should derive from the article title, got %q", script.Hook)
	}
}

func TestSynthesizeHeuristicRecoversProse(t *testing.T) {
	t.Parallel()

	prose := "Big news today. AI is changing video. Everyone is talking about it. " +
		"The tools are getting cheaper. What happens next is anyone's guess."
	s := newTestSynthesizer(t, func(ctx context.Context, prompt string) (string, error) {
		return prose, nil
	})

	script, _, degraded := s.Synthesize(context.Background(), testArticle(), "20240101_000002")

	if degraded {
		t.Fatal("heuristic recovery should not be flagged as degraded")
	}
	if script.Hook != "Big news today" {
		t.Fatalf("unexpected hook: %q", script.Hook)
	}
	if len(script.Segments) != 3 {
		t.Fatalf("expected 3 recovered segments, got %d", len(script.Segments))
	}
}

func TestSynthesizeBackendFailureIsDeterministic(t *testing.T) {
	t.Parallel()

	s := newTestSynthesizer(t, func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("backend unavailable")
	})

	article := testArticle()
	first, _, degraded1 := s.Synthesize(context.Background(), article, "20240101_000003")
	second, _, degraded2 := s.Synthesize(context.Background(), article, "20240101_000004")

	if !degraded1 || !degraded2 {
		t.Fatal("backend failure must be flagged as degraded")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("fallback is not deterministic: %+v vs %+v", first, second)
	}
}

func TestSynthesizeNeverViolatesInvariants(t *testing.T) {
	t.Parallel()

	responses := []string{
		`{"hook":"ok","segments":["a","b","c","d"],"conclusion":"end"}`,
		`{"hook":"","segments":["a","b","c"],"conclusion":"end"}`,
		`{"hook":"h","segments":["a"],"conclusion":"end"}`,
		`{"hook":"h","segments":["a","b","c","d","e","f","g","h","i","j"],"conclusion":"end"}`,
		"not json at all",
		"",
	}

	for _, raw := range responses {
		s := newTestSynthesizer(t, func(ctx context.Context, prompt string) (string, error) {
			return raw, nil
		})
		script, _, _ := s.Synthesize(context.Background(), testArticle(), "20240101_000005")
		if err := script.Validate(3, 8); err != nil {
			t.Fatalf("response %q produced invalid script: %v", raw, err)
		}
	}
}

func TestSynthesizePersistsArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewSynthesizer(SynthesizerDeps{
		Completer: completerFunc(func(ctx context.Context, prompt string) (string, error) {
			return `{"hook":"X","segments":["a","b","c"],"conclusion":"Y"}`, nil
		}),
		MinSegments: 3,
		MaxSegments: 8,
		ScriptDir:   dir,
	})

	script, path, _ := s.Synthesize(context.Background(), testArticle(), "20240101_120000")

	if path != filepath.Join(dir, "script_20240101_120000.json") {
		t.Fatalf("unexpected artifact path: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var stored domain.Script
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(stored, script) {
		t.Fatalf("artifact %+v differs from returned script %+v", stored, script)
	}
}

func TestSynthesizePromptIncludesArticle(t *testing.T) {
	t.Parallel()

	var captured string
	s := newTestSynthesizer(t, func(ctx context.Context, prompt string) (string, error) {
		captured = prompt
		return `{"hook":"X","segments":["a","b","c"],"conclusion":"Y"}`, nil
	})

	article := testArticle()
	s.Synthesize(context.Background(), article, "20240101_000006")

	if !strings.Contains(captured, article.Title) {
		t.Fatal("prompt does not include the article title")
	}
	if !strings.Contains(captured, article.Description) {
		t.Fatal("prompt does not include the article description")
	}
}
