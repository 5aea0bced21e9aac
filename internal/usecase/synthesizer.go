package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"NewsReel/internal/domain"
	"NewsReel/internal/ports"
)

const promptTemplate = `Create an engaging 30-60 second video script for this news article.

Title: %s
Description: %s
Source: %s

Requirements:
1. Break the script into 4-6 short, punchy segments
2. Each segment should be 1-2 sentences (8-12 words max)
3. Make it engaging and suitable for social media
4. Start with a hook to grab attention
5. End with a call-to-action or thought-provoking statement

Format the response as JSON with this structure:
{
    "hook": "attention-grabbing opening",
    "segments": ["segment 1", "segment 2", "segment 3", "segment 4"],
    "conclusion": "closing statement or CTA"
}
`

// Synthesizer turns one Article into a valid Script. It never fails: when
// the backend is unavailable or its output cannot be recovered, a
// deterministic template script is built from the article itself. The two
// paths are indistinguishable at the type level; degradation is a flag.
type Synthesizer struct {
	completer   ports.Completer
	minSegments int
	maxSegments int
	timeout     time.Duration
	scriptDir   string
	logger      *slog.Logger
}

// SynthesizerDeps wires the synthesizer. Completer may be nil, in which case
// every script takes the fallback path.
type SynthesizerDeps struct {
	Completer   ports.Completer
	MinSegments int
	MaxSegments int
	Timeout     time.Duration
	ScriptDir   string
	Logger      *slog.Logger
}

// NewSynthesizer constructs the component with sane segment-window defaults.
func NewSynthesizer(deps SynthesizerDeps) *Synthesizer {
	minSeg, maxSeg := deps.MinSegments, deps.MaxSegments
	if minSeg <= 0 {
		minSeg = 3
	}
	if maxSeg < minSeg {
		maxSeg = 8
	}
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Synthesizer{
		completer:   deps.Completer,
		minSegments: minSeg,
		maxSegments: maxSeg,
		timeout:     timeout,
		scriptDir:   deps.ScriptDir,
		logger:      deps.Logger,
	}
}

// Synthesize generates, validates, and persists the script for one article.
// The returned path points at the JSON artifact keyed by stamp; it is empty
// only if the artifact could not be written. degraded reports that the
// deterministic fallback was used instead of backend output.
func (s *Synthesizer) Synthesize(ctx context.Context, article domain.Article, stamp string) (script domain.Script, scriptPath string, degraded bool) {
	script, degraded = s.generate(ctx, article)

	path, err := s.persist(script, stamp)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("could not persist script artifact", "error", err)
		}
	} else {
		scriptPath = path
	}
	return script, scriptPath, degraded
}

func (s *Synthesizer) generate(ctx context.Context, article domain.Article) (domain.Script, bool) {
	if s.completer == nil {
		return s.fallbackScript(article), true
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.completer.Complete(callCtx, buildPrompt(article))
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("completion failed, using fallback script", "error", err)
		}
		return s.fallbackScript(article), true
	}

	if script, ok := s.parseStrict(raw); ok {
		return script, false
	}
	if script, ok := s.parseStrict(stripFences(raw)); ok {
		return script, false
	}
	if script, ok := s.heuristicScript(raw); ok {
		if s.logger != nil {
			s.logger.Warn("structured parse failed, recovered script heuristically")
		}
		return script, false
	}

	if s.logger != nil {
		s.logger.Warn("backend response unusable, using fallback script")
	}
	return s.fallbackScript(article), true
}

func buildPrompt(article domain.Article) string {
	return fmt.Sprintf(promptTemplate, article.Title, article.Description, article.SourceName)
}

// parseStrict attempts a structured parse and revalidates the invariants;
// an invalid intermediate never escapes.
func (s *Synthesizer) parseStrict(raw string) (domain.Script, bool) {
	var script domain.Script
	if err := json.Unmarshal([]byte(raw), &script); err != nil {
		return domain.Script{}, false
	}
	script = trimScript(script)
	if err := script.Validate(s.minSegments, s.maxSegments); err != nil {
		return domain.Script{}, false
	}
	return script, true
}

// stripFences removes a markdown code-fence wrapper and slices down to the
// outermost JSON object, tolerating prose around it.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}
	return raw
}

var sentenceBoundary = regexp.MustCompile(`[.!?]+\s+`)

// heuristicScript recovers a best-effort script from free text by splitting
// on sentence boundaries: first sentence becomes the hook, last the
// conclusion, the middle the segments.
func (s *Synthesizer) heuristicScript(raw string) (domain.Script, bool) {
	sentences := splitSentences(raw)
	if len(sentences) < s.minSegments+2 {
		return domain.Script{}, false
	}

	body := sentences[1 : len(sentences)-1]
	if len(body) > s.maxSegments {
		body = body[:s.maxSegments]
	}

	script := trimScript(domain.Script{
		Hook:       sentences[0],
		Segments:   body,
		Conclusion: sentences[len(sentences)-1],
	})
	if err := script.Validate(s.minSegments, s.maxSegments); err != nil {
		return domain.Script{}, false
	}
	return script, true
}

func splitSentences(raw string) []string {
	parts := sentenceBoundary.Split(strings.TrimSpace(raw), -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// fallbackScript builds the deterministic template script. Two calls with
// the same article always produce the identical result.
func (s *Synthesizer) fallbackScript(article domain.Article) domain.Script {
	description := strings.TrimSpace(article.Description)
	if description == "" {
		description = "Breaking news story"
	}

	return trimScript(domain.Script{
		Hook: truncate(article.Title, 80),
		Segments: []string{
			truncate(description, 100),
			fmt.Sprintf("This story comes from %s.", article.SourceName),
			"What are your thoughts?",
			"Follow for more updates!",
		},
		Conclusion: "Stay informed!",
	})
}

func (s *Synthesizer) persist(script domain.Script, stamp string) (string, error) {
	if s.scriptDir == "" {
		return "", fmt.Errorf("script directory is not configured")
	}
	if err := os.MkdirAll(s.scriptDir, 0o755); err != nil {
		return "", fmt.Errorf("create script dir: %w", err)
	}

	data, err := json.MarshalIndent(script, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal script: %w", err)
	}

	path := filepath.Join(s.scriptDir, fmt.Sprintf("script_%s.json", stamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write script artifact: %w", err)
	}
	return path, nil
}

func trimScript(script domain.Script) domain.Script {
	segments := make([]string, 0, len(script.Segments))
	for _, seg := range script.Segments {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return domain.Script{
		Hook:       strings.TrimSpace(script.Hook),
		Segments:   segments,
		Conclusion: strings.TrimSpace(script.Conclusion),
	}
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit]))
}
