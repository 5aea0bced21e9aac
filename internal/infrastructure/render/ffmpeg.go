package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"NewsReel/internal/config"
	"NewsReel/internal/domain"
	"NewsReel/internal/ports"
)

const (
	titleBackground = "0x141428"
	bodyBackground  = "0x1e1e32"
	fadeSeconds     = 0.5
)

// FFmpegRenderer encodes a planned segment sequence into an MP4 by shelling
// out to ffmpeg: one solid-background drawtext clip per segment, faded at the
// boundaries and concatenated.
type FFmpegRenderer struct {
	cfg     config.VideoConfig
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.Renderer = (*FFmpegRenderer)(nil)

// NewFFmpegRenderer wires the video settings.
func NewFFmpegRenderer(cfg config.VideoConfig, logger *slog.Logger) *FFmpegRenderer {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &FFmpegRenderer{cfg: cfg, timeout: timeout, logger: logger}
}

// Render writes the video to outputPath. On any encoder error the partial
// output is removed before returning.
func (r *FFmpegRenderer) Render(ctx context.Context, segments []domain.Segment, outputPath string) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments to render")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	args := r.buildArgs(segments, outputPath)
	if r.logger != nil {
		r.logger.Debug("encoding video", "segments", len(segments), "output", outputPath)
	}

	encodeCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(encodeCtx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.Remove(outputPath)
		detail := lastLine(stderr.String())
		if detail != "" {
			return fmt.Errorf("ffmpeg encode: %w: %s", err, detail)
		}
		return fmt.Errorf("ffmpeg encode: %w", err)
	}
	return nil
}

func (r *FFmpegRenderer) buildArgs(segments []domain.Segment, outputPath string) []string {
	args := []string{"-y"}

	for _, seg := range segments {
		args = append(args,
			"-f", "lavfi",
			"-i", fmt.Sprintf("color=c=%s:s=%dx%d:d=%.2f:r=%d",
				backgroundFor(seg.Role), r.cfg.Width, r.cfg.Height, seg.Duration.Seconds(), r.cfg.FPS),
		)
	}

	var filter strings.Builder
	labels := make([]string, 0, len(segments))
	for i, seg := range segments {
		label := fmt.Sprintf("v%d", i)
		fmt.Fprintf(&filter,
			"[%d:v]drawtext=text='%s':fontcolor=white:fontsize=%d:x=(w-text_w)/2:y=(h-text_h)/2:shadowcolor=black:shadowx=3:shadowy=3,%s[%s];",
			i, escapeDrawText(seg.Text), fontSizeFor(seg.Role), fadeFor(seg), label)
		labels = append(labels, "["+label+"]")
	}
	fmt.Fprintf(&filter, "%sconcat=n=%d:v=1:a=0[out]", strings.Join(labels, ""), len(segments))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[out]",
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", r.cfg.FPS),
		outputPath,
	)
	return args
}

func backgroundFor(role domain.SegmentRole) string {
	if role == domain.RoleTitle {
		return titleBackground
	}
	return bodyBackground
}

func fontSizeFor(role domain.SegmentRole) int {
	if role == domain.RoleTitle {
		return 72
	}
	return 48
}

// fadeFor gives the title a fade-in only; body and conclusion segments fade
// in and out at their boundaries.
func fadeFor(seg domain.Segment) string {
	in := fmt.Sprintf("fade=t=in:st=0:d=%.2f", fadeSeconds)
	if seg.Role == domain.RoleTitle {
		return in
	}
	outStart := seg.Duration.Seconds() - fadeSeconds
	if outStart < 0 {
		outStart = 0
	}
	return fmt.Sprintf("%s,fade=t=out:st=%.2f:d=%.2f", in, outStart, fadeSeconds)
}

// escapeDrawText quotes the characters the drawtext filter parser treats
// specially.
func escapeDrawText(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\\\'`,
		`:`, `\:`,
		`,`, `\,`,
		`;`, `\;`,
		`[`, `\[`,
		`]`, `\]`,
		`%`, `\%`,
	)
	return replacer.Replace(text)
}

func lastLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
