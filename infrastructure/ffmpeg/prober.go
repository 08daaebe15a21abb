package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mashup/domain/mashup"
)

// Prober implements mashup.Prober using ffprobe
type Prober struct {
	ffprobePath string
	runner      CommandRunner
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		if path != "" {
			p.ffprobePath = path
		}
	}
}

// WithProberCommandRunner sets a custom command runner (for testing)
func WithProberCommandRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// NewProber creates a new ffprobe-based prober
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Probe implements mashup.Prober. A file without an audio stream or
// without a readable duration is reported as mashup.ErrNoAudio.
func (p *Prober) Probe(ctx context.Context, path string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "stream=codec_type:format=duration",
		"-of", "default=noprint_wrappers=1",
		path,
	}

	out, err := p.runner.Output(ctx, p.ffprobePath, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeOutput(out)
}

// parseProbeOutput reads key=value lines such as
//
//	codec_type=audio
//	duration=21.024000
func parseProbeOutput(out []byte) (time.Duration, error) {
	var hasAudio bool
	var duration string

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "codec_type":
			if value == "audio" {
				hasAudio = true
			}
		case "duration":
			duration = value
		}
	}

	if !hasAudio {
		return 0, mashup.ErrNoAudio
	}

	seconds, err := strconv.ParseFloat(duration, 64)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("%w: unreadable duration %q", mashup.ErrNoAudio, duration)
	}

	return time.Duration(seconds * float64(time.Second)).Round(time.Millisecond), nil
}

// VerifyInstalled checks that ffprobe is available
func (p *Prober) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, p.runner, p.ffprobePath)
}

// Ensure Prober implements mashup.Prober
var _ mashup.Prober = (*Prober)(nil)
