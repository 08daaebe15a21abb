package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"mashup/domain/mashup"
)

// partialSuffix marks the temporary file a trim writes before replacing the original
const partialSuffix = ".part"

// FileRenamer replaces one file with another
type FileRenamer func(oldPath, newPath string) error

// Trimmer implements mashup.Trimmer using ffmpeg
type Trimmer struct {
	ffmpegPath string
	bitrate    string
	runner     CommandRunner
	rename     FileRenamer
	remove     func(path string) error
}

// TrimmerOption is a functional option for configuring Trimmer
type TrimmerOption func(*Trimmer)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) TrimmerOption {
	return func(t *Trimmer) {
		if path != "" {
			t.ffmpegPath = path
		}
	}
}

// WithTrimBitrate sets the MP3 bitrate used when re-encoding the trimmed clip
func WithTrimBitrate(bitrate string) TrimmerOption {
	return func(t *Trimmer) {
		if bitrate != "" {
			t.bitrate = bitrate
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) TrimmerOption {
	return func(t *Trimmer) {
		t.runner = runner
	}
}

// WithRenamer sets a custom rename function (for testing)
func WithRenamer(rename FileRenamer) TrimmerOption {
	return func(t *Trimmer) {
		t.rename = rename
	}
}

// NewTrimmer creates a new FFmpeg-based trimmer
func NewTrimmer(opts ...TrimmerOption) *Trimmer {
	t := &Trimmer{
		ffmpegPath: "ffmpeg",
		bitrate:    DefaultAudioBitrate,
		runner:     &ExecCommandRunner{},
		rename:     os.Rename,
		remove:     os.Remove,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Trim implements mashup.Trimmer. The clip is written next to the original
// and then renamed over it, so a failed trim leaves the original untouched.
func (t *Trimmer) Trim(ctx context.Context, path string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("trim duration must be positive, got %s", d)
	}

	tmpPath := path + partialSuffix
	args := []string{
		"-hide_banner",
		"-i", path,
		"-t", formatSeconds(d),
		"-vn",
		"-acodec", "libmp3lame",
		"-ab", t.bitrate,
		"-f", "mp3", // Output extension is .part, so name the muxer
		"-y",
		tmpPath,
	}

	if err := t.runner.Run(ctx, t.ffmpegPath, args...); err != nil {
		_ = t.remove(tmpPath)
		return fmt.Errorf("ffmpeg trim failed: %w", err)
	}

	if err := t.rename(tmpPath, path); err != nil {
		_ = t.remove(tmpPath)
		return fmt.Errorf("failed to replace %s with trimmed clip: %w", path, err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (t *Trimmer) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, t.runner, t.ffmpegPath)
}

// formatSeconds renders d as seconds with millisecond precision, e.g. "21.000"
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(float64(d.Milliseconds())/1000, 'f', 3, 64)
}

// Ensure Trimmer implements mashup.Trimmer
var _ mashup.Trimmer = (*Trimmer)(nil)
