package ffmpeg

import (
	"context"
	"fmt"

	"mashup/domain/mashup"
)

// DefaultAudioBitrate is the default bitrate for extracted and trimmed audio
const DefaultAudioBitrate = "192k"

// Extractor implements mashup.AudioExtractor using ffmpeg
type Extractor struct {
	ffmpegPath string
	bitrate    string
	runner     CommandRunner
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithExtractorFFmpegPath sets a custom ffmpeg executable path
func WithExtractorFFmpegPath(path string) ExtractorOption {
	return func(e *Extractor) {
		if path != "" {
			e.ffmpegPath = path
		}
	}
}

// WithExtractorBitrate sets the MP3 bitrate
func WithExtractorBitrate(bitrate string) ExtractorOption {
	return func(e *Extractor) {
		if bitrate != "" {
			e.bitrate = bitrate
		}
	}
}

// WithExtractorCommandRunner sets a custom command runner (for testing)
func WithExtractorCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// NewExtractor creates a new FFmpeg-based audio extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ffmpegPath: "ffmpeg",
		bitrate:    DefaultAudioBitrate,
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract implements mashup.AudioExtractor
func (e *Extractor) Extract(ctx context.Context, mediaPath, outputPath string) error {
	args := []string{
		"-hide_banner",
		"-i", mediaPath,
		"-vn",                   // No video
		"-acodec", "libmp3lame", // MP3 codec
		"-ab", e.bitrate,        // Audio bitrate
		"-y",                    // Overwrite output file if it exists
		outputPath,
	}

	if err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg audio extraction failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (e *Extractor) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, e.runner, e.ffmpegPath)
}

// Ensure Extractor implements mashup.AudioExtractor
var _ mashup.AudioExtractor = (*Extractor)(nil)
