package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mashup/domain/mashup"
)

// Concatenator implements mashup.Concatenator using the ffmpeg concat demuxer
type Concatenator struct {
	ffmpegPath string
	runner     CommandRunner
}

// ConcatenatorOption is a functional option for configuring Concatenator
type ConcatenatorOption func(*Concatenator)

// WithConcatFFmpegPath sets a custom ffmpeg executable path
func WithConcatFFmpegPath(path string) ConcatenatorOption {
	return func(c *Concatenator) {
		if path != "" {
			c.ffmpegPath = path
		}
	}
}

// WithConcatCommandRunner sets a custom command runner (for testing)
func WithConcatCommandRunner(runner CommandRunner) ConcatenatorOption {
	return func(c *Concatenator) {
		c.runner = runner
	}
}

// NewConcatenator creates a new FFmpeg-based concatenator
func NewConcatenator(opts ...ConcatenatorOption) *Concatenator {
	c := &Concatenator{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Concat implements mashup.Concatenator. With no inputs it writes an empty file.
func (c *Concatenator) Concat(ctx context.Context, inputs []string, outputPath string) error {
	if len(inputs) == 0 {
		if err := os.WriteFile(outputPath, nil, 0644); err != nil {
			return fmt.Errorf("failed to write empty output: %w", err)
		}
		return nil
	}

	listFile, err := writeConcatList(inputs)
	if err != nil {
		return err
	}
	defer os.Remove(listFile)

	args := []string{
		"-hide_banner",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		"-y",
		outputPath,
	}

	if err := c.runner.Run(ctx, c.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w", err)
	}

	return nil
}

// writeConcatList writes the concat demuxer input list to a temp file
func writeConcatList(inputs []string) (string, error) {
	f, err := os.CreateTemp("", "mashup-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create concat list: %w", err)
	}
	defer f.Close()

	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			abs = in
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", escapeConcatPath(abs)); err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("failed to write concat list: %w", err)
		}
	}

	return f.Name(), nil
}

// escapeConcatPath quotes a path for a single-quoted concat list entry
func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}

// VerifyInstalled checks that ffmpeg is available
func (c *Concatenator) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, c.runner, c.ffmpegPath)
}

// Ensure Concatenator implements mashup.Concatenator
var _ mashup.Concatenator = (*Concatenator)(nil)
