package ytdlp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mashup/domain/mashup"

	"github.com/lrstanley/go-ytdlp"
)

// DefaultFormat is the yt-dlp format selector used when none is configured
const DefaultFormat = "best"

// outputTemplate names each download after the video title
const outputTemplate = "%(title)s.%(ext)s"

// RunRequest is one bulk search-and-download invocation
type RunRequest struct {
	Target     string // e.g. "ytsearch11:TestArtist official song"
	OutputTmpl string
	Format     string
	Executable string
}

// RunFunc executes a RunRequest. The production implementation shells out
// to yt-dlp via go-ytdlp.
type RunFunc func(ctx context.Context, req RunRequest) error

// VersionFunc reports the version of the yt-dlp binary at executable
// ("" means the one go-ytdlp resolves).
type VersionFunc func(ctx context.Context, executable string) (string, error)

// Downloader implements mashup.Downloader using yt-dlp search URLs
type Downloader struct {
	format     string
	executable string
	run        RunFunc
	version    VersionFunc
}

// DownloaderOption is a functional option for configuring Downloader
type DownloaderOption func(*Downloader)

// WithFormat sets the yt-dlp format selector
func WithFormat(format string) DownloaderOption {
	return func(d *Downloader) {
		if format != "" {
			d.format = format
		}
	}
}

// WithExecutable sets a custom yt-dlp executable path
func WithExecutable(path string) DownloaderOption {
	return func(d *Downloader) {
		d.executable = path
	}
}

// WithRunFunc replaces the yt-dlp invocation (for testing)
func WithRunFunc(run RunFunc) DownloaderOption {
	return func(d *Downloader) {
		d.run = run
	}
}

// WithVersionFunc replaces the yt-dlp version check (for testing)
func WithVersionFunc(version VersionFunc) DownloaderOption {
	return func(d *Downloader) {
		d.version = version
	}
}

// NewDownloader creates a new yt-dlp backed downloader
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		format:  DefaultFormat,
		run:     runYTDLP,
		version: ytdlpVersion,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SearchTarget returns the yt-dlp search pseudo-URL for count results of query
func SearchTarget(query string, count int) string {
	return fmt.Sprintf("ytsearch%d:%s", count, query)
}

// Download implements mashup.Downloader
func (d *Downloader) Download(ctx context.Context, query string, count int, dir string) error {
	if count <= 0 {
		return fmt.Errorf("result count must be positive, got %d", count)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	req := RunRequest{
		Target:     SearchTarget(query, count),
		OutputTmpl: filepath.Join(dir, outputTemplate),
		Format:     d.format,
		Executable: d.executable,
	}

	if err := d.run(ctx, req); err != nil {
		return fmt.Errorf("yt-dlp download failed: %w", err)
	}

	return nil
}

func runYTDLP(ctx context.Context, req RunRequest) error {
	cmd := ytdlp.New().
		Format(req.Format).
		Output(req.OutputTmpl).
		Quiet()

	if req.Executable != "" {
		cmd = cmd.SetExecutable(req.Executable)
	}

	_, err := cmd.Run(ctx, req.Target)
	return err
}

func ytdlpVersion(ctx context.Context, executable string) (string, error) {
	cmd := ytdlp.New()
	if executable != "" {
		cmd = cmd.SetExecutable(executable)
	}

	res, err := cmd.Version(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// VerifyInstalled checks that the yt-dlp executable runs
func (d *Downloader) VerifyInstalled(ctx context.Context) error {
	v, err := d.version(ctx, d.executable)
	if err != nil {
		return fmt.Errorf("yt-dlp not found or not executable: %w", err)
	}
	slog.DebugContext(ctx, "yt-dlp available", "version", v)
	return nil
}

// Install makes sure a yt-dlp binary is available, downloading one into the
// user cache directory if none is found on PATH
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	return nil
}

// Ensure Downloader implements mashup.Downloader
var _ mashup.Downloader = (*Downloader)(nil)
