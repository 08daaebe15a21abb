package mashup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"mashup/domain/mashup"
	"mashup/infrastructure/logging"

	"github.com/google/uuid"
)

// Result summarizes one pipeline run
type Result struct {
	RunID      string
	OutputPath string
	Downloaded []string // media files found after acquisition
	Extracted  []string // audio files written by extraction
	Trimmed    []string // audio files trimmed in place, in listing order
	Merged     []string // trimmed files that decoded and went into the output
	Failures   []mashup.ItemFailure
	Duration   time.Duration // total audio length of Merged
	Elapsed    time.Duration
}

// Service runs the download, extract, trim and merge stages for a request.
// Runs are serialized because every run shares the same working directories.
type Service struct {
	mu           sync.Mutex
	downloader   mashup.Downloader
	extractor    mashup.AudioExtractor
	trimmer      mashup.Trimmer
	prober       mashup.Prober
	concatenator mashup.Concatenator
	lister       mashup.FileLister
	workspaces   mashup.WorkspaceOpener
	output       io.Writer
	newRunID     func() string
}

// NewService creates a new mashup service. Progress lines are written to output.
func NewService(
	downloader mashup.Downloader,
	extractor mashup.AudioExtractor,
	trimmer mashup.Trimmer,
	prober mashup.Prober,
	concatenator mashup.Concatenator,
	lister mashup.FileLister,
	workspaces mashup.WorkspaceOpener,
	output io.Writer,
) *Service {
	if output == nil {
		output = io.Discard
	}
	return &Service{
		downloader:   downloader,
		extractor:    extractor,
		trimmer:      trimmer,
		prober:       prober,
		concatenator: concatenator,
		lister:       lister,
		workspaces:   workspaces,
		output:       output,
		newRunID:     uuid.NewString,
	}
}

// Run validates req and produces req.OutputFile. Item-level failures are
// logged and reported in Result.Failures; only validation, acquisition and
// output errors are returned. The working directories are removed before
// Run returns on every path after they were created.
func (s *Service) Run(ctx context.Context, req *mashup.Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result := &Result{
		RunID:      s.newRunID(),
		OutputPath: req.OutputFile,
	}
	ctx = logging.WithRunID(ctx, result.RunID)

	slog.InfoContext(ctx, "mashup started",
		"performer", req.Performer,
		"count", req.ItemCount,
		"seconds", req.ClipSeconds,
		"output", req.OutputFile,
	)

	ws, err := s.workspaces.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to prepare working directories: %w", err)
	}
	defer func() {
		if err := ws.Release(); err != nil {
			slog.WarnContext(ctx, "failed to remove working directories", "error", err)
		}
	}()

	fmt.Fprintf(s.output, "[1/4] Downloading videos...\n")
	if err := s.acquire(ctx, req, ws.VideosDir(), result); err != nil {
		return nil, err
	}

	fmt.Fprintf(s.output, "[2/4] Converting videos to audio...\n")
	if err := s.extractAll(ctx, ws.VideosDir(), ws.AudioDir(), result); err != nil {
		return nil, err
	}

	fmt.Fprintf(s.output, "[3/4] Trimming audio files...\n")
	if err := s.trimAll(ctx, ws.AudioDir(), req.ClipDuration(), result); err != nil {
		return nil, err
	}

	fmt.Fprintf(s.output, "[4/4] Merging audio files...\n")
	if err := s.concatenate(ctx, req.OutputFile, result); err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start)
	slog.InfoContext(ctx, "mashup finished",
		"output", result.OutputPath,
		"merged", len(result.Merged),
		"failures", len(result.Failures),
		"duration", result.Duration,
		"elapsed", result.Elapsed.Round(time.Millisecond),
	)

	return result, nil
}

// acquire downloads every search result into videosDir. Any backend error is fatal.
func (s *Service) acquire(ctx context.Context, req *mashup.Request, videosDir string, result *Result) error {
	if err := s.downloader.Download(ctx, req.SearchQuery(), req.ItemCount, videosDir); err != nil {
		slog.ErrorContext(ctx, "download failed", "query", req.SearchQuery(), "error", err)
		return fmt.Errorf("%w: %v", mashup.ErrAcquisition, err)
	}

	media, err := s.lister.ListFiles(videosDir, mashup.IsVideoFile)
	if err != nil {
		return fmt.Errorf("%w: %v", mashup.ErrAcquisition, err)
	}
	result.Downloaded = media

	if len(media) < req.ItemCount {
		slog.WarnContext(ctx, "fewer results than requested", "requested", req.ItemCount, "found", len(media))
	}
	return nil
}

// extractAll writes one audio file per media file. A failed item is logged and skipped.
func (s *Service) extractAll(ctx context.Context, videosDir, audioDir string, result *Result) error {
	for _, mediaPath := range result.Downloaded {
		if err := ctx.Err(); err != nil {
			return err
		}

		audioPath := filepath.Join(audioDir, mashup.AudioFileName(filepath.Base(mediaPath)))
		if err := s.extractor.Extract(ctx, mediaPath, audioPath); err != nil {
			s.recordFailure(ctx, result, mashup.StageExtract, mediaPath, err)
			continue
		}
		result.Extracted = append(result.Extracted, audioPath)
	}
	return nil
}

// trimAll trims every audio file in audioDir in place, in listing order
func (s *Service) trimAll(ctx context.Context, audioDir string, d time.Duration, result *Result) error {
	clips, err := s.lister.ListFiles(audioDir, mashup.IsAudioFile)
	if err != nil {
		return fmt.Errorf("failed to list audio files: %w", err)
	}

	for _, clip := range clips {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.trimmer.Trim(ctx, clip, d); err != nil {
			s.recordFailure(ctx, result, mashup.StageTrim, clip, err)
			continue
		}
		result.Trimmed = append(result.Trimmed, clip)
	}
	return nil
}

// concatenate decode-checks each trimmed clip and merges the survivors into outputPath
func (s *Service) concatenate(ctx context.Context, outputPath string, result *Result) error {
	for _, clip := range result.Trimmed {
		if err := ctx.Err(); err != nil {
			return err
		}

		length, err := s.prober.Probe(ctx, clip)
		if err != nil {
			s.recordFailure(ctx, result, mashup.StageConcatenate, clip, err)
			continue
		}
		result.Merged = append(result.Merged, clip)
		result.Duration += length
	}

	if err := s.concatenator.Concat(ctx, result.Merged, outputPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}

func (s *Service) recordFailure(ctx context.Context, result *Result, stage mashup.Stage, path string, err error) {
	failure := mashup.ItemFailure{Stage: stage, Path: path, Err: err}
	result.Failures = append(result.Failures, failure)
	slog.ErrorContext(ctx, "item failed", "stage", string(stage), "file", filepath.Base(path), "error", err)
}
