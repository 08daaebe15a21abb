package mashup

import (
	"context"
	"time"
)

// Downloader searches the video platform and downloads every result into dir.
// Returning fewer files than count is not an error.
type Downloader interface {
	Download(ctx context.Context, query string, count int, dir string) error
}

// AudioExtractor writes the audio track of a media file to outputPath
type AudioExtractor interface {
	Extract(ctx context.Context, mediaPath, outputPath string) error
}

// Trimmer truncates an audio file in place to its first d of content.
// Clips shorter than d are left whole.
type Trimmer interface {
	Trim(ctx context.Context, path string, d time.Duration) error
}

// Prober decodes an audio file and reports its duration
type Prober interface {
	Probe(ctx context.Context, path string) (time.Duration, error)
}

// Concatenator appends inputs in order into outputPath.
// An empty input list produces an empty output file.
type Concatenator interface {
	Concat(ctx context.Context, inputs []string, outputPath string) error
}

// FileLister lists files in a directory in listing order, filtered by a predicate
type FileLister interface {
	ListFiles(dir string, keep func(name string) bool) ([]string, error)
}

// Workspace is the pair of working directories for one run.
// Release removes both and must be called on every exit path.
type Workspace interface {
	VideosDir() string
	AudioDir() string
	Release() error
}

// WorkspaceOpener creates a fresh Workspace
type WorkspaceOpener interface {
	Open() (Workspace, error)
}
