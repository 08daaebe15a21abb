package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mashup/domain/mashup"

	"go.uber.org/multierr"
)

// Default working directory names, relative to the workspace root
const (
	DefaultVideosDir = "videos"
	DefaultAudioDir  = "audios"
)

// Workspace is the pair of transient directories used by one pipeline run
type Workspace struct {
	videosDir string
	audioDir  string
	once      sync.Once
	err       error
}

// VideosDir returns the directory downloads are written to
func (w *Workspace) VideosDir() string { return w.videosDir }

// AudioDir returns the directory extracted and trimmed audio is written to
func (w *Workspace) AudioDir() string { return w.audioDir }

// Release removes both directories. It is safe to call more than once;
// later calls return the first result.
func (w *Workspace) Release() error {
	w.once.Do(func() {
		w.err = multierr.Combine(
			removeDir(w.videosDir),
			removeDir(w.audioDir),
		)
	})
	return w.err
}

func removeDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	return nil
}

// WorkspaceOpener implements mashup.WorkspaceOpener
type WorkspaceOpener struct {
	root      string
	videosDir string
	audioDir  string
}

// NewWorkspaceOpener creates an opener for root/videosDir and root/audioDir.
// Empty names fall back to the defaults.
func NewWorkspaceOpener(root, videosDir, audioDir string) *WorkspaceOpener {
	if videosDir == "" {
		videosDir = DefaultVideosDir
	}
	if audioDir == "" {
		audioDir = DefaultAudioDir
	}
	return &WorkspaceOpener{root: root, videosDir: videosDir, audioDir: audioDir}
}

// Open removes any leftovers from an earlier run and creates both directories
func (o *WorkspaceOpener) Open() (mashup.Workspace, error) {
	return OpenWorkspace(filepath.Join(o.root, o.videosDir), filepath.Join(o.root, o.audioDir))
}

// OpenWorkspace creates a fresh workspace from the given directories.
// If creation fails, anything already created is removed again.
func OpenWorkspace(videosDir, audioDir string) (*Workspace, error) {
	ws := &Workspace{videosDir: videosDir, audioDir: audioDir}

	for _, dir := range []string{videosDir, audioDir} {
		if err := os.RemoveAll(dir); err != nil {
			return nil, multierr.Append(fmt.Errorf("failed to clear %s: %w", dir, err), ws.Release())
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, multierr.Append(fmt.Errorf("failed to create %s: %w", dir, err), ws.Release())
		}
	}

	return ws, nil
}

// Ensure WorkspaceOpener implements mashup.WorkspaceOpener
var _ mashup.WorkspaceOpener = (*WorkspaceOpener)(nil)
