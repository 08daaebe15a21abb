package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"mashup/domain/mashup"
)

// Lister implements mashup.FileLister using the os package
type Lister struct{}

// NewLister creates a new filesystem lister
func NewLister() *Lister {
	return &Lister{}
}

// ListFiles returns the regular files in dir accepted by keep, in the order
// os.ReadDir yields them (sorted by filename)
func (l *Lister) ListFiles(dir string, keep func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if keep != nil && !keep(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return paths, nil
}

// Exists returns true if the file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Ensure Lister implements mashup.FileLister
var _ mashup.FileLister = (*Lister)(nil)
