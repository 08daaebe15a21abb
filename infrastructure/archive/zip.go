package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Zipper packages a single file into a zip archive
type Zipper struct{}

// NewZipper creates a new Zipper
func NewZipper() *Zipper {
	return &Zipper{}
}

// Zip writes archivePath containing one entry, the base name of srcPath.
// A partially written archive is removed on failure.
func (z *Zipper) Zip(srcPath, archivePath string) (err error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", srcPath, err)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", archivePath, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", archivePath, cerr)
		}
		if err != nil {
			os.Remove(archivePath)
		}
	}()

	zw := zip.NewWriter(out)

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to build zip header: %w", err)
	}
	header.Name = filepath.Base(srcPath)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", header.Name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", header.Name, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}

	return nil
}
