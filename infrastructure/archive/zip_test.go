package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestZipper_Zip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "mashup.mp3")
	content := []byte("ID3 fake mp3 payload")
	if err := os.WriteFile(src, content, 0644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "mashup.zip")
	if err := NewZipper().Zip(src, dst); err != nil {
		t.Fatalf("Zip() error = %v", err)
	}

	r, err := zip.OpenReader(dst)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer r.Close()

	if len(r.File) != 1 {
		t.Fatalf("archive has %d entries, want 1", len(r.File))
	}
	if r.File[0].Name != "mashup.mp3" {
		t.Errorf("entry name = %q, want mashup.mp3", r.File[0].Name)
	}

	rc, err := r.File[0].Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("entry content = %q, want %q", got, content)
	}
}

func TestZipper_ZipMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "mashup.zip")

	if err := NewZipper().Zip(filepath.Join(dir, "missing.mp3"), dst); err == nil {
		t.Fatal("Zip() expected error for missing source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("expected no archive to be left behind")
	}
}
