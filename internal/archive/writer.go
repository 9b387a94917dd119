package archive

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kdomanski/iso9660"

	"mapforge/internal/fsutil"
)

// Maximum length of an ISO 9660 volume identifier.
const maxVolumeLabel = 32

// Stages entries for a new archive. Entries accumulate in a temporary
// staging area until Finalize serializes them; re-adding a path replaces
// the staged entry.
type Writer struct {
	w *iso9660.ImageWriter
}

// Creates a new archive writer.
func NewWriter() (*Writer, error) {
	w, err := iso9660.NewWriter()
	if err != nil {
		return nil, fmt.Errorf("create archive writer: %w", err)
	}
	return &Writer{w: w}, nil
}

// Stages content under the given slash-separated path.
func (w *Writer) Add(path string, content []byte) error {
	if err := w.w.AddFile(bytes.NewReader(content), path); err != nil {
		return fmt.Errorf("add %s: %w", path, err)
	}
	return nil
}

// Stages the file at diskPath under the given slash-separated path.
func (w *Writer) AddFromFile(path, diskPath string) error {
	if err := w.w.AddLocalFile(diskPath, path); err != nil {
		return fmt.Errorf("add %s from %s: %w", path, diskPath, err)
	}
	return nil
}

// Serializes all staged entries into an archive file at dest.
//
// A partially written file is removed on failure; dest is never left
// holding a truncated archive.
func (w *Writer) Finalize(dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), fsutil.DefaultDirMode); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fsutil.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}

	if err := w.w.WriteTo(out, volumeLabel(dest)); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("write archive: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

// Removes the staging area. Safe to call after Finalize.
func (w *Writer) Cleanup() error {
	return w.w.Cleanup()
}

// Derives a volume identifier from the destination file name, restricted
// to the character set ISO 9660 allows.
func volumeLabel(dest string) string {
	base := strings.ToUpper(filepath.Base(dest))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		if b.Len() >= maxVolumeLabel {
			break
		}
	}

	if b.Len() == 0 {
		return "MAP"
	}
	return b.String()
}
