package overlay

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mapforge/internal/archive"
	"mapforge/internal/fsutil"
)

// A backing entry omitted while seeding an archive writer.
type SkippedEntry struct {
	Path   string // Slash-separated path of the omitted entry.
	Reason error  // Why the entry could not be seeded.
}

// The read-only source of a container's files.
//
// A backing is selected once at open time and exposes the same three
// capabilities regardless of kind: whole-file reads, a bulk copy into a
// destination directory, and seeding an archive writer entry by entry.
type backing interface {
	readFile(name string) ([]byte, error)
	copyTo(dest string) error
	seed(w *archive.Writer) []SkippedEntry
	close() error
}

// A container backed by a plain directory tree.
type dirBacking struct {
	root string
}

func (b *dirBacking) readFile(name string) ([]byte, error) {
	content, err := os.ReadFile(filepath.Join(b.root, filepath.FromSlash(name)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return content, nil
}

func (b *dirBacking) copyTo(dest string) error {
	return fsutil.CopyDir(b.root, dest)
}

// Adds every regular file under the root to the writer. Entries that
// cannot be seeded are collected and skipped, never fatal.
func (b *dirBacking) seed(w *archive.Writer) []SkippedEntry {
	var skipped []SkippedEntry

	filepath.WalkDir(b.root, func(path string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(b.root, path)
		if relErr != nil {
			rel = path
		}
		name := filepath.ToSlash(rel)

		if err != nil {
			skipped = append(skipped, SkippedEntry{Path: name, Reason: err})
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			skipped = append(skipped, SkippedEntry{Path: name, Reason: err})
			return nil
		}
		if !info.Mode().IsRegular() {
			skipped = append(skipped, SkippedEntry{
				Path:   name,
				Reason: fmt.Errorf("unsupported file type %s", info.Mode()),
			})
			return nil
		}

		if err := w.AddFromFile(name, path); err != nil {
			skipped = append(skipped, SkippedEntry{Path: name, Reason: err})
		}
		return nil
	})

	return skipped
}

func (b *dirBacking) close() error {
	return nil
}

// A container backed by an opened archive.
type archiveBacking struct {
	arc *archive.Archive
}

func (b *archiveBacking) readFile(name string) ([]byte, error) {
	return b.arc.ReadFile(name)
}

func (b *archiveBacking) copyTo(dest string) error {
	return b.arc.ExtractAll(dest)
}

// Copies every entry from the source archive into the writer. Entries
// that cannot be read or staged are collected and skipped, never fatal.
func (b *archiveBacking) seed(w *archive.Writer) []SkippedEntry {
	names, err := b.arc.Entries()
	if err != nil {
		return []SkippedEntry{{Path: ".", Reason: err}}
	}

	var skipped []SkippedEntry
	for _, name := range names {
		content, err := b.arc.ReadFile(name)
		if err != nil {
			skipped = append(skipped, SkippedEntry{Path: name, Reason: err})
			continue
		}
		if err := w.Add(name, content); err != nil {
			skipped = append(skipped, SkippedEntry{Path: name, Reason: err})
		}
	}
	return skipped
}

func (b *archiveBacking) close() error {
	return b.arc.Close()
}
