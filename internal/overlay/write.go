package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"mapforge/internal/archive"
	"mapforge/internal/fsutil"
)

// Materializes the container into a directory tree at dest.
//
// The backing is bulk-copied first, then every staged entry is written on
// top, replacing whatever the copy produced at the same path. Any failure
// is fatal and may leave a partially written destination behind.
func WriteDirectory(c *Container, dest string) error {
	if err := os.MkdirAll(dest, fsutil.DefaultDirMode); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := c.backing.copyTo(dest); err != nil {
		return fmt.Errorf("copy map contents: %w", err)
	}

	for _, path := range sortedPaths(c.staged) {
		target := filepath.Join(dest, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(target), fsutil.DefaultDirMode); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}

		switch src := c.staged[path].(type) {
		case Inline:
			if err := os.WriteFile(target, src.Content, fsutil.DefaultFileMode); err != nil {
				return fmt.Errorf("write staged file %s: %w", path, err)
			}
		case DiskSource:
			if err := fsutil.CopyFile(src.Path, target); err != nil {
				return fmt.Errorf("copy staged file %s: %w", path, err)
			}
		}
	}

	return nil
}

// Serializes the container into a new archive at dest.
//
// The writer is seeded from the backing first; entries that cannot be
// seeded are skipped and returned, the rest of the seed proceeds. Staged
// entries are then added, replacing same-path seed entries. A failure to
// stage an overlay entry or to finalize the archive is fatal.
func WriteArchive(c *Container, dest string) ([]SkippedEntry, error) {
	w, err := archive.NewWriter()
	if err != nil {
		return nil, err
	}
	defer w.Cleanup()

	skipped := c.backing.seed(w)

	for _, path := range sortedPaths(c.staged) {
		switch src := c.staged[path].(type) {
		case Inline:
			if err := w.Add(path, src.Content); err != nil {
				return skipped, fmt.Errorf("stage %s: %w", path, err)
			}
		case DiskSource:
			if err := w.AddFromFile(path, src.Path); err != nil {
				return skipped, fmt.Errorf("stage %s: %w", path, err)
			}
		}
	}

	if err := w.Finalize(dest); err != nil {
		return skipped, err
	}
	return skipped, nil
}

// Returns the overlay's paths in deterministic order.
func sortedPaths(staged Store) []string {
	paths := make([]string, 0, len(staged))
	for path := range staged {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}
