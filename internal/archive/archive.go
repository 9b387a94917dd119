// Package archive reads and writes the single-file map archive format.
//
// The format is ISO 9660, handled by github.com/kdomanski/iso9660. The
// codec is deliberately thin: it exposes whole-file reads, full
// extraction, entry enumeration for re-packing, and a staged writer that
// is finalized to a destination path in one shot. Merge and override
// semantics live in the overlay package, not here.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kdomanski/iso9660"

	"mapforge/internal/fsutil"
)

// Returned when a named entry is not present in an archive.
var ErrEntryNotFound = errors.New("entry not found in archive")

// An opened map archive. Read-only; the underlying file stays open until
// Close is called.
type Archive struct {
	file  *os.File
	image *iso9660.Image
}

// Opens the archive at the given path.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	image, err := iso9660.OpenImage(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("parse archive %s: %w", path, err)
	}

	return &Archive{file: f, image: image}, nil
}

// Releases the archive's file handle.
func (a *Archive) Close() error {
	return a.file.Close()
}

// Returns the content of the named entry.
//
// Names are slash-separated paths relative to the archive root. Lookup is
// case-insensitive because the writer folds identifiers to lower case.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	entry, err := a.lookup(name)
	if err != nil {
		return nil, err
	}
	if entry.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", name, ErrEntryNotFound)
	}

	content, err := io.ReadAll(entry.Reader())
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", name, err)
	}
	return content, nil
}

// Unpacks every entry into destDir, recreating the directory structure.
func (a *Archive) ExtractAll(destDir string) error {
	root, err := a.image.RootDir()
	if err != nil {
		return fmt.Errorf("read archive root: %w", err)
	}

	return walk(root, "", func(name string, entry *iso9660.File) error {
		target := filepath.Join(destDir, filepath.FromSlash(name))

		if entry.IsDir() {
			return os.MkdirAll(target, fsutil.DefaultDirMode)
		}

		if err := os.MkdirAll(filepath.Dir(target), fsutil.DefaultDirMode); err != nil {
			return err
		}

		out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fsutil.DefaultFileMode)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, entry.Reader()); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	})
}

// Lists every regular file in the archive as a slash-separated path.
func (a *Archive) Entries() ([]string, error) {
	root, err := a.image.RootDir()
	if err != nil {
		return nil, fmt.Errorf("read archive root: %w", err)
	}

	var names []string
	err = walk(root, "", func(name string, entry *iso9660.File) error {
		if !entry.IsDir() {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Resolves a slash-separated name to its directory entry.
func (a *Archive) lookup(name string) (*iso9660.File, error) {
	entry, err := a.image.RootDir()
	if err != nil {
		return nil, fmt.Errorf("read archive root: %w", err)
	}

	for _, segment := range strings.Split(path.Clean(name), "/") {
		if segment == "" || segment == "." {
			continue
		}
		if !entry.IsDir() {
			return nil, fmt.Errorf("%s: %w", name, ErrEntryNotFound)
		}

		children, err := entry.GetChildren()
		if err != nil {
			return nil, fmt.Errorf("read archive directory: %w", err)
		}

		var match *iso9660.File
		for _, child := range children {
			if strings.EqualFold(child.Name(), segment) {
				match = child
				break
			}
		}
		if match == nil {
			return nil, fmt.Errorf("%s: %w", name, ErrEntryNotFound)
		}
		entry = match
	}

	return entry, nil
}

// Depth-first traversal over an archive directory tree. The callback
// receives each entry's slash-separated path relative to the root.
func walk(entry *iso9660.File, name string, fn func(string, *iso9660.File) error) error {
	if name != "" {
		if err := fn(name, entry); err != nil {
			return err
		}
	}

	if !entry.IsDir() {
		return nil
	}

	children, err := entry.GetChildren()
	if err != nil {
		return fmt.Errorf("read archive directory %s: %w", name, err)
	}

	for _, child := range children {
		if err := walk(child, path.Join(name, child.Name()), fn); err != nil {
			return err
		}
	}
	return nil
}
