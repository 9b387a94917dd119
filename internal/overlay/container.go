package overlay

import (
	"errors"
	"fmt"
	"path/filepath"

	"mapforge/internal/archive"
	"mapforge/internal/fsutil"
)

var (
	ErrNotFound   = errors.New("map does not exist")
	ErrBadBacking = errors.New("map is neither a directory nor an archive")
)

// A staged file addition awaiting a write. Immutable once staged.
type PendingFile interface {
	pendingFile()
}

// File content staged directly in memory.
type Inline struct {
	Content []byte
}

// A reference to a file on disk, copied at write time.
type DiskSource struct {
	Path string
}

func (Inline) pendingFile()     {}
func (DiskSource) pendingFile() {}

// Maps a slash-separated artifact path to its staged source. Re-staging a
// path silently replaces the earlier entry; no history is kept.
type Store map[string]PendingFile

// Combines one read-only backing with an overlay of staged additions.
//
// The backing is never modified in place. Staging mutates only the
// overlay, and merge effects are realized exclusively by the write
// strategies, into a separate destination.
type Container struct {
	name    string
	backing backing
	staged  Store
}

// Opens the map with the given name under mapsDir.
//
// A directory at the resolved path yields a directory-backed container, a
// regular file is opened through the archive codec. Anything else fails.
func Open(name, mapsDir string) (*Container, error) {
	path := filepath.Join(mapsDir, name)

	switch {
	case fsutil.IsDir(path):
		return &Container{
			name:    name,
			backing: &dirBacking{root: path},
			staged:  make(Store),
		}, nil

	case fsutil.IsFile(path):
		a, err := archive.Open(path)
		if err != nil {
			return nil, fmt.Errorf("map %q: %w", name, err)
		}
		return &Container{
			name:    name,
			backing: &archiveBacking{arc: a},
			staged:  make(Store),
		}, nil

	case fsutil.Exists(path):
		return nil, fmt.Errorf("map %q: %w", name, ErrBadBacking)

	default:
		return nil, fmt.Errorf("map %q: %w", name, ErrNotFound)
	}
}

// Returns the container's map name.
func (c *Container) Name() string {
	return c.name
}

// Reads a file from the backing.
//
// Staged additions are not consulted; they become visible only in a
// written artifact.
func (c *Container) ReadFile(path string) ([]byte, error) {
	return c.backing.readFile(path)
}

// Stages content at the given artifact path.
func (c *Container) StageInline(path string, content []byte) {
	c.staged[path] = Inline{Content: content}
}

// Stages the file at diskPath for inclusion at the given artifact path.
// The file is not read until a write strategy runs.
func (c *Container) StageFromDisk(path, diskPath string) {
	c.staged[path] = DiskSource{Path: diskPath}
}

// Releases the backing's resources.
func (c *Container) Close() error {
	return c.backing.close()
}
