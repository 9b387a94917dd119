package overlay

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mapforge/internal/archive"
	"mapforge/internal/fsutil"
)

// Creates a directory-backed map fixture under a fresh maps dir and
// returns the maps dir.
func dirMapFixture(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	mapsDir := t.TempDir()
	root := filepath.Join(mapsDir, name)
	if err := os.MkdirAll(root, fsutil.DefaultDirMode); err != nil {
		t.Fatalf("mkdir fixture: %v", err)
	}
	for path, content := range files {
		target := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(target), fsutil.DefaultDirMode); err != nil {
			t.Fatalf("mkdir fixture: %v", err)
		}
		if err := os.WriteFile(target, []byte(content), fsutil.DefaultFileMode); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	return mapsDir
}

// Creates an archive-backed map fixture under a fresh maps dir and
// returns the maps dir.
func archiveMapFixture(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	mapsDir := t.TempDir()

	w, err := archive.NewWriter()
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	defer w.Cleanup()

	for path, content := range files {
		if err := w.Add(path, []byte(content)); err != nil {
			t.Fatalf("Add(%q): %v", path, err)
		}
	}
	if err := w.Finalize(filepath.Join(mapsDir, name)); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return mapsDir
}

func TestOpenDirectoryBacked(t *testing.T) {
	mapsDir := dirMapFixture(t, "island", map[string]string{"war3map.lua": "-- base"})

	c, err := Open("island", mapsDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	got, err := c.ReadFile("war3map.lua")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "-- base" {
		t.Fatalf("content = %q, want %q", got, "-- base")
	}
}

func TestOpenArchiveBacked(t *testing.T) {
	mapsDir := archiveMapFixture(t, "island.w3x", map[string]string{"war3map.lua": "-- base"})

	c, err := Open("island.w3x", mapsDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	got, err := c.ReadFile("war3map.lua")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "-- base" {
		t.Fatalf("content = %q, want %q", got, "-- base")
	}
}

func TestOpenMissing(t *testing.T) {
	c, err := Open("nope", t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if c != nil {
		t.Fatal("expected nil container on failed open")
	}
}

func TestOpenCorruptArchive(t *testing.T) {
	mapsDir := t.TempDir()
	path := filepath.Join(mapsDir, "broken.w3x")
	if err := os.WriteFile(path, []byte("not an archive"), fsutil.DefaultFileMode); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c, err := Open("broken.w3x", mapsDir)
	if err == nil {
		t.Fatal("expected error for corrupt archive, got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want an open failure, not ErrNotFound", err)
	}
	if c != nil {
		t.Fatal("expected nil container on failed open")
	}
}

func TestReadFileIgnoresOverlay(t *testing.T) {
	mapsDir := dirMapFixture(t, "island", map[string]string{"war3map.lua": "base"})

	c, err := Open("island", mapsDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	c.StageInline("war3map.lua", []byte("staged"))

	got, err := c.ReadFile("war3map.lua")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "base" {
		t.Fatalf("content = %q, want backing content %q", got, "base")
	}
}

func TestStageLastWriteWins(t *testing.T) {
	mapsDir := dirMapFixture(t, "island", nil)

	c, err := Open("island", mapsDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	c.StageInline("war3map.lua", []byte("first"))
	c.StageInline("war3map.lua", []byte("second"))

	dest := filepath.Join(t.TempDir(), "out")
	if err := WriteDirectory(c, dest); err != nil {
		t.Fatalf("WriteDirectory: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "war3map.lua"))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("content = %q, want %q", got, "second")
	}
}

func TestStageFromDiskKeysByDestination(t *testing.T) {
	mapsDir := dirMapFixture(t, "island", nil)
	srcDir := t.TempDir()

	first := filepath.Join(srcDir, "one.txt")
	second := filepath.Join(srcDir, "two.txt")
	for path, content := range map[string]string{first: "one", second: "two"} {
		if err := os.WriteFile(path, []byte(content), fsutil.DefaultFileMode); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	c, err := Open("island", mapsDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	// Two disk-sourced entries must land at their own destination paths,
	// not collide on a shared key.
	c.StageFromDisk("data/one.txt", first)
	c.StageFromDisk("data/two.txt", second)

	dest := filepath.Join(t.TempDir(), "out")
	if err := WriteDirectory(c, dest); err != nil {
		t.Fatalf("WriteDirectory: %v", err)
	}

	for path, want := range map[string]string{
		"data/one.txt": "one",
		"data/two.txt": "two",
	} {
		got, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(path)))
		if err != nil {
			t.Fatalf("read artifact %s: %v", path, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
}
