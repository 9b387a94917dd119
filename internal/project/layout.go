// Package project resolves the directory layout a build operates on.
//
// The layout follows convention (maps/, src/, lib/, target/) and can be
// overridden by a mapforge.yaml in the project root or, failing that, a
// user-level config under the XDG config home.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Name of the config file, in the project root or the user config dir.
const ConfigName = "mapforge.yaml"

// Names the directories a build reads from and writes to. All paths are
// resolved relative to the working directory unless absolute.
type Layout struct {
	MapsDir   string `yaml:"maps"`   // Base containers to build from.
	SourceDir string `yaml:"src"`    // Project Lua sources.
	LibDir    string `yaml:"lib"`    // Shared Lua libraries.
	TargetDir string `yaml:"target"` // Build artifacts.
}

// Returns the conventional project layout.
func DefaultLayout() Layout {
	return Layout{
		MapsDir:   "maps",
		SourceDir: "src",
		LibDir:    "lib",
		TargetDir: "target",
	}
}

// Resolves the layout for a project rooted at dir.
//
// A mapforge.yaml in dir wins; otherwise the user-level config is
// consulted; absent both, the defaults apply. Fields left empty in a
// config file keep their defaults. Missing files are not an error,
// unparseable ones are.
func Load(dir string) (Layout, error) {
	for _, path := range []string{filepath.Join(dir, ConfigName), UserConfig()} {
		layout, found, err := loadFile(path)
		if err != nil {
			return Layout{}, err
		}
		if found {
			return layout, nil
		}
	}
	return DefaultLayout(), nil
}

// Path to the user-level config file.
//
//	Linux:   $XDG_CONFIG_HOME/mapforge/mapforge.yaml
//	macOS:   ~/Library/Application Support/mapforge/mapforge.yaml
func UserConfig() string {
	return filepath.Join(xdg.ConfigHome, "mapforge", ConfigName)
}

// Reads a layout file, reporting whether it exists.
func loadFile(path string) (Layout, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Layout{}, false, nil
	}
	if err != nil {
		return Layout{}, false, fmt.Errorf("read config %s: %w", path, err)
	}

	layout := DefaultLayout()
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, false, fmt.Errorf("parse config %s: %w", path, err)
	}
	return layout, true, nil
}
