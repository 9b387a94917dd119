package build

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"mapforge/internal/fsutil"
	"mapforge/internal/overlay"
	"mapforge/internal/project"
	"mapforge/internal/script"
)

// Name of the embedded map script, both inside a container and as the
// script artifact's file name.
const embeddedScriptName = "war3map.lua"

// Suffix appended to the map name for directory artifacts.
const dirArtifactSuffix = ".dir"

// Controls a build run.
type Options struct {
	Request Request        // What to build.
	Layout  project.Layout // Where to read sources and write the artifact.
}

// Returned after a successful build.
type Result struct {
	Output string // Artifact destination path.
}

// Executes a build request end-to-end.
//
// The request is validated before any I/O. When a map is named, its
// container is opened and, if retention is requested, its embedded script
// is carried into the compile; a missing embedded script is a warning,
// not a failure. The compiled script then flows into exactly one artifact
// writer, selected by the requested output kind.
func Run(opts Options) (*Result, error) {
	if err := validate(opts.Request); err != nil {
		return nil, err
	}

	logger := slog.With("build", uuid.NewString())
	logger.Info("starting build",
		"map", opts.Request.Map,
		"output", string(opts.Request.Output),
	)

	var container *overlay.Container
	if opts.Request.Map != "" {
		c, err := overlay.Open(opts.Request.Map, opts.Layout.MapsDir)
		if err != nil {
			return nil, err
		}
		container = c
		defer container.Close()
	}

	seed := extractSeed(container, opts.Request.RetainScript, logger)

	compiled, err := script.Compile(script.Options{
		SourceDir: opts.Layout.SourceDir,
		LibDir:    opts.Layout.LibDir,
		Seed:      seed,
	})
	if err != nil {
		return nil, fmt.Errorf("compile map script: %w", err)
	}

	if err := os.MkdirAll(opts.Layout.TargetDir, fsutil.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("create target directory: %w", err)
	}

	output, err := writeArtifact(opts, container, compiled, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("build finished", "output", output)
	return &Result{Output: output}, nil
}

// Returns the container's embedded script when retention is requested.
//
// A read failure falls back to an empty seed so the build proceeds with
// only the compiled sources.
func extractSeed(container *overlay.Container, retain bool, logger *slog.Logger) string {
	if container == nil || !retain {
		return ""
	}

	content, err := container.ReadFile(embeddedScriptName)
	if err != nil {
		logger.Warn("embedded map script not carried over", "reason", err)
		return ""
	}
	return string(content)
}

// Dispatches to the artifact writer for the requested output kind and
// returns the artifact's destination path.
func writeArtifact(opts Options, container *overlay.Container, compiled string, logger *slog.Logger) (string, error) {
	switch opts.Request.Output {
	case Script:
		dest := filepath.Join(opts.Layout.TargetDir, embeddedScriptName)
		if err := os.WriteFile(dest, []byte(compiled), fsutil.DefaultFileMode); err != nil {
			return "", fmt.Errorf("write script artifact: %w", err)
		}
		return dest, nil

	case Archive:
		container.StageInline(embeddedScriptName, []byte(compiled))
		dest := filepath.Join(opts.Layout.TargetDir, opts.Request.Map)

		skipped, err := overlay.WriteArchive(container, dest)
		for _, entry := range skipped {
			logger.Warn("entry omitted from archive", "path", entry.Path, "reason", entry.Reason)
		}
		if err != nil {
			return "", fmt.Errorf("write archive artifact: %w", err)
		}
		return dest, nil

	case Dir:
		container.StageInline(embeddedScriptName, []byte(compiled))
		dest := filepath.Join(opts.Layout.TargetDir, opts.Request.Map+dirArtifactSuffix)

		if err := overlay.WriteDirectory(container, dest); err != nil {
			return "", fmt.Errorf("write directory artifact: %w", err)
		}
		return dest, nil
	}

	// validate rejects every other kind before this point.
	return "", ErrInvalidOutput
}
