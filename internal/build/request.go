package build

import "fmt"

// Selects the artifact kind a build produces.
type OutputKind string

const (
	Script  OutputKind = "script" // Bare compiled script file.
	Archive OutputKind = "mpq"    // Single archive file.
	Dir     OutputKind = "dir"    // Directory tree.
)

// Describes what to build.
type Request struct {
	Map          string     // Map name under the maps directory. Optional for Script output.
	Output       OutputKind // Artifact kind to produce.
	RetainScript bool       // Carry the map's embedded script into the compile.
}

// Checks the request before any I/O happens.
func validate(req Request) error {
	switch req.Output {
	case Script, Archive, Dir:
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidOutput, string(req.Output))
	}

	if req.Map == "" && req.Output != Script {
		return fmt.Errorf("%w %q", ErrMapRequired, string(req.Output))
	}

	return nil
}
