// Package build orchestrates a single map build from request to artifact.
//
// A build validates its request, opens the named map container when one
// is given, optionally carries the map's previously embedded script into
// the compile, compiles the project's Lua sources into one script, and
// runs exactly one artifact writer: a bare script file, a new archive, or
// a directory tree. The first failure aborts the build; the only
// tolerated degradations are a missing embedded script and per-entry
// archive seeding failures, both logged as warnings.
//
// Example usage:
//
//	result, err := build.Run(build.Options{
//	    Request: build.Request{Map: "island.w3x", Output: build.Archive},
//	    Layout:  project.DefaultLayout(),
//	})
//	if err != nil {
//	    return err
//	}
package build
