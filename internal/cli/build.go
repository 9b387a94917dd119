package cli

import (
	"context"
	"fmt"

	"mapforge/internal/build"
	"mapforge/internal/project"
)

// Represents the 'mapforge build' command.
type BuildCmd struct {
	Map         string `help:"Name of the map under the maps directory." placeholder:"NAME"`
	Output      string `help:"Artifact kind: script, mpq, or dir." default:"mpq" placeholder:"KIND"`
	NoMapScript bool   `help:"Do not carry the map's embedded script into the compile."`
}

// Executes the build command.
//
// Flags are handed to the build package as-is; it owns all request
// validation. On success the artifact path is printed to stdout.
func (c *BuildCmd) Run(ctx context.Context) error {
	layout, err := project.Load(".")
	if err != nil {
		return err
	}

	result, err := build.Run(build.Options{
		Request: build.Request{
			Map:          c.Map,
			Output:       build.OutputKind(c.Output),
			RetainScript: !c.NoMapScript,
		},
		Layout: layout,
	})
	if err != nil {
		return err
	}

	fmt.Println(result.Output)
	return nil
}
