package cli

import (
	"context"
	"fmt"

	"mapforge/internal"
)

// Represents the 'mapforge version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
