package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	charmlog "github.com/charmbracelet/log"

	"mapforge/internal"
)

// Represents the root command for the mapforge CLI.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Build   BuildCmd   `cmd:"" help:"Build a map artifact."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Packages a map and its script sources into a distributable artifact.\n\nCombines a base map (a directory or an archive) with the compiled project script and writes a script, archive, or directory artifact."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	handler, ok := slog.Default().Handler().(*charmlog.Logger)
	if !ok {
		return // Not a charm logger, nothing to configure
	}

	switch {
	case RootCmd.Debug:
		handler.SetLevel(charmlog.DebugLevel)
	case RootCmd.Quiet:
		handler.SetLevel(charmlog.WarnLevel)
	default:
		handler.SetLevel(charmlog.InfoLevel)
	}
}
