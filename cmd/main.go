package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

var (
	version = "1.0.0"
	cli     struct {
		Debug          bool              `help:"Enable debug logging." env:"DEBUG"`
		Version        kong.VersionFlag  `help:"Print the version and exit."`
		Serve          ServeCmd          `cmd:"" default:"1" help:"Run migrations and start the HTTP API."`
		Migrate        MigrateCmd        `cmd:"" help:"Apply pending database migrations and exit."`
		ReconcileUnits ReconcileUnitsCmd `cmd:"" help:"Correct cached unit counters once and exit."`
	}
)

// Globals are shared by every command.
type Globals struct {
	Debug   bool
	Version string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("condoparcel"),
		kong.Description("Package management for condominiums."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
