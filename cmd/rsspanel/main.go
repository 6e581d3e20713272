package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/five82/rsspanel/internal/app"
)

type cliOptions struct {
	Config    string `long:"config" env:"RSSPANEL_CONFIG" description:"settings file (default ~/.config/rsspanel/config.toml)"`
	Panel     string `long:"panel" env:"RSSPANEL_PANEL" default:"default" description:"panel id whose feed configuration is used"`
	Store     string `long:"store" choice:"toml" choice:"sqlite" choice:"memory" description:"panel configuration store"`
	StorePath string `long:"store-path" description:"panel configuration store location"`
	Refresh   int    `long:"refresh" description:"refresh interval in seconds (0 uses the settings file)"`
	Debug     bool   `long:"debug" description:"log at debug level"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var cli cliOptions
	parser := flags.NewParser(&cli, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: cli.Config,
		PanelID:    cli.Panel,
		Store:      cli.Store,
		StorePath:  cli.StorePath,
		Debug:      cli.Debug,
	}
	if cli.Refresh > 0 {
		opts.RefreshEvery = cli.Refresh
	}

	err := app.Run(ctx, opts)
	switch {
	case errors.Is(err, app.ErrPanelRemoved):
		fmt.Fprintf(os.Stderr, "rsspanel: panel %q removed (no feed configured)\n", cli.Panel)
		return 0
	case err != nil:
		fmt.Fprintf(os.Stderr, "rsspanel: %v\n", err)
		return 1
	}
	return 0
}
