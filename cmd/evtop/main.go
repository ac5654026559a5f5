package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/evtop/evtop/internal/cli"
	"github.com/evtop/evtop/internal/config"
)

const quickStart = `evtop - ranked event-log error counts across a fleet

START HERE (this is the command you want):
  evtop collect -H host1 -H host2 -t error

Flags:
  -H    Target host (repeat for each host, or use --hosts-file)
  -t    Entry type: error, warning, or information

Other useful commands:
  evtop resolve -H host1                Check which hosts resolve
  evtop collect --csv report.csv ...    Export the table as CSV
  evtop rank report.csv --top 10        Re-rank an exported CSV
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_type":    cfg.Defaults.Type,
		"config_timeout": cfg.Defaults.Timeout,
		"config_top":     fmt.Sprintf("%d", cfg.Defaults.Top),
	}

	ctx := kong.Parse(&c,
		kong.Name("evtop"),
		kong.Description("Collect OS event-log counts from remote hosts and rank recurring issues\n\nSTART HERE: evtop collect -H <host> -t error"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	logger := newLogger(c.Verbose || cfg.Verbose)
	defer logger.Sync()

	globals := cli.NewGlobals(&c, cfg, logger)

	err = ctx.Run(globals)
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Status)
		}
		os.Exit(1)
	}
}

// newLogger builds the stderr console logger. Verbose mode shows the
// per-host resolution and query diagnostics.
func newLogger(verbose bool) *zap.Logger {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
