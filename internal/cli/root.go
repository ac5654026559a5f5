package cli

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/evtop/evtop/internal/config"
)

// CLI is the root command structure for evtop
type CLI struct {
	// Global flags
	Quiet   bool `short:"q" help:"Suppress warnings and the summary line; only the table (or CSV) is printed"`
	Verbose bool `short:"v" help:"Show debug output (resolution, session setup, per-query results)"`

	// Commands
	Collect CollectCmd `cmd:"" default:"withargs" help:"Collect event counts from remote hosts and rank them"`
	Resolve ResolveCmd `cmd:"" help:"Check which hosts from a list resolve"`
	Rank    RankCmd    `cmd:"" help:"Re-rank a previously exported CSV"`
	Config  ConfigCmd  `cmd:"" help:"Show effective configuration"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *zap.Logger
}

// NewGlobals creates a new Globals instance with config fallbacks
func NewGlobals(cli *CLI, cfg *config.Config, logger *zap.Logger) *Globals {
	g := &Globals{
		Quiet:   cli.Quiet,
		Verbose: cli.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
		Logger:  logger,
	}

	// Apply config values if CLI flags weren't explicitly set
	if cfg != nil {
		if !cli.Quiet && cfg.Quiet {
			g.Quiet = cfg.Quiet
		}
		if !cli.Verbose && cfg.Verbose {
			g.Verbose = cfg.Verbose
		}
	}

	if g.Logger == nil {
		g.Logger = zap.NewNop()
	}

	return g
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	io.WriteString(globals.Stdout, "evtop version "+Version+" ("+Commit+")\n")
	return nil
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
