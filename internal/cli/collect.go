package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/evtop/evtop/internal/aggregate"
	"github.com/evtop/evtop/internal/collector"
	"github.com/evtop/evtop/internal/domain"
	"github.com/evtop/evtop/internal/output"
	"github.com/evtop/evtop/internal/remote"
	"github.com/evtop/evtop/internal/resolver"
)

// CollectCmd collects event counts from remote hosts and ranks them
type CollectCmd struct {
	Host      []string      `short:"H" help:"Target host name (can be repeated)"`
	HostsFile string        `help:"File with one host name per line ('#' comments allowed)"`
	Type      string        `short:"t" default:"${config_type}" help:"Entry type filter: error, warning, or information"`
	After     string        `help:"Window start, RFC3339 or duration back from now (default: configured window)"`
	Before    string        `help:"Window end, RFC3339 or duration back from now (default: now)"`
	Timeout   time.Duration `default:"${config_timeout}" help:"Overall collection timeout"`
	Top       int           `default:"${config_top}" help:"Keep only the N highest-ranked rows (0 = all)"`
	CSV       string        `help:"Export CSV to this path ('-' = stdout, suppresses the table)"`

	// Test seams; kong ignores unexported fields.
	newTransport func(*Globals) (remote.Transport, error)
	lookup       resolver.LookupFunc
	clk          clock.Clock
}

// Run executes the collect command
func (c *CollectCmd) Run(globals *Globals) error {
	ctx := context.Background()
	clk := c.clk
	if clk == nil {
		clk = clock.New()
	}

	// Validate the filter before any network activity.
	entryType, err := domain.ParseEntryType(c.Type)
	if err != nil {
		return fatal(globals, "INVALID_FILTER", StatusInvalidFilter, "%s", err)
	}

	now := clk.Now()
	after, before, err := resolveWindow(c.After, c.Before, globals.Config.Defaults.Window, now)
	if err != nil {
		return fatal(globals, "INVALID_WINDOW", StatusGeneric, "%s", err)
	}

	candidates, err := gatherCandidates(c.Host, c.HostsFile, globals.Config.Defaults.HostsFile)
	if err != nil {
		return fatal(globals, "HOSTS_FILE", StatusGeneric, "%s", err)
	}
	if len(candidates) == 0 {
		return fatal(globals, "NO_TARGETS", StatusNoTargets, "no hosts specified: use --host or --hosts-file")
	}

	resolved, dropped := c.resolveHosts(ctx, globals, candidates)
	for _, host := range dropped {
		warn(globals, "dropping unresolvable host %q", host)
	}
	if len(resolved) == 0 {
		return fatal(globals, "NO_TARGETS", StatusNoTargets, "no hosts remain after name resolution")
	}

	transport, err := c.buildTransport(globals)
	if err != nil {
		return fatal(globals, "TRANSPORT", StatusGeneric, "%s", err)
	}

	client := remote.NewClient(transport, globals.Logger)
	coordinator := collector.New(client, clk, globals.Logger)

	result, err := coordinator.Collect(ctx, resolved, entryType, after, before, c.Timeout)
	if err != nil {
		if errors.Is(err, collector.ErrNoSessions) {
			return fatal(globals, "NO_SESSIONS", StatusNoSessions, "%s", err)
		}
		return fatal(globals, "COLLECT_FAILED", StatusGeneric, "%s", err)
	}

	for _, host := range result.FailedHosts {
		warn(globals, "host %s failed both queries; excluded from the table", host)
	}

	table := aggregate.Build(result.Records, result.Columns, c.Top)

	if c.CSV != "" {
		if err := c.exportCSV(globals, table); err != nil {
			return fatal(globals, "CSV_EXPORT", StatusGeneric, "%s", err)
		}
		if c.CSV == "-" {
			return nil
		}
	}

	writer := output.NewTableWriter(globals.Stdout, stdoutIsTerminal(globals))
	if err := writer.Write(table); err != nil {
		return fatal(globals, "RENDER", StatusGeneric, "%s", err)
	}
	if !globals.Quiet {
		writer.WriteSummaryLine(table, entryType)
	}
	return nil
}

func (c *CollectCmd) resolveHosts(ctx context.Context, globals *Globals, candidates []string) ([]domain.ResolvedHost, []string) {
	var r *resolver.Resolver
	if c.lookup != nil {
		r = resolver.NewWithLookup(c.lookup, globals.Logger)
	} else {
		r = resolver.New(globals.Logger)
	}
	return r.Resolve(ctx, candidates)
}

func (c *CollectCmd) buildTransport(globals *Globals) (remote.Transport, error) {
	if c.newTransport != nil {
		return c.newTransport(globals)
	}
	return sshTransportFromConfig(globals)
}

func sshTransportFromConfig(globals *Globals) (remote.Transport, error) {
	sshCfg := globals.Config.SSH

	connectTimeout, err := time.ParseDuration(sshCfg.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid ssh connect_timeout %q: %w", sshCfg.ConnectTimeout, err)
	}

	user := sshCfg.User
	if user == "" {
		user = os.Getenv("USER")
	}

	return remote.NewSSHTransport(remote.SSHOptions{
		User:               user,
		Port:               sshCfg.Port,
		KeyFile:            expandHome(sshCfg.KeyFile),
		KeyPassphrase:      sshCfg.KeyPassphrase,
		Password:           sshCfg.Password,
		KnownHostsFile:     expandHome(sshCfg.KnownHostsFile),
		InsecureSkipVerify: sshCfg.InsecureSkipVerify,
		ConnectTimeout:     connectTimeout,
	}, globals.Logger)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}

func (c *CollectCmd) exportCSV(globals *Globals, table domain.PivotTable) error {
	if c.CSV == "-" {
		return output.WriteCSV(globals.Stdout, table)
	}
	f, err := os.Create(c.CSV)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := output.WriteCSV(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
