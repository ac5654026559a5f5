package cli

import (
	"context"
	"fmt"

	"github.com/evtop/evtop/internal/resolver"
)

// ResolveCmd checks which hosts from a list resolve
type ResolveCmd struct {
	Host      []string `short:"H" help:"Target host name (can be repeated)"`
	HostsFile string   `help:"File with one host name per line ('#' comments allowed)"`

	lookup resolver.LookupFunc
}

// Run executes the resolve command
func (c *ResolveCmd) Run(globals *Globals) error {
	ctx := context.Background()

	candidates, err := gatherCandidates(c.Host, c.HostsFile, globals.Config.Defaults.HostsFile)
	if err != nil {
		return fatal(globals, "HOSTS_FILE", StatusGeneric, "%s", err)
	}
	if len(candidates) == 0 {
		return fatal(globals, "NO_TARGETS", StatusNoTargets, "no hosts specified: use --host or --hosts-file")
	}

	var r *resolver.Resolver
	if c.lookup != nil {
		r = resolver.NewWithLookup(c.lookup, globals.Logger)
	} else {
		r = resolver.New(globals.Logger)
	}
	resolved, dropped := r.Resolve(ctx, candidates)

	for _, host := range resolved {
		fmt.Fprintf(globals.Stdout, "resolved  %s  %v\n", host.Name, host.Addrs)
	}
	for _, host := range dropped {
		fmt.Fprintf(globals.Stdout, "dropped   %s\n", host)
	}

	if len(resolved) == 0 {
		return fatal(globals, "NO_TARGETS", StatusNoTargets, "no hosts remain after name resolution")
	}
	return nil
}
