// Package resolver validates and deduplicates candidate host names by
// forward name resolution.
package resolver

import (
	"context"
	"net"

	"go.uber.org/zap"

	"github.com/evtop/evtop/internal/domain"
)

// LookupFunc performs a forward name lookup. It matches the signature of
// net.Resolver.LookupHost so tests can substitute an in-process lookup.
type LookupFunc func(ctx context.Context, host string) ([]string, error)

// Resolver turns candidate host names into a working set of resolved hosts.
type Resolver struct {
	lookup LookupFunc
	log    *zap.Logger
}

// New creates a Resolver backed by the default system resolver.
func New(log *zap.Logger) *Resolver {
	return NewWithLookup(net.DefaultResolver.LookupHost, log)
}

// NewWithLookup creates a Resolver with a custom lookup function.
func NewWithLookup(lookup LookupFunc, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{lookup: lookup, log: log}
}

// Resolve deduplicates candidates case-insensitively, preserving
// first-seen order, and checks each survivor with a forward lookup.
// Unresolvable candidates are returned in dropped with their original
// spelling; no candidate is retried. The union of resolved and dropped
// is exactly the deduplicated input.
func (r *Resolver) Resolve(ctx context.Context, candidates []string) (resolved []domain.ResolvedHost, dropped []string) {
	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		name := domain.HostIdentifier(candidate)
		if seen[name.Normalized()] {
			continue
		}
		seen[name.Normalized()] = true

		addrs, err := r.lookup(ctx, candidate)
		if err != nil || len(addrs) == 0 {
			r.log.Debug("dropping unresolvable host", zap.String("host", candidate), zap.Error(err))
			dropped = append(dropped, candidate)
			continue
		}
		r.log.Debug("resolved host", zap.String("host", candidate), zap.Strings("addrs", addrs))
		resolved = append(resolved, domain.ResolvedHost{Name: name, Addrs: addrs})
	}
	return resolved, dropped
}
