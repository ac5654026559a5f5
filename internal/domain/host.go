package domain

import "strings"

// HostIdentifier names a machine targeted for remote log collection.
// Comparison is case-insensitive; the original spelling is preserved
// for display.
type HostIdentifier string

// Normalized returns the lower-cased form used for dedupe and lookup.
func (h HostIdentifier) Normalized() string {
	return strings.ToLower(string(h))
}

func (h HostIdentifier) String() string {
	return string(h)
}

// ResolvedHost is a HostIdentifier confirmed to resolve to at least one
// network address. Produced by the resolver, consumed by the collector;
// never retried within a run.
type ResolvedHost struct {
	Name  HostIdentifier
	Addrs []string
}
