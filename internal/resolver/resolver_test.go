package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evtop/evtop/internal/domain"
)

// fakeLookup resolves any host whose name appears in the known set
// (case-insensitively) and fails everything else.
func fakeLookup(known ...string) LookupFunc {
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[strings.ToLower(k)] = true
	}
	return func(_ context.Context, host string) ([]string, error) {
		if set[strings.ToLower(host)] {
			return []string{"10.0.0.1"}, nil
		}
		return nil, fmt.Errorf("lookup %s: no such host", host)
	}
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("deduplicates case-insensitively preserving first-seen order", func(t *testing.T) {
		r := NewWithLookup(fakeLookup("alpha", "beta"), nil)

		resolved, dropped := r.Resolve(ctx, []string{"Alpha", "beta", "ALPHA", "alpha", "Beta"})

		assert.Empty(t, dropped)
		assert.Len(t, resolved, 2)
		assert.Equal(t, domain.HostIdentifier("Alpha"), resolved[0].Name)
		assert.Equal(t, domain.HostIdentifier("beta"), resolved[1].Name)
	})

	t.Run("drops unresolvable hosts with original spelling", func(t *testing.T) {
		r := NewWithLookup(fakeLookup("x"), nil)

		resolved, dropped := r.Resolve(ctx, []string{"x", "x", "Bad-Host"})

		assert.Len(t, resolved, 1)
		assert.Equal(t, domain.HostIdentifier("x"), resolved[0].Name)
		assert.Equal(t, []string{"Bad-Host"}, dropped)
	})

	t.Run("resolved and dropped partition the deduplicated input", func(t *testing.T) {
		r := NewWithLookup(fakeLookup("a", "c"), nil)

		input := []string{"a", "b", "c", "d", "A", "B"}
		resolved, dropped := r.Resolve(ctx, input)

		assert.Equal(t, 4, len(resolved)+len(dropped))

		seen := make(map[string]bool)
		for _, h := range resolved {
			assert.False(t, seen[h.Name.Normalized()], "host %s appears twice", h.Name)
			seen[h.Name.Normalized()] = true
		}
		for _, h := range dropped {
			key := strings.ToLower(h)
			assert.False(t, seen[key], "host %s appears in both sets", h)
			seen[key] = true
		}
		assert.Len(t, seen, 4)
	})

	t.Run("never retries a candidate", func(t *testing.T) {
		calls := make(map[string]int)
		lookup := func(_ context.Context, host string) ([]string, error) {
			calls[strings.ToLower(host)]++
			return nil, errors.New("unreachable")
		}
		r := NewWithLookup(lookup, nil)

		_, dropped := r.Resolve(ctx, []string{"h1", "H1", "h1", "h2"})

		assert.Len(t, dropped, 2)
		assert.Equal(t, 1, calls["h1"])
		assert.Equal(t, 1, calls["h2"])
	})

	t.Run("treats empty address list as unresolvable", func(t *testing.T) {
		lookup := func(_ context.Context, _ string) ([]string, error) {
			return nil, nil
		}
		r := NewWithLookup(lookup, nil)

		resolved, dropped := r.Resolve(ctx, []string{"empty"})

		assert.Empty(t, resolved)
		assert.Equal(t, []string{"empty"}, dropped)
	})

	t.Run("skips blank candidates", func(t *testing.T) {
		r := NewWithLookup(fakeLookup("a"), nil)

		resolved, dropped := r.Resolve(ctx, []string{"", "a"})

		assert.Len(t, resolved, 1)
		assert.Empty(t, dropped)
	})
}
