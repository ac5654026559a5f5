package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/evtop/evtop/internal/domain"
	"github.com/evtop/evtop/internal/remote"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// querierFunc adapts a function to the Querier interface.
type querierFunc func(ctx context.Context, q domain.LogQuery) ([]domain.CountRecord, error)

func (f querierFunc) Query(ctx context.Context, q domain.LogQuery) ([]domain.CountRecord, error) {
	return f(ctx, q)
}

func hosts(names ...string) []domain.ResolvedHost {
	out := make([]domain.ResolvedHost, 0, len(names))
	for _, n := range names {
		out = append(out, domain.ResolvedHost{Name: domain.HostIdentifier(n), Addrs: []string{"10.0.0.1"}})
	}
	return out
}

func establishFailure(host domain.HostIdentifier) error {
	return &remote.EstablishError{Host: host, Err: errors.New("connection refused")}
}

var window = struct{ after, before time.Time }{
	after:  time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	before: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
}

func TestCoordinator_Collect(t *testing.T) {
	ctx := context.Background()

	t.Run("concatenates records from every successful query", func(t *testing.T) {
		querier := querierFunc(func(_ context.Context, q domain.LogQuery) ([]domain.CountRecord, error) {
			if q.Category == domain.CategorySystem {
				return []domain.CountRecord{{Host: q.Host.Name, EventID: 100, Count: 2}}, nil
			}
			return []domain.CountRecord{{Host: q.Host.Name, EventID: 200, Count: 1}}, nil
		})
		c := New(querier, clock.New(), nil)

		result, err := c.Collect(ctx, hosts("a", "b"), domain.EntryTypeError, window.after, window.before, time.Minute)
		require.NoError(t, err)

		assert.Len(t, result.Records, 4)
		assert.Equal(t, []domain.HostIdentifier{"a", "b"}, result.Columns)
		assert.Empty(t, result.FailedHosts)
	})

	t.Run("a host failing both queries is reported and excluded from columns", func(t *testing.T) {
		querier := querierFunc(func(_ context.Context, q domain.LogQuery) ([]domain.CountRecord, error) {
			if q.Host.Name == "b" {
				return nil, establishFailure(q.Host.Name)
			}
			return []domain.CountRecord{{Host: q.Host.Name, EventID: 100, Count: 3}}, nil
		})
		c := New(querier, clock.New(), nil)

		result, err := c.Collect(ctx, hosts("a", "b"), domain.EntryTypeError, window.after, window.before, time.Minute)
		require.NoError(t, err)

		assert.Equal(t, []domain.HostIdentifier{"a"}, result.Columns)
		assert.Equal(t, []domain.HostIdentifier{"b"}, result.FailedHosts)
		for _, rec := range result.Records {
			assert.Equal(t, domain.HostIdentifier("a"), rec.Host)
		}
	})

	t.Run("a single failed category does not fail the host", func(t *testing.T) {
		querier := querierFunc(func(_ context.Context, q domain.LogQuery) ([]domain.CountRecord, error) {
			if q.Category == domain.CategoryApplication {
				return nil, fmt.Errorf("query failed: log service unavailable")
			}
			return []domain.CountRecord{{Host: q.Host.Name, EventID: 100, Count: 1}}, nil
		})
		c := New(querier, clock.New(), nil)

		result, err := c.Collect(ctx, hosts("a"), domain.EntryTypeWarning, window.after, window.before, time.Minute)
		require.NoError(t, err)

		assert.Equal(t, []domain.HostIdentifier{"a"}, result.Columns)
		assert.Empty(t, result.FailedHosts)
		assert.Len(t, result.Records, 1)
	})

	t.Run("every host failing establishment is fatal", func(t *testing.T) {
		querier := querierFunc(func(_ context.Context, q domain.LogQuery) ([]domain.CountRecord, error) {
			return nil, establishFailure(q.Host.Name)
		})
		c := New(querier, clock.New(), nil)

		_, err := c.Collect(ctx, hosts("a", "b", "c"), domain.EntryTypeError, window.after, window.before, time.Minute)
		assert.ErrorIs(t, err, ErrNoSessions)
	})

	t.Run("query failures after establishment are not fatal", func(t *testing.T) {
		querier := querierFunc(func(_ context.Context, q domain.LogQuery) ([]domain.CountRecord, error) {
			// Session came up, query itself failed.
			return nil, errors.New("remote log service unavailable")
		})
		c := New(querier, clock.New(), nil)

		result, err := c.Collect(ctx, hosts("a"), domain.EntryTypeError, window.after, window.before, time.Minute)
		require.NoError(t, err)

		assert.Empty(t, result.Columns)
		assert.Equal(t, []domain.HostIdentifier{"a"}, result.FailedHosts)
		assert.Empty(t, result.Records)
	})

	t.Run("timeout cancels pending units and fails their host", func(t *testing.T) {
		mock := clock.NewMock()
		started := make(chan struct{})
		var once sync.Once

		querier := querierFunc(func(qctx context.Context, q domain.LogQuery) ([]domain.CountRecord, error) {
			if q.Host.Name == "slow" {
				once.Do(func() { close(started) })
				<-qctx.Done()
				return nil, &remote.EstablishError{Host: q.Host.Name, Err: qctx.Err()}
			}
			return []domain.CountRecord{{Host: q.Host.Name, EventID: 100, Count: 1}}, nil
		})
		c := New(querier, mock, nil)

		type collectResult struct {
			result *Result
			err    error
		}
		done := make(chan collectResult, 1)
		go func() {
			result, err := c.Collect(ctx, hosts("fast", "slow"), domain.EntryTypeError, window.after, window.before, time.Minute)
			done <- collectResult{result, err}
		}()

		// Wait until the slow unit is parked on its context, then fire
		// the overall timeout.
		<-started
		require.Eventually(t, func() bool {
			mock.Add(time.Minute)
			select {
			case r := <-done:
				done <- r
				return true
			default:
				return false
			}
		}, 5*time.Second, 10*time.Millisecond)

		r := <-done
		require.NoError(t, r.err)
		assert.Equal(t, []domain.HostIdentifier{"fast"}, r.result.Columns)
		assert.Equal(t, []domain.HostIdentifier{"slow"}, r.result.FailedHosts)
	})

	t.Run("caller cancellation drains and returns", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		querier := querierFunc(func(qctx context.Context, q domain.LogQuery) ([]domain.CountRecord, error) {
			if q.Category == domain.CategorySystem {
				return []domain.CountRecord{{Host: q.Host.Name, EventID: 7, Count: 1}}, nil
			}
			cancel()
			<-qctx.Done()
			return nil, qctx.Err()
		})
		c := New(querier, clock.New(), nil)

		result, err := c.Collect(cancelCtx, hosts("a"), domain.EntryTypeError, window.after, window.before, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, []domain.HostIdentifier{"a"}, result.Columns)
	})

	t.Run("empty host list is fatal", func(t *testing.T) {
		querier := querierFunc(func(_ context.Context, _ domain.LogQuery) ([]domain.CountRecord, error) {
			t.Fatal("no query should be issued for an empty host list")
			return nil, nil
		})
		c := New(querier, clock.New(), nil)

		_, err := c.Collect(ctx, nil, domain.EntryTypeError, window.after, window.before, time.Minute)
		assert.ErrorIs(t, err, ErrNoSessions)
	})
}
