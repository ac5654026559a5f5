// Package collector fans out log-count queries across a batch of
// resolved hosts and gathers the raw counts with bounded waiting.
package collector

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/evtop/evtop/internal/domain"
	"github.com/evtop/evtop/internal/remote"
)

// ErrNoSessions is returned when no host in the batch ever yields an
// execution context. Total inability to reach any host usually signals
// a systemic permission or connectivity problem, so it is surfaced
// distinctly from per-host data gaps.
var ErrNoSessions = errors.New("no host could be reached: check connectivity and permissions")

// graceAfterTimeout bounds how long the coordinator keeps draining
// in-flight units after the overall timeout fires.
const graceAfterTimeout = 2 * time.Second

// Querier runs one log query. Satisfied by *remote.Client.
type Querier interface {
	Query(ctx context.Context, q domain.LogQuery) ([]domain.CountRecord, error)
}

// Result is the outcome of one collection batch.
type Result struct {
	// Records holds every count observed, concatenated across all
	// successful queries. Not yet merged by (host, eventId).
	Records []domain.CountRecord
	// Columns are the hosts that produced at least one successful
	// query, in input order. These become the pivot table columns.
	Columns []domain.HostIdentifier
	// FailedHosts are hosts whose both category queries failed or
	// never completed before the timeout.
	FailedHosts []domain.HostIdentifier
}

// Coordinator drives the fan-out: two queries per host, one per
// category, all submitted before any wait.
type Coordinator struct {
	querier Querier
	clk     clock.Clock
	log     *zap.Logger
}

// New creates a Coordinator. Pass clock.New() outside of tests.
func New(querier Querier, clk clock.Clock, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{querier: querier, clk: clk, log: log}
}

type unitOutcome struct {
	host        domain.HostIdentifier
	category    domain.Category
	records     []domain.CountRecord
	err         error
	established bool
}

// Collect runs the batch and waits for every unit to reach a terminal
// state, subject to the overall timeout. A single host's failure never
// cancels the others; on timeout, still-pending units are cancelled,
// drained for a bounded grace period, and treated as failures for
// their host.
func (c *Coordinator) Collect(ctx context.Context, hosts []domain.ResolvedHost, entryType domain.EntryType, after, before time.Time, timeout time.Duration) (*Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	total := len(hosts) * len(domain.Categories)
	outcomes := make(chan unitOutcome, total)

	var wg sync.WaitGroup
	for _, host := range hosts {
		for _, category := range domain.Categories {
			wg.Add(1)
			go func(h domain.ResolvedHost, cat domain.Category) {
				defer wg.Done()
				outcomes <- c.runUnit(runCtx, h, cat, entryType, after, before)
			}(host, category)
		}
	}
	// Workers only write to the buffered outcomes channel, so they can
	// always run to completion even if the coordinator stops reading.
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	succeeded := make(map[domain.HostIdentifier]bool, len(hosts))
	established := 0
	var records []domain.CountRecord

	timer := c.clk.Timer(timeout)
	defer timer.Stop()

	received := 0
drain:
	for received < total {
		select {
		case out, ok := <-outcomes:
			if !ok {
				break drain
			}
			received++
			c.note(out, succeeded, &established, &records)
		case <-timer.C:
			c.log.Warn("collection timed out, cancelling pending queries",
				zap.Duration("timeout", timeout), zap.Int("pending", total-received))
			cancel()
			received += c.drainGrace(outcomes, total-received, succeeded, &established, &records)
			break drain
		case <-ctx.Done():
			cancel()
			received += c.drainGrace(outcomes, total-received, succeeded, &established, &records)
			break drain
		}
	}

	if established == 0 {
		return nil, ErrNoSessions
	}

	result := &Result{Records: records}
	for _, host := range hosts {
		if succeeded[host.Name] {
			result.Columns = append(result.Columns, host.Name)
		} else {
			result.FailedHosts = append(result.FailedHosts, host.Name)
		}
	}
	return result, nil
}

// drainGrace keeps consuming outcomes for a bounded grace period after
// cancellation so cheaply-finishing units still contribute.
func (c *Coordinator) drainGrace(outcomes <-chan unitOutcome, pending int, succeeded map[domain.HostIdentifier]bool, established *int, records *[]domain.CountRecord) int {
	grace := c.clk.Timer(graceAfterTimeout)
	defer grace.Stop()

	received := 0
	for received < pending {
		select {
		case out, ok := <-outcomes:
			if !ok {
				return received
			}
			received++
			c.note(out, succeeded, established, records)
		case <-grace.C:
			return received
		}
	}
	return received
}

func (c *Coordinator) note(out unitOutcome, succeeded map[domain.HostIdentifier]bool, established *int, records *[]domain.CountRecord) {
	if out.established {
		*established++
	}
	if out.err != nil {
		c.log.Debug("query unit failed",
			zap.String("host", out.host.String()),
			zap.String("category", string(out.category)),
			zap.Error(out.err))
		return
	}
	succeeded[out.host] = true
	*records = append(*records, out.records...)
}

func (c *Coordinator) runUnit(ctx context.Context, host domain.ResolvedHost, category domain.Category, entryType domain.EntryType, after, before time.Time) unitOutcome {
	q := domain.LogQuery{
		Host:      host,
		Category:  category,
		EntryType: entryType,
		After:     after,
		Before:    before,
	}
	records, err := c.querier.Query(ctx, q)
	out := unitOutcome{
		host:     host.Name,
		category: category,
		records:  records,
		err:      err,
	}
	if err == nil {
		out.established = true
	} else {
		var ee *remote.EstablishError
		out.established = !errors.As(err, &ee)
	}
	return out
}
