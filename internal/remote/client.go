// Package remote abstracts running log-count queries on remote hosts.
// The concrete transport is SSH; tests substitute an in-process fake.
package remote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/evtop/evtop/internal/domain"
)

// Session is an established execution context bound to a single host.
// Sessions are never shared across hosts and are not reused across runs.
type Session interface {
	// Output runs one command on the remote host and returns its stdout.
	Output(ctx context.Context, cmd string) ([]byte, error)
	Close() error
}

// Transport establishes execution contexts on remote hosts. Any
// remote-procedure or remote-shell mechanism that can run the count
// query and return its output is substitutable.
type Transport interface {
	Establish(ctx context.Context, host domain.ResolvedHost) (Session, error)
}

// EstablishError marks a failure to establish an execution context, as
// opposed to a failure of the query itself. The collector distinguishes
// the two when deciding whether any session was ever reachable.
type EstablishError struct {
	Host domain.HostIdentifier
	Err  error
}

func (e *EstablishError) Error() string {
	return fmt.Sprintf("establish session on %s: %v", e.Host, e.Err)
}

func (e *EstablishError) Unwrap() error { return e.Err }

// Client issues log-count queries over a Transport. Each query gets its
// own session so a fault confined to one category channel does not
// block the other.
type Client struct {
	transport Transport
	log       *zap.Logger
}

// NewClient creates a Client over the given transport.
func NewClient(transport Transport, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{transport: transport, log: log}
}

// Query runs one log-count query. It establishes a session, runs the
// count command, releases the session, and returns one CountRecord per
// distinct event identifier observed. Establishment failures are
// returned as *EstablishError.
func (c *Client) Query(ctx context.Context, q domain.LogQuery) ([]domain.CountRecord, error) {
	sess, err := c.transport.Establish(ctx, q.Host)
	if err != nil {
		return nil, &EstablishError{Host: q.Host.Name, Err: err}
	}
	defer sess.Close()

	cmd := BuildCountCommand(q)
	c.log.Debug("running count query",
		zap.String("host", q.Host.Name.String()),
		zap.String("category", string(q.Category)))

	out, err := sess.Output(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%s query on %s: %w", q.Category, q.Host.Name, err)
	}

	records, err := ParseCounts(q.Host.Name, out)
	if err != nil {
		return nil, fmt.Errorf("%s query on %s: %w", q.Category, q.Host.Name, err)
	}
	return records, nil
}
