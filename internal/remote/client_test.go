package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtop/evtop/internal/domain"
)

type fakeSession struct {
	out    []byte
	err    error
	closed bool
	cmds   []string
}

func (s *fakeSession) Output(_ context.Context, cmd string) ([]byte, error) {
	s.cmds = append(s.cmds, cmd)
	return s.out, s.err
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeTransport struct {
	session      *fakeSession
	establishErr error
}

func (t *fakeTransport) Establish(_ context.Context, _ domain.ResolvedHost) (Session, error) {
	if t.establishErr != nil {
		return nil, t.establishErr
	}
	return t.session, nil
}

func testQuery() domain.LogQuery {
	return domain.LogQuery{
		Host:      domain.ResolvedHost{Name: "srv1", Addrs: []string{"10.0.0.1"}},
		Category:  domain.CategorySystem,
		EntryType: domain.EntryTypeError,
		After:     time.Now().Add(-time.Hour),
		Before:    time.Now(),
	}
}

func TestClient_Query(t *testing.T) {
	ctx := context.Background()

	t.Run("returns parsed records and releases the session", func(t *testing.T) {
		sess := &fakeSession{out: []byte(`[{"Id":7,"Count":2}]`)}
		c := NewClient(&fakeTransport{session: sess}, nil)

		records, err := c.Query(ctx, testQuery())
		require.NoError(t, err)

		assert.Equal(t, []domain.CountRecord{{Host: "srv1", EventID: 7, Count: 2}}, records)
		assert.True(t, sess.closed)
		require.Len(t, sess.cmds, 1)
		assert.Contains(t, sess.cmds[0], "Get-WinEvent")
	})

	t.Run("wraps establishment failures as EstablishError", func(t *testing.T) {
		c := NewClient(&fakeTransport{establishErr: errors.New("connection refused")}, nil)

		_, err := c.Query(ctx, testQuery())
		require.Error(t, err)

		var ee *EstablishError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, domain.HostIdentifier("srv1"), ee.Host)
	})

	t.Run("command failures are plain query errors", func(t *testing.T) {
		sess := &fakeSession{err: errors.New("exit status 1")}
		c := NewClient(&fakeTransport{session: sess}, nil)

		_, err := c.Query(ctx, testQuery())
		require.Error(t, err)

		var ee *EstablishError
		assert.False(t, errors.As(err, &ee))
		assert.True(t, sess.closed)
	})

	t.Run("parse failures release the session too", func(t *testing.T) {
		sess := &fakeSession{out: []byte("not json")}
		c := NewClient(&fakeTransport{session: sess}, nil)

		_, err := c.Query(ctx, testQuery())
		assert.ErrorContains(t, err, "malformed count output")
		assert.True(t, sess.closed)
	})
}
