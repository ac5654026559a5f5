package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/evtop/evtop/internal/domain"
)

// SSHOptions configures the SSH transport.
type SSHOptions struct {
	User               string
	Port               int
	KeyFile            string
	KeyPassphrase      string
	Password           string
	KnownHostsFile     string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// SSHTransport establishes sessions over SSH. Target hosts run an SSH
// server with PowerShell available as a remote shell.
type SSHTransport struct {
	opts SSHOptions
	log  *zap.Logger
}

// NewSSHTransport validates the options and creates a transport.
func NewSSHTransport(opts SSHOptions, log *zap.Logger) (*SSHTransport, error) {
	if opts.User == "" {
		return nil, errors.New("ssh user is required")
	}
	if opts.Port == 0 {
		opts.Port = 22
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.KeyFile == "" && opts.Password == "" {
		return nil, errors.New("no SSH authentication methods configured: set a private key file or a password")
	}
	if opts.KnownHostsFile == "" && !opts.InsecureSkipVerify {
		return nil, errors.New("no SSH host key verification configured: set a known_hosts file path or enable insecure_skip_verify")
	}
	return &SSHTransport{opts: opts, log: log}, nil
}

// Establish dials the host and returns a session bound to it. Dial
// failures (network, authentication, policy) are per-host failures and
// are reported as such by the client.
func (t *SSHTransport) Establish(ctx context.Context, host domain.ResolvedHost) (Session, error) {
	callback, err := t.hostKeyCallback()
	if err != nil {
		return nil, err
	}
	methods, err := t.authMethods()
	if err != nil {
		return nil, err
	}

	config := &ssh.ClientConfig{
		User:            t.opts.User,
		Auth:            methods,
		HostKeyCallback: callback,
		Timeout:         t.opts.ConnectTimeout,
	}

	addr := net.JoinHostPort(host.Name.String(), fmt.Sprintf("%d", t.opts.Port))
	client, err := dialContext(ctx, addr, config)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	t.log.Debug("ssh session established", zap.String("addr", addr))
	return &sshSession{client: client}, nil
}

func (t *SSHTransport) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if t.opts.KnownHostsFile != "" {
		callback, err := knownhosts.New(t.opts.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("parse known_hosts file: %w", err)
		}
		return callback, nil
	}
	t.log.Warn("SSH host key verification is disabled - connections are insecure")
	return ssh.InsecureIgnoreHostKey(), nil
}

func (t *SSHTransport) authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if t.opts.KeyFile != "" {
		key, err := os.ReadFile(t.opts.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		var signer ssh.Signer
		if t.opts.KeyPassphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(t.opts.KeyPassphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if t.opts.Password != "" {
		methods = append(methods, ssh.Password(t.opts.Password))
	}

	return methods, nil
}

// dialContext is ssh.Dial with context cancellation on the TCP connect
// and handshake.
func dialContext(ctx context.Context, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	dialer := net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	close(done)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

type sshSession struct {
	client *ssh.Client
}

// Output runs one command in a fresh SSH channel. On context
// cancellation the remote process is signalled and the call returns
// without waiting for it.
func (s *sshSession) Output(ctx context.Context, cmd string) ([]byte, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("open ssh channel: %w", err)
	}
	defer sess.Close()

	type result struct {
		out []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		out, err := sess.Output(cmd)
		ch <- result{out: out, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = sess.Signal(ssh.SIGKILL)
		return nil, ctx.Err()
	case r := <-ch:
		return r.out, r.err
	}
}

func (s *sshSession) Close() error {
	return s.client.Close()
}
