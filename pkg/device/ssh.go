package device

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/time/rate"

	"github.com/sitemirror/sitemirror/pkg/defaults"
	"github.com/sitemirror/sitemirror/pkg/errors"
	"github.com/sitemirror/sitemirror/pkg/topology"
)

// SSHDialer opens EOS management sessions over SSH. Dials are paced through
// a shared rate limiter so a large site does not hit the management plane
// with a connection burst.
type SSHDialer struct {
	// Credentials used for every device.
	Credentials Credentials

	// Port is the SSH port on the management address.
	Port int

	// DialTimeout bounds TCP connect plus SSH handshake.
	DialTimeout time.Duration

	// CommandTimeout bounds a single command execution.
	CommandTimeout time.Duration

	// DialRate is the sustained dial rate in connections per second.
	DialRate rate.Limit

	// DialBurst is the burst size of the dial limiter.
	DialBurst int

	limiter *rate.Limiter
}

// SSHDialerOption is a function that configures an SSHDialer.
type SSHDialerOption func(*SSHDialer)

// WithPort sets the SSH port.
func WithPort(port int) SSHDialerOption {
	return func(d *SSHDialer) {
		if port > 0 {
			d.Port = port
		}
	}
}

// WithDialTimeout sets the connect plus handshake timeout.
func WithDialTimeout(timeout time.Duration) SSHDialerOption {
	return func(d *SSHDialer) {
		if timeout > 0 {
			d.DialTimeout = timeout
		}
	}
}

// WithCommandTimeout sets the per-command timeout.
func WithCommandTimeout(timeout time.Duration) SSHDialerOption {
	return func(d *SSHDialer) {
		if timeout > 0 {
			d.CommandTimeout = timeout
		}
	}
}

// WithDialRate sets the sustained dial rate and burst.
func WithDialRate(limit rate.Limit, burst int) SSHDialerOption {
	return func(d *SSHDialer) {
		if limit > 0 && burst > 0 {
			d.DialRate = limit
			d.DialBurst = burst
		}
	}
}

// NewSSHDialer creates a dialer with the given credentials and options.
func NewSSHDialer(creds Credentials, options ...SSHDialerOption) *SSHDialer {
	d := &SSHDialer{
		Credentials:    creds,
		Port:           DefaultSSHPort,
		DialTimeout:    defaults.SessionDialTimeout,
		CommandTimeout: defaults.SessionCommandTimeout,
		DialRate:       rate.Limit(defaults.DialRatePerSecond),
		DialBurst:      1,
	}
	for _, option := range options {
		option(d)
	}
	d.limiter = rate.NewLimiter(d.DialRate, d.DialBurst)
	return d
}

// Dial implements Dialer. Connection and handshake failures come back as
// DEVICE_UNREACHABLE so callers can fold them into the failure set.
func (d *SSHDialer) Dial(ctx context.Context, name, addr string) (Session, error) {
	if addr == "" {
		return nil, errors.NewWithContext(errors.ErrCodeUnreachable,
			"device has no management address", map[string]interface{}{
				"device": name,
			})
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreachable, "canceled while waiting to dial", err)
	}

	config := &ssh.ClientConfig{
		User: d.Credentials.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(d.Credentials.Password),
		},
		// Inventory-driven fleets carry no host key registry.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         d.DialTimeout,
	}

	hostport := net.JoinHostPort(addr, strconv.Itoa(d.Port))
	dialer := &net.Dialer{Timeout: d.DialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", hostport)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnreachable,
			"failed to reach management address", err, map[string]interface{}{
				"device":  name,
				"address": hostport,
			})
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, hostport, config)
	if err != nil {
		conn.Close()
		return nil, errors.WrapWithContext(errors.ErrCodeUnreachable,
			"ssh handshake failed", err, map[string]interface{}{
				"device":  name,
				"address": hostport,
			})
	}

	slog.Debug("management session established", "device", name, "address", hostport)
	return &sshSession{
		name:           name,
		client:         ssh.NewClient(sshConn, chans, reqs),
		commandTimeout: d.CommandTimeout,
	}, nil
}

type sshSession struct {
	name           string
	client         *ssh.Client
	commandTimeout time.Duration
}

func (s *sshSession) RunningConfig(ctx context.Context) (string, error) {
	return s.run(ctx, cmdRunningConfig)
}

func (s *sshSession) Identity(ctx context.Context) (Identity, error) {
	out, err := s.run(ctx, cmdShowVersion)
	if err != nil {
		return Identity{}, err
	}
	return ParseIdentity(out), nil
}

func (s *sshSession) Neighbors(ctx context.Context) (topology.NeighborTable, error) {
	out, err := s.run(ctx, cmdLLDPNeighbors)
	if err != nil {
		return nil, err
	}
	return ParseLLDPNeighbors([]byte(out))
}

func (s *sshSession) Close() error {
	return s.client.Close()
}

// run executes one command in a fresh exec session. Failures after a
// successful dial mean the device answered but its data cannot be trusted,
// so they surface as PARTIAL_DATA.
func (s *sshSession) run(ctx context.Context, cmd string) (string, error) {
	session, err := s.client.NewSession()
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodePartialData,
			"failed to open exec session", err, map[string]interface{}{
				"device":  s.name,
				"command": cmd,
			})
	}
	defer session.Close()

	type result struct {
		output []byte
		err    error
	}
	done := make(chan result, 1)
	go func() {
		output, err := session.CombinedOutput(cmd)
		done <- result{output: output, err: err}
	}()

	timer := time.NewTimer(s.commandTimeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			var exitErr *ssh.ExitError
			if stderrors.As(res.err, &exitErr) {
				return "", errors.NewWithContext(errors.ErrCodePartialData,
					"command exited non-zero", map[string]interface{}{
						"device":  s.name,
						"command": cmd,
						"status":  exitErr.ExitStatus(),
					})
			}
			return "", errors.WrapWithContext(errors.ErrCodePartialData,
				"command failed", res.err, map[string]interface{}{
					"device":  s.name,
					"command": cmd,
				})
		}
		return string(res.output), nil
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return "", errors.Wrap(errors.ErrCodePartialData, "command canceled", ctx.Err())
	case <-timer.C:
		session.Signal(ssh.SIGKILL)
		return "", errors.NewWithContext(errors.ErrCodePartialData,
			"command timed out", map[string]interface{}{
				"device":  s.name,
				"command": cmd,
				"timeout": s.commandTimeout.String(),
			})
	}
}
