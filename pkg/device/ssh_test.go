package device

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sitemirror/sitemirror/pkg/defaults"
	"github.com/sitemirror/sitemirror/pkg/errors"
)

func TestNewSSHDialerDefaults(t *testing.T) {
	d := NewSSHDialer(Credentials{Username: "admin", Password: "admin"})

	assert.Equal(t, DefaultSSHPort, d.Port)
	assert.Equal(t, defaults.SessionDialTimeout, d.DialTimeout)
	assert.Equal(t, defaults.SessionCommandTimeout, d.CommandTimeout)
	assert.Equal(t, rate.Limit(defaults.DialRatePerSecond), d.DialRate)
	assert.Equal(t, 1, d.DialBurst)
}

func TestNewSSHDialerOptions(t *testing.T) {
	d := NewSSHDialer(Credentials{Username: "ops"},
		WithPort(2222),
		WithDialTimeout(5*time.Second),
		WithCommandTimeout(10*time.Second),
		WithDialRate(rate.Limit(2), 4),
	)

	assert.Equal(t, 2222, d.Port)
	assert.Equal(t, 5*time.Second, d.DialTimeout)
	assert.Equal(t, 10*time.Second, d.CommandTimeout)
	assert.Equal(t, rate.Limit(2), d.DialRate)
	assert.Equal(t, 4, d.DialBurst)
}

func TestNewSSHDialerIgnoresInvalidOptions(t *testing.T) {
	d := NewSSHDialer(Credentials{},
		WithPort(0),
		WithDialTimeout(-time.Second),
		WithDialRate(0, 0),
	)

	assert.Equal(t, DefaultSSHPort, d.Port)
	assert.Equal(t, defaults.SessionDialTimeout, d.DialTimeout)
	assert.Equal(t, rate.Limit(defaults.DialRatePerSecond), d.DialRate)
}

func TestDialWithoutAddress(t *testing.T) {
	d := NewSSHDialer(Credentials{Username: "admin"})

	s, err := d.Dial(context.Background(), "leaf01", "")
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnreachable))
}

func TestDialCanceledContext(t *testing.T) {
	d := NewSSHDialer(Credentials{Username: "admin"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := d.Dial(ctx, "leaf01", "192.0.2.10")
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnreachable))
}
