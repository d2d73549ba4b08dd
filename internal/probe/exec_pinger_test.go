package probe

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecPingerArgs(t *testing.T) {
	p := NewExecPinger("", time.Second)
	assert.Equal(t, "ping", p.Command)

	cases := map[string][]string{
		"linux":   {"-c", "1", "-w", "1", "10.0.0.1"},
		"darwin":  {"-c", "1", "-t", "1", "10.0.0.1"},
		"windows": {"-n", "1", "-w", "1000", "10.0.0.1"},
	}
	for goos, want := range cases {
		p.GOOS = goos
		assert.Equal(t, want, p.Args("10.0.0.1"), goos)
	}
}

func TestExecPingerSubSecondTimeoutRoundsUp(t *testing.T) {
	p := NewExecPinger("ping", 200*time.Millisecond)
	p.GOOS = "linux"
	assert.Equal(t, []string{"-c", "1", "-w", "1", "h"}, p.Args("h"))
}

func TestExecPingerUsesRunner(t *testing.T) {
	var gotName string
	var gotArgs []string
	p := NewExecPinger("/usr/bin/ping", time.Second)
	p.GOOS = "linux"
	p.run = func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return errors.New("exit status 1")
	}

	require.Error(t, p.Ping(context.Background(), "10.0.0.2"))
	assert.Equal(t, "/usr/bin/ping", gotName)
	assert.Equal(t, []string{"-c", "1", "-w", "1", "10.0.0.2"}, gotArgs)
}

func TestExecPingerExitStatus(t *testing.T) {
	truePath, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true(1) not available")
	}
	falsePath, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false(1) not available")
	}

	up := New(NewExecPinger(truePath, time.Second), Options{})
	assert.True(t, up.Check(context.Background(), "10.0.0.1"))

	down := New(NewExecPinger(falsePath, time.Second), Options{})
	assert.False(t, down.Check(context.Background(), "10.0.0.1"))
}

func TestExecPingerMissingBinaryIsUnreachable(t *testing.T) {
	p := New(NewExecPinger("/nonexistent/ping-binary", time.Second), Options{})
	assert.False(t, p.Check(context.Background(), "10.0.0.1"))
}
