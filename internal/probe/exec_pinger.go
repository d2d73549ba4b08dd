package probe

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// ExecPinger shells out to the system ping utility with a single packet.
// Exit status 0 means reachable.
type ExecPinger struct {
	Command string
	Timeout time.Duration
	GOOS    string

	run commandRunner
}

func NewExecPinger(command string, timeout time.Duration) *ExecPinger {
	if command == "" {
		command = "ping"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecPinger{Command: command, Timeout: timeout, GOOS: runtime.GOOS, run: runCommand}
}

// Args returns the ping arguments for address on the pinger's platform.
func (p *ExecPinger) Args(address string) []string {
	secs := int(p.Timeout.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	switch p.GOOS {
	case "windows":
		return []string{"-n", "1", "-w", strconv.FormatInt(p.Timeout.Milliseconds(), 10), address}
	case "darwin", "freebsd", "openbsd", "netbsd":
		return []string{"-c", "1", "-t", strconv.Itoa(secs), address}
	default:
		return []string{"-c", "1", "-w", strconv.Itoa(secs), address}
	}
}

func (p *ExecPinger) Ping(ctx context.Context, address string) error {
	run := p.run
	if run == nil {
		run = runCommand
	}
	return run(ctx, p.Command, p.Args(address)...)
}
