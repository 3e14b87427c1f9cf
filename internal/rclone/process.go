package rclone

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
)

const defaultGracePeriod = 5 * time.Second

// Process supervises a running rclone invocation.
//
// Output (stdout and stderr combined) is delivered line by line on Lines();
// the channel closes when the process stops producing output. Wait returns
// the exit error once, to any number of callers.
type Process struct {
	cmd         *exec.Cmd
	lines       chan string
	waitOnce    sync.Once
	waitErr     error
	waitCh      chan error
	terminateMu sync.Mutex
}

// StartProcess launches rclone with the given arguments and environment and
// begins streaming its output.
func StartProcess(ctx context.Context, binary string, args, env []string) (*Process, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = env

	// Merge stderr into stdout so log ordering matches what rclone prints
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return nil, fmt.Errorf("failed to start rclone: %w", err)
	}

	proc := &Process{
		cmd:    cmd,
		lines:  make(chan string, 64),
		waitCh: make(chan error, 1),
	}

	go func() {
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				proc.lines <- line
			}
		}
		close(proc.lines)
	}()

	go func() {
		err := cmd.Wait()
		pw.Close()
		proc.waitOnce.Do(func() {
			proc.waitErr = err
		})
		proc.waitCh <- err
		close(proc.waitCh)
	}()

	return proc, nil
}

// Lines returns the channel of output lines.
func (p *Process) Lines() <-chan string {
	return p.lines
}

// Wait blocks until the process exits and returns the underlying error.
func (p *Process) Wait() error {
	err, ok := <-p.waitCh
	if !ok {
		return p.waitErr
	}
	return err
}

// Terminate sends the provided signal and waits for graceful shutdown. If the
// process does not exit within grace, it is killed forcibly.
func (p *Process) Terminate(sig os.Signal, grace time.Duration) error {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return nil
	}

	p.terminateMu.Lock()
	defer p.terminateMu.Unlock()

	// Process already finished.
	select {
	case <-p.waitCh:
		return p.waitErr
	default:
	}

	if sig != nil {
		_ = p.cmd.Process.Signal(sig)
	}

	if grace <= 0 {
		grace = defaultGracePeriod
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-p.waitCh:
		return p.waitErr
	case <-timer.C:
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to kill rclone: %w", err)
		}
		<-p.waitCh
		return p.waitErr
	}
}

// Pid returns the OS process identifier.
func (p *Process) Pid() int {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// ExitCode extracts the exit code from a Wait error. Signal terminations
// report -1 from the runtime and map to 1 here.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
	}
	return 1
}
