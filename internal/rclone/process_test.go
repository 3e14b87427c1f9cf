package rclone

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestProcess(t *testing.T) {
	t.Run("streams output lines", func(t *testing.T) {
		proc, err := StartProcess(context.Background(), "/bin/sh", []string{"-c", "echo one; echo two 1>&2; echo three"}, os.Environ())
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		var lines []string
		for line := range proc.Lines() {
			lines = append(lines, line)
		}

		if err := proc.Wait(); err != nil {
			t.Fatalf("unexpected wait error: %v", err)
		}

		if len(lines) != 3 {
			t.Fatalf("expected 3 lines (stderr merged), got %v", lines)
		}
	})

	t.Run("wait returns exit error", func(t *testing.T) {
		proc, err := StartProcess(context.Background(), "/bin/sh", []string{"-c", "exit 2"}, os.Environ())
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		for range proc.Lines() {
		}

		waitErr := proc.Wait()
		if waitErr == nil {
			t.Fatal("expected exit error")
		}
		if code := ExitCode(waitErr); code != 2 {
			t.Errorf("expected exit code 2, got %d", code)
		}
	})

	t.Run("terminate stops a long run", func(t *testing.T) {
		proc, err := StartProcess(context.Background(), "/bin/sh", []string{"-c", "sleep 30"}, os.Environ())
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		done := make(chan struct{})
		go func() {
			for range proc.Lines() {
			}
			close(done)
		}()

		start := time.Now()
		_ = proc.Terminate(syscall.SIGTERM, 2*time.Second)

		if elapsed := time.Since(start); elapsed > 5*time.Second {
			t.Errorf("terminate took too long: %v", elapsed)
		}

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("output channel never closed after terminate")
		}
	})

	t.Run("context cancellation kills the process", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		proc, err := StartProcess(ctx, "/bin/sh", []string{"-c", "sleep 30"}, os.Environ())
		if err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		cancel()

		for range proc.Lines() {
		}
		if err := proc.Wait(); err == nil {
			t.Error("expected error after cancellation")
		}
	})

	t.Run("missing binary fails fast", func(t *testing.T) {
		if _, err := StartProcess(context.Background(), "/nonexistent/rclone", nil, os.Environ()); err == nil {
			t.Error("expected start error")
		}
	})
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Error("nil error should map to 0")
	}
	if ExitCode(context.Canceled) != 1 {
		t.Error("non-exit errors should map to 1")
	}
}
