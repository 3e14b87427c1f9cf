package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/cryptd777/linuxcloudsync/internal/profiles"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
	tu "github.com/cryptd777/linuxcloudsync/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			store := profiles.NewStore("/tmp/p.json", "/tmp/last.txt")
			engine := &tu.MockEngine{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				Store:  store,
				Engine: engine,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.engine != engine {
				t.Error("expected engine to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("requireClient", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		if err := runner.requireClient(); err == nil {
			t.Error("expected error without a client")
		}
	})

	t.Run("requireStore", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		if err := runner.requireStore(); err == nil {
			t.Error("expected error without a store")
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("compact", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("writeJSON failed: %v", err)
			}
			if output.String() != "{\"key\":\"value\"}\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("pretty", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("writeJSON failed: %v", err)
			}
			if !strings.Contains(output.String(), "  \"key\": \"value\"") {
				t.Errorf("expected indented output, got %q", output.String())
			}
		})

		t.Run("write failure surfaces", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{}, false); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("writePlain helpers", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlain("a %d", 1)
		runner.writePlainln("b")
		runner.writePlainHeader("title")

		out := output.String()
		if !strings.Contains(out, "a 1") || !strings.Contains(out, "\nb\n") || !strings.Contains(out, "title") {
			t.Errorf("unexpected output %q", out)
		}
	})
}
