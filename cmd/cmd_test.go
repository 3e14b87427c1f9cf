package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/cryptd777/linuxcloudsync/internal/models"
	"github.com/cryptd777/linuxcloudsync/internal/profiles"
	"github.com/cryptd777/linuxcloudsync/internal/rclone"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
	"github.com/cryptd777/linuxcloudsync/internal/tasks"
	tu "github.com/cryptd777/linuxcloudsync/internal/testing"
)

// cliRunner builds a fresh command tree per invocation; cli commands hold
// parsed flag state and cannot be reused across runs.
type cliRunner func(args ...string) error

// testApp wires a runner with a mock engine and an isolated profile store.
func testApp(t *testing.T) (cliRunner, *tu.MockEngine, *profiles.Store, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	store := profiles.NewStore(filepath.Join(dir, "profiles.json"), filepath.Join(dir, "last_profile.txt"))
	engine := &tu.MockEngine{
		Result: &tasks.RunResult{
			Status:   models.RunSuccess,
			Duration: time.Second,
		},
	}
	output := &bytes.Buffer{}

	runner := NewRunner(RunnerOpts{
		Store:  store,
		Engine: engine,
		Output: output,
	})

	run := func(args ...string) error {
		app := &cli.Command{
			Name:     "lcsync",
			Commands: runner.register(),
		}
		return app.Run(context.Background(), append([]string{"lcsync"}, args...))
	}
	return run, engine, store, output
}

func TestProfileCommands(t *testing.T) {
	t.Run("save then show round-trips", func(t *testing.T) {
		run, _, _, output := testApp(t)

		err := run("profile", "save", "work",
			"--remote", "gdrive:Documents",
			"--local", "/home/user/Documents",
			"--mode", "bisync",
			"--bwlimit", "10M",
		)
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}

		if err := run("profile", "show", "work"); err != nil {
			t.Fatalf("show failed: %v", err)
		}

		out := output.String()
		for _, want := range []string{"Profile 'work' saved", "gdrive:Documents", "Bandwidth limit: 10M"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %q", want, out)
			}
		}
	})

	t.Run("save rejects a malformed remote", func(t *testing.T) {
		run, _, _, _ := testApp(t)

		err := run("profile", "save", "bad",
			"--remote", "not a remote",
			"--local", "/home/user",
		)
		if err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("delete removes the profile", func(t *testing.T) {
		run, _, store, _ := testApp(t)

		_ = store.Save("work", profiles.Profile{Remote: "gdrive:", LocalPath: "/home/user", Mode: "bisync"})
		if err := run("profile", "delete", "work"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Get("work"); err == nil {
			t.Error("expected profile to be gone")
		}
	})

	t.Run("use marks the last profile", func(t *testing.T) {
		run, _, store, _ := testApp(t)

		_ = store.Save("work", profiles.Profile{Remote: "gdrive:", LocalPath: "/home/user", Mode: "bisync"})
		if err := run("profile", "use", "work"); err != nil {
			t.Fatalf("use failed: %v", err)
		}

		last, _ := store.Last()
		if last != "work" {
			t.Errorf("expected last profile %q, got %q", "work", last)
		}
	})

	t.Run("list marks the last profile", func(t *testing.T) {
		run, _, store, output := testApp(t)

		_ = store.Save("work", profiles.Profile{Remote: "gdrive:", LocalPath: "/home/user", Mode: "bisync"})
		_ = store.Save("photos", profiles.Profile{Remote: "onedrive:", LocalPath: "/home/user/Photos", Mode: "pull"})
		_ = store.SetLast("photos")

		if err := run("profile", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "* photos:") {
			t.Errorf("expected last-profile marker, got %q", output.String())
		}
	})
}

func TestSyncCommand(t *testing.T) {
	t.Run("runs a saved profile", func(t *testing.T) {
		run, engine, store, output := testApp(t)

		_ = store.Save("work", profiles.Profile{
			Remote:         "gdrive:Documents",
			LocalPath:      "/home/user/Documents",
			Mode:           "bisync",
			BandwidthLimit: "5M",
			ExtraFlags:     []string{"--fast-list"},
		})

		if err := run("sync", "run", "--profile", "work"); err != nil {
			t.Fatalf("sync run failed: %v", err)
		}

		if len(engine.Specs) != 1 {
			t.Fatalf("expected 1 engine invocation, got %d", len(engine.Specs))
		}
		spec := engine.Specs[0]
		if spec.Profile != "work" || spec.Remote != "gdrive:Documents" || spec.Mode != rclone.ModeBisync {
			t.Errorf("unexpected spec %+v", spec)
		}
		if spec.BandwidthLimit != "5M" || len(spec.ExtraFlags) != 1 {
			t.Errorf("profile options not carried: %+v", spec)
		}
		if !strings.Contains(output.String(), "Sync completed") {
			t.Errorf("expected success output, got %q", output.String())
		}

		last, _ := store.Last()
		if last != "work" {
			t.Errorf("expected run to mark last profile, got %q", last)
		}
	})

	t.Run("flags override profile fields", func(t *testing.T) {
		run, engine, store, _ := testApp(t)

		_ = store.Save("work", profiles.Profile{Remote: "gdrive:", LocalPath: "/home/user", Mode: "bisync"})

		err := run("sync", "run",
			"--profile", "work",
			"--mode", "pull",
			"--dry-run",
			"--timeout", "30m",
		)
		if err != nil {
			t.Fatalf("sync run failed: %v", err)
		}

		spec := engine.Specs[0]
		if spec.Mode != rclone.ModePull || !spec.DryRun {
			t.Errorf("expected overrides to apply, got %+v", spec)
		}
		if spec.Timeout != 30*time.Minute {
			t.Errorf("expected timeout override, got %v", spec.Timeout)
		}
	})

	t.Run("merges default excludes with profile patterns", func(t *testing.T) {
		run, engine, store, _ := testApp(t)

		_ = store.Save("work", profiles.Profile{
			Remote:          "gdrive:",
			LocalPath:       "/home/user",
			Mode:            "bisync",
			ExcludePatterns: []string{"secrets/"},
		})

		if err := run("sync", "run", "--profile", "work"); err != nil {
			t.Fatalf("sync run failed: %v", err)
		}

		got := map[string]bool{}
		for _, pattern := range engine.Specs[0].ExcludePatterns {
			got[pattern] = true
		}
		for _, want := range append(rclone.DefaultExcludes(), "secrets/") {
			if !got[want] {
				t.Errorf("expected exclude %q, got %v", want, engine.Specs[0].ExcludePatterns)
			}
		}
	})

	t.Run("ad-hoc run without profile", func(t *testing.T) {
		run, engine, _, _ := testApp(t)

		err := run("sync", "run",
			"--remote", "onedrive:Backup",
			"--local", "/home/user/Backup",
			"--mode", "push",
		)
		if err != nil {
			t.Fatalf("sync run failed: %v", err)
		}

		spec := engine.Specs[0]
		if spec.Profile != "" || spec.Remote != "onedrive:Backup" || spec.Mode != rclone.ModePush {
			t.Errorf("unexpected spec %+v", spec)
		}
	})

	t.Run("falls back to the last profile", func(t *testing.T) {
		run, engine, store, _ := testApp(t)

		_ = store.Save("work", profiles.Profile{Remote: "gdrive:", LocalPath: "/home/user", Mode: "bisync"})
		_ = store.SetLast("work")

		if err := run("sync", "run"); err != nil {
			t.Fatalf("sync run failed: %v", err)
		}

		if len(engine.Specs) != 1 || engine.Specs[0].Profile != "work" {
			t.Errorf("expected last profile to be used, got %+v", engine.Specs)
		}
	})

	t.Run("fails without a target", func(t *testing.T) {
		run, engine, _, _ := testApp(t)

		if err := run("sync", "run"); err == nil {
			t.Error("expected error without profile or remote")
		}
		if len(engine.Specs) != 0 {
			t.Error("engine must not be invoked")
		}
	})

	t.Run("json summary", func(t *testing.T) {
		run, _, store, output := testApp(t)

		_ = store.Save("work", profiles.Profile{Remote: "gdrive:", LocalPath: "/home/user", Mode: "bisync"})

		if err := run("sync", "run", "--profile", "work", "--json"); err != nil {
			t.Fatalf("sync run failed: %v", err)
		}
		if !strings.Contains(output.String(), "\"status\": \"success\"") {
			t.Errorf("expected JSON summary, got %q", output.String())
		}
	})

	t.Run("resync invokes the engine", func(t *testing.T) {
		run, engine, store, _ := testApp(t)

		_ = store.Save("work", profiles.Profile{Remote: "gdrive:", LocalPath: "/home/user", Mode: "bisync"})

		if err := run("sync", "resync", "--profile", "work"); err != nil {
			t.Fatalf("resync failed: %v", err)
		}
		if len(engine.Specs) != 1 {
			t.Errorf("expected engine invocation, got %d", len(engine.Specs))
		}
	})

	t.Run("needs-resync result exits cleanly with guidance", func(t *testing.T) {
		run, engine, store, output := testApp(t)

		engine.Result = &tasks.RunResult{Status: models.RunNeedsResync, ExitCode: 2}
		engine.Err = shared.ErrBaselineMissing

		_ = store.Save("work", profiles.Profile{Remote: "gdrive:", LocalPath: "/home/user", Mode: "bisync"})

		if err := run("sync", "run", "--profile", "work"); err != nil {
			t.Fatalf("needs-resync should not be a hard failure: %v", err)
		}
		if !strings.Contains(output.String(), "lcsync sync resync") {
			t.Errorf("expected resync guidance, got %q", output.String())
		}
	})
}
