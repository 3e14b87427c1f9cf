package rclone

import (
	"slices"
	"testing"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"bisync", ModeBisync, false},
		{"Bidirectional (bisync)", ModeBisync, false},
		{"pull", ModePull, false},
		{"Cloud to Local (copy)", ModePull, false},
		{"push", ModePush, false},
		{"Local to Cloud (copy)", ModePush, false},
		{"mirror", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMode(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRequestArgs(t *testing.T) {
	t.Run("bisync carries workdir and resilience flags", func(t *testing.T) {
		req := Request{
			Remote:    "gdrive:",
			LocalPath: "/home/user/Drive",
			Mode:      ModeBisync,
			Workdir:   "/home/user/.config/linuxcloudsync/bisync",
		}

		args, dropped := req.Args()
		want := []string{
			"bisync", "gdrive:", "/home/user/Drive",
			"--workdir", "/home/user/.config/linuxcloudsync/bisync",
			"--create-empty-src-dirs", "--resilient", "-v",
		}
		if !slices.Equal(args, want) {
			t.Errorf("expected %v, got %v", want, args)
		}
		if len(dropped) != 0 {
			t.Errorf("expected no dropped flags, got %v", dropped)
		}
	})

	t.Run("resync inserts --resync before common flags", func(t *testing.T) {
		req := Request{
			Remote:    "gdrive:",
			LocalPath: "/home/user/Drive",
			Mode:      ModeBisync,
			Workdir:   "/tmp/wd",
			Resync:    true,
		}

		args, _ := req.Args()
		if !slices.Contains(args, "--resync") {
			t.Error("expected --resync in args")
		}
		if slices.Index(args, "--resync") > slices.Index(args, "--resilient") {
			t.Error("expected --resync before --resilient")
		}
	})

	t.Run("pull copies remote to local", func(t *testing.T) {
		req := Request{Remote: "onedrive:", LocalPath: "/home/user/Docs", Mode: ModePull}
		args, _ := req.Args()
		want := []string{"copy", "onedrive:", "/home/user/Docs", "-v"}
		if !slices.Equal(args, want) {
			t.Errorf("expected %v, got %v", want, args)
		}
	})

	t.Run("push copies local to remote", func(t *testing.T) {
		req := Request{Remote: "onedrive:", LocalPath: "/home/user/Docs", Mode: ModePush}
		args, _ := req.Args()
		want := []string{"copy", "/home/user/Docs", "onedrive:", "-v"}
		if !slices.Equal(args, want) {
			t.Errorf("expected %v, got %v", want, args)
		}
	})

	t.Run("optional flags appended", func(t *testing.T) {
		req := Request{
			Remote:          "gdrive:",
			LocalPath:       "/home/user/Drive",
			Mode:            ModePush,
			BandwidthLimit:  "10M",
			DryRun:          true,
			ExcludePatterns: []string{"*.tmp", "", "# comment", ".git/"},
			ExtraFlags:      []string{"--transfers=4"},
		}

		args, _ := req.Args()

		hasPair := func(flag, value string) bool {
			for i := 0; i < len(args)-1; i++ {
				if args[i] == flag && args[i+1] == value {
					return true
				}
			}
			return false
		}

		for _, pair := range [][2]string{{"--bwlimit", "10M"}, {"--exclude", "*.tmp"}, {"--exclude", ".git/"}} {
			if !hasPair(pair[0], pair[1]) {
				t.Errorf("expected %v in args %v", pair, args)
			}
		}

		if !slices.Contains(args, "--dry-run") {
			t.Error("expected --dry-run")
		}
		if !slices.Contains(args, "--transfers=4") {
			t.Error("expected extra flag to pass through")
		}
		if slices.Contains(args, "# comment") {
			t.Error("comment patterns should be skipped")
		}
	})

	t.Run("bisync drops unsupported extra flags", func(t *testing.T) {
		req := Request{
			Remote:     "gdrive:",
			LocalPath:  "/home/user/Drive",
			Mode:       ModeBisync,
			Workdir:    "/tmp/wd",
			ExtraFlags: []string{"--compare", "--transfers=4", "--slow-hash-sync-only"},
		}

		args, dropped := req.Args()

		if slices.Contains(args, "--compare") || slices.Contains(args, "--slow-hash-sync-only") {
			t.Errorf("unsupported flags should be dropped, got %v", args)
		}
		if !slices.Contains(args, "--transfers=4") {
			t.Error("supported extra flag should remain")
		}
		if !slices.Equal(dropped, []string{"--compare", "--slow-hash-sync-only"}) {
			t.Errorf("unexpected dropped list %v", dropped)
		}
	})

	t.Run("copy keeps flags bisync rejects", func(t *testing.T) {
		req := Request{
			Remote:     "gdrive:",
			LocalPath:  "/home/user/Drive",
			Mode:       ModePull,
			ExtraFlags: []string{"--compare"},
		}

		args, dropped := req.Args()
		if !slices.Contains(args, "--compare") {
			t.Error("copy mode should keep --compare")
		}
		if len(dropped) != 0 {
			t.Errorf("expected no dropped flags, got %v", dropped)
		}
	})
}

func TestMergeExcludes(t *testing.T) {
	merged := MergeExcludes(DefaultExcludes(), []string{"*.log", "secrets/", "", "# note"})

	count := 0
	for _, p := range merged {
		if p == "*.log" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected *.log exactly once, got %d", count)
	}

	if !slices.Contains(merged, "secrets/") {
		t.Error("expected custom pattern to merge")
	}
	if slices.Contains(merged, "# note") {
		t.Error("comments should be dropped")
	}
}
