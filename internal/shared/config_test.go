package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Engine.CommandTimeoutSecs != 10 {
			t.Errorf("expected command timeout 10s, got %d", config.Engine.CommandTimeoutSecs)
		}

		if config.Engine.SyncTimeoutMins != 60 {
			t.Errorf("expected sync timeout 60m, got %d", config.Engine.SyncTimeoutMins)
		}

		if config.Engine.ResyncTimeoutMins != 5 {
			t.Errorf("expected resync timeout 5m, got %d", config.Engine.ResyncTimeoutMins)
		}

		if config.Sync.DefaultMode != "bisync" {
			t.Errorf("expected default mode bisync, got %s", config.Sync.DefaultMode)
		}

		if len(config.Sync.ExcludePatterns) == 0 {
			t.Error("expected default exclude patterns")
		}

		if config.Database.MaxOpenConns != 5 {
			t.Errorf("expected max open conns 5, got %d", config.Database.MaxOpenConns)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Sync.DefaultMode != defaultConfig.Sync.DefaultMode {
			t.Error("created config default mode doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		content := `
[engine]
binary = "/opt/rclone/rclone"
sync_timeout_mins = 120

[sync]
default_mode = "push"
bandwidth_limit = "10M"
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Engine.Binary != "/opt/rclone/rclone" {
			t.Errorf("expected binary /opt/rclone/rclone, got %s", config.Engine.Binary)
		}

		if config.Engine.SyncTimeoutMins != 120 {
			t.Errorf("expected sync timeout 120m, got %d", config.Engine.SyncTimeoutMins)
		}

		if config.Sync.BandwidthLimit != "10M" {
			t.Errorf("expected bandwidth limit 10M, got %s", config.Sync.BandwidthLimit)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadConfig invalid TOML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := os.WriteFile(configPath, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}
