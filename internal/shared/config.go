package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Sync     SyncConfig     `toml:"sync"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

// EngineConfig describes how the external rclone binary is located and driven.
type EngineConfig struct {
	Binary             string `toml:"binary"`
	ConfigPath         string `toml:"config_path"`
	CommandTimeoutSecs int    `toml:"command_timeout_secs"`
	SyncTimeoutMins    int    `toml:"sync_timeout_mins"`
	ResyncTimeoutMins  int    `toml:"resync_timeout_mins"`
}

// CommandTimeout returns the deadline for short rclone commands (version, listremotes).
func (e EngineConfig) CommandTimeout() time.Duration {
	if e.CommandTimeoutSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(e.CommandTimeoutSecs) * time.Second
}

// SyncTimeout returns the deadline for a full sync run.
func (e EngineConfig) SyncTimeout() time.Duration {
	if e.SyncTimeoutMins <= 0 {
		return time.Hour
	}
	return time.Duration(e.SyncTimeoutMins) * time.Minute
}

// ResyncTimeout returns the deadline for a baseline rebuild.
func (e EngineConfig) ResyncTimeout() time.Duration {
	if e.ResyncTimeoutMins <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(e.ResyncTimeoutMins) * time.Minute
}

// SyncConfig contains defaults applied to runs that do not override them.
type SyncConfig struct {
	DefaultMode     string   `toml:"default_mode"`
	BandwidthLimit  string   `toml:"bandwidth_limit"`
	ExcludePatterns []string `toml:"exclude_patterns"`
}

// DatabaseConfig contains sync history database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
