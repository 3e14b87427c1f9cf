package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/cryptd777/linuxcloudsync/internal/profiles"
	"github.com/cryptd777/linuxcloudsync/internal/rclone"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if dir, err := shared.ConfigDir(); err == nil {
		configPath := filepath.Join(dir, "config.toml")
		if _, err := os.Stat(configPath); err == nil {
			if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
				config = loadedConfig
			} else {
				logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
			}
		}
	}

	if level, err := log.ParseLevel(config.Logging.Level); err == nil {
		shared.SetLogLevel(logger, level)
	}

	// The managed rclone config keeps this app's remotes separate from any
	// rclone setup the user already has.
	rcloneConfig := config.Engine.ConfigPath
	if rcloneConfig == "" {
		if path, err := shared.RcloneConfigPath(); err == nil {
			rcloneConfig = path
		}
	}

	var client *rclone.Client
	if c, err := rclone.NewClient(rclone.ClientOpts{
		Binary:         config.Engine.Binary,
		ConfigPath:     rcloneConfig,
		CommandTimeout: config.Engine.CommandTimeout(),
		Logger:         logger,
	}); err == nil {
		client = c
	} else {
		logger.Warn("rclone not available, sync commands will fail", "error", err)
	}

	var store *profiles.Store
	if s, err := profiles.DefaultStore(); err == nil {
		store = s
	} else {
		logger.Warn("profile store unavailable", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Client: client,
		Store:  store,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "lcsync",
		Usage:    "Keep local folders in sync with Google Drive & OneDrive",
		Version:  shared.Version(),
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
