package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/cryptd777/linuxcloudsync/internal/rclone"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
)

// SetupConfig creates the per-user config directory and a config.toml template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	dir, err := shared.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Materialize the whole layout so rclone and the engine never have to.
	for _, fn := range []func() (string, error){shared.LogsDir, shared.BisyncWorkdir} {
		if _, err := fn(); err != nil {
			return err
		}
	}

	configPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(configPath); err == nil {
		r.writePlain("Config already exists at %s\n", configPath)
		return nil
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Created %s\n", configPath)
	r.writePlain("Edit it to pin an rclone binary or change sync defaults.\n")
	return nil
}

// SetupDatabase initializes the history database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	path := r.config.Database.Path
	if path == "" {
		path, _ = shared.HistoryDBPath()
	}
	r.logger.Infof("setup complete for database: %v", path)
	r.writePlain("✓ History database ready at %s\n", path)
	return nil
}

// SetupLogs reveals the log directory in the platform file manager.
func (r *Runner) SetupLogs(ctx context.Context, cmd *cli.Command) error {
	dir, err := shared.LogsDir()
	if err != nil {
		return err
	}

	if err := shared.OpenFolder(dir); err != nil {
		// Headless session, just print where the logs live
		r.writePlain("%s\n", dir)
		return nil
	}

	r.writePlain("✓ Opened %s\n", dir)
	return nil
}

// SetupDoctor checks the local installation end to end.
func (r *Runner) SetupDoctor(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader("Installation Check")
	failures := 0

	check := func(label string, err error) {
		if err != nil {
			failures++
			r.writePlain("✗ %s: %v\n", label, err)
			return
		}
		r.writePlain("✓ %s\n", label)
	}

	dir, err := shared.ConfigDir()
	check(fmt.Sprintf("config directory (%s)", dir), err)

	if err := r.requireClient(); err != nil {
		check("rclone binary", err)
	} else {
		checkCtx, cancel := context.WithTimeout(ctx, r.config.Engine.CommandTimeout())
		defer cancel()

		version, err := r.client.Version(checkCtx)
		if err != nil {
			check("rclone binary", err)
		} else {
			check(fmt.Sprintf("rclone binary (%s, %s)", r.client.Binary(), version), nil)
		}

		remotes, err := r.client.ListRemotes(checkCtx)
		if err != nil {
			check("configured remotes", err)
		} else if len(remotes) == 0 {
			check("configured remotes", fmt.Errorf("none found, run 'lcsync remote connect gdrive'"))
		} else {
			check(fmt.Sprintf("configured remotes (%d)", len(remotes)), nil)
		}
	}

	if db, err := r.openDB(); err != nil {
		check("history database", err)
	} else {
		check("history database", nil)
		db.Close()
	}

	if workdir, err := shared.BisyncWorkdir(); err != nil {
		check("bisync workdir", err)
	} else {
		locks, err := rclone.LockFiles(workdir)
		switch {
		case err != nil:
			check("bisync workdir", err)
		case len(locks) > 0:
			check("bisync workdir", nil)
			r.writePlain("  %d stale lock file(s) present, cleared automatically on the next run\n", len(locks))
		default:
			check("bisync workdir", nil)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	r.writePlainln("All checks passed.")
	return nil
}
