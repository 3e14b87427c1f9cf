// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// syncTargetFlags describe where and how to sync. They apply to ad-hoc runs
// and override the corresponding profile fields when both are given.
func syncTargetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "Saved profile to run (defaults to the last-used profile)",
		},
		&cli.StringFlag{
			Name:  "remote",
			Usage: "rclone remote, e.g. gdrive:Documents",
		},
		&cli.StringFlag{
			Name:  "local",
			Usage: "Local directory to sync",
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Sync mode: bisync, pull, or push",
		},
		&cli.StringFlag{
			Name:  "bwlimit",
			Usage: "Bandwidth limit, e.g. 10M",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Show what would change without changing anything",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Override the run deadline, e.g. 30m",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Exclude pattern (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "flag",
			Usage: "Extra rclone flag passed through verbatim (repeatable)",
		},
	}
}

// syncCommand handles sync runs and baseline recovery
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Run folder synchronization",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Sync a local folder with a cloud remote",
				Flags: append(syncTargetFlags(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output run summary as JSON",
					},
				),
				Action: r.SyncRun,
			},
			{
				Name:  "resync",
				Usage: "Rebuild the bisync baseline (first run or after baseline loss)",
				Flags: append(syncTargetFlags(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output run summary as JSON",
					},
				),
				Action: r.SyncResync,
			},
		},
	}
}

// remoteCommand handles cloud remote management
func remoteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "remote",
		Usage: "Manage cloud remotes",
		Commands: []*cli.Command{
			{
				Name:  "connect",
				Usage: "Connect a cloud account (opens the provider's consent screen)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "provider",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Remote name (defaults to the provider name)",
					},
				},
				Action: r.RemoteConnect,
			},
			{
				Name:  "list",
				Usage: "List configured remotes",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RemoteList,
			},
			{
				Name:  "size",
				Usage: "Report object count and total size of a remote path",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "remote",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RemoteSize,
			},
		},
	}
}

// profileCommand handles saved sync profiles
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage saved sync profiles",
		Commands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Save or overwrite a named profile",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "remote",
						Usage:    "rclone remote, e.g. gdrive:Documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "local",
						Usage:    "Local directory to sync",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Sync mode: bisync, pull, or push",
						Value: "bisync",
					},
					&cli.StringFlag{
						Name:  "bwlimit",
						Usage: "Bandwidth limit, e.g. 10M",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Always run in dry-run mode",
					},
					&cli.StringSliceFlag{
						Name:  "exclude",
						Usage: "Exclude pattern (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "flag",
						Usage: "Extra rclone flag (repeatable)",
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Log level for runs of this profile",
					},
				},
				Action: r.ProfileSave,
			},
			{
				Name:  "list",
				Usage: "List saved profiles",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ProfileList,
			},
			{
				Name:  "show",
				Usage: "Show a profile's settings",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ProfileShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a profile",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Action: r.ProfileDelete,
			},
			{
				Name:  "use",
				Usage: "Mark a profile as the default for the next run",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Action: r.ProfileUse,
			},
		},
	}
}

// historyCommand handles the sync run history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect past sync runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded runs, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "profile",
						Aliases: []string{"p"},
						Usage:   "Only runs of this profile",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only runs with this status",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to return",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "export",
				Usage: "Export run history to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, or text",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
					&cli.StringFlag{
						Name:    "profile",
						Aliases: []string{"p"},
						Usage:   "Only runs of this profile",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Create the config directory and a config.toml from the template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the history database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "logs",
				Usage:  "Open the log folder in the file manager",
				Action: r.SetupLogs,
			},
			{
				Name:   "doctor",
				Usage:  "Check the local installation: rclone, config, remotes, database",
				Action: r.SetupDoctor,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive sync.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for running sync profiles",
		Action:  r.TUI,
	}
}
