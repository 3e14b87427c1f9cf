package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/cryptd777/linuxcloudsync/internal/formatter"
	"github.com/cryptd777/linuxcloudsync/internal/models"
	"github.com/cryptd777/linuxcloudsync/internal/rclone"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
	"github.com/cryptd777/linuxcloudsync/internal/tasks"
)

// runSummary is the JSON shape of a finished run.
type runSummary struct {
	Status   string `json:"status"`
	ExitCode int    `json:"exit_code"`
	Duration string `json:"duration"`
	Bytes    int64  `json:"bytes_transferred"`
	Files    int64  `json:"files_transferred"`
	RunID    string `json:"run_id,omitempty"`
}

// SyncRun performs a sync according to a profile or ad-hoc flags.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	return r.runSync(ctx, cmd, false)
}

// SyncResync rebuilds the bisync baseline for a profile or ad-hoc pair.
func (r *Runner) SyncResync(ctx context.Context, cmd *cli.Command) error {
	return r.runSync(ctx, cmd, true)
}

func (r *Runner) runSync(ctx context.Context, cmd *cli.Command, resync bool) error {
	spec, err := r.resolveSpec(cmd)
	if err != nil {
		return err
	}

	engine, db, err := r.newEngine()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if update.Phase == tasks.Stream {
				r.writePlain("%s\n", update.Message)
			} else if update.Message != "" {
				r.logger.Info(update.Message)
			}
		}
	}()

	var result *tasks.RunResult
	var runErr error
	if resync {
		result, runErr = engine.Resync(ctx, spec, progress)
	} else {
		result, runErr = engine.Run(ctx, spec, progress)
	}
	close(progress)
	<-done

	if result == nil {
		return runErr
	}

	if cmd.Bool("json") {
		summary := runSummary{
			Status:   string(result.Status),
			ExitCode: result.ExitCode,
			Duration: result.Duration.Round(time.Millisecond).String(),
			Bytes:    result.Stats.BytesDone,
			Files:    result.Stats.FilesDone,
			RunID:    result.RunID,
		}
		if err := r.writeJSON(summary, true); err != nil {
			return err
		}
	} else {
		r.printResult(result, runErr)
	}

	if runErr != nil && !errors.Is(runErr, shared.ErrBaselineMissing) {
		return runErr
	}
	return nil
}

func (r *Runner) printResult(result *tasks.RunResult, runErr error) {
	r.writePlainHeader("Sync Result")

	switch result.Status {
	case models.RunSuccess:
		r.writePlain("✓ Sync completed in %s\n", result.Duration.Round(time.Second))
	case models.RunNeedsResync:
		r.writePlain("⚠ No bisync baseline for this pair (exit code 2)\n")
		r.writePlain("Run 'lcsync sync resync' to build it, then sync again.\n")
	case models.RunStopped:
		r.writePlain("Sync stopped after %s\n", result.Duration.Round(time.Second))
	case models.RunTimeout:
		r.writePlain("✗ Sync timed out after %s\n", result.Duration.Round(time.Second))
	default:
		r.writePlain("✗ Sync failed with exit code %d\n", result.ExitCode)
		if runErr != nil {
			r.writePlain("%v\n", runErr)
		}
	}

	if result.Stats.FilesTotal > 0 || result.Stats.BytesDone > 0 {
		r.writePlain("Transferred: %s", formatter.FormatBytes(result.Stats.BytesDone))
		if result.Stats.FilesTotal > 0 {
			r.writePlain(" (%d/%d files)", result.Stats.FilesDone, result.Stats.FilesTotal)
		}
		r.writePlain("\n")
	}
	if result.RunID != "" {
		r.writePlain("Recorded as run %s\n", result.RunID)
	}
}

// resolveSpec builds the run spec from --profile (falling back to the
// last-used profile) and lets explicit flags override profile fields.
func (r *Runner) resolveSpec(cmd *cli.Command) (tasks.RunSpec, error) {
	spec := tasks.RunSpec{
		BandwidthLimit:  r.config.Sync.BandwidthLimit,
		ExcludePatterns: rclone.MergeExcludes(rclone.DefaultExcludes(), r.config.Sync.ExcludePatterns),
	}
	modeName := r.config.Sync.DefaultMode

	profileName := cmd.String("profile")
	if profileName == "" && cmd.String("remote") == "" && r.store != nil {
		last, err := r.store.Last()
		if err != nil {
			return spec, err
		}
		if last != "" {
			r.logger.Info("using last profile", "name", last)
			profileName = last
		}
	}

	if profileName != "" {
		if err := r.requireStore(); err != nil {
			return spec, err
		}
		profile, err := r.store.Get(profileName)
		if err != nil {
			return spec, err
		}

		spec.Profile = profileName
		spec.Remote = profile.Remote
		spec.LocalPath = profile.LocalPath
		spec.BandwidthLimit = profile.BandwidthLimit
		spec.DryRun = profile.DryRun
		spec.ExtraFlags = profile.ExtraFlags
		if len(profile.ExcludePatterns) > 0 {
			spec.ExcludePatterns = rclone.MergeExcludes(spec.ExcludePatterns, profile.ExcludePatterns)
		}
		if profile.Mode != "" {
			modeName = profile.Mode
		}
		if profile.LogLevel != "" {
			if level, err := log.ParseLevel(profile.LogLevel); err == nil {
				shared.SetLogLevel(r.logger, level)
			}
		}

		if err := r.store.SetLast(profileName); err != nil {
			r.logger.Warn("failed to update last-profile marker", "error", err)
		}
	}

	if remote := cmd.String("remote"); remote != "" {
		spec.Remote = remote
	}
	if local := cmd.String("local"); local != "" {
		spec.LocalPath = local
	}
	if mode := cmd.String("mode"); mode != "" {
		modeName = mode
	}
	if bwlimit := cmd.String("bwlimit"); bwlimit != "" {
		spec.BandwidthLimit = bwlimit
	}
	if cmd.Bool("dry-run") {
		spec.DryRun = true
	}
	if timeout := cmd.Duration("timeout"); timeout > 0 {
		spec.Timeout = timeout
	}
	if excludes := cmd.StringSlice("exclude"); len(excludes) > 0 {
		spec.ExcludePatterns = rclone.MergeExcludes(spec.ExcludePatterns, excludes)
	}
	if flags := cmd.StringSlice("flag"); len(flags) > 0 {
		spec.ExtraFlags = append(spec.ExtraFlags, flags...)
	}

	if spec.Remote == "" || spec.LocalPath == "" {
		return spec, fmt.Errorf("%w: provide --profile or both --remote and --local", shared.ErrMissingArgument)
	}

	mode, err := rclone.ParseMode(modeName)
	if err != nil {
		return spec, err
	}
	spec.Mode = mode

	return spec, nil
}
