package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/cryptd777/linuxcloudsync/internal/profiles"
	"github.com/cryptd777/linuxcloudsync/internal/rclone"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
)

// ProfileSave stores a named profile, overwriting any existing one.
func (r *Runner) ProfileSave(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: profile name argument is required", shared.ErrMissingArgument)
	}

	if _, err := rclone.ParseMode(cmd.String("mode")); err != nil {
		return err
	}
	if err := rclone.ValidateRemote(cmd.String("remote")); err != nil {
		return err
	}

	profile := profiles.Profile{
		Remote:          cmd.String("remote"),
		LocalPath:       cmd.String("local"),
		Mode:            cmd.String("mode"),
		BandwidthLimit:  cmd.String("bwlimit"),
		ExcludePatterns: cmd.StringSlice("exclude"),
		ExtraFlags:      cmd.StringSlice("flag"),
		DryRun:          cmd.Bool("dry-run"),
		LogLevel:        cmd.String("log-level"),
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	if err := r.store.Save(name, profile); err != nil {
		return err
	}

	r.logger.Info("profile saved", "name", name)
	r.writePlain("✓ Profile '%s' saved: %s ⇄ %s (%s)\n", name, profile.Remote, profile.LocalPath, profile.Mode)
	return nil
}

// ProfileList prints all saved profiles.
func (r *Runner) ProfileList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	all, err := r.store.Load()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(all, true)
	}

	if len(all) == 0 {
		r.writePlain("No profiles saved. Create one with 'lcsync profile save'.\n")
		return nil
	}

	names, err := r.store.Names()
	if err != nil {
		return err
	}
	last, _ := r.store.Last()

	r.writePlainHeader("Sync Profiles")
	for _, name := range names {
		profile := all[name]
		marker := " "
		if name == last {
			marker = "*"
		}
		r.writePlain("%s %s: %s ⇄ %s (%s)\n", marker, name, profile.Remote, profile.LocalPath, profile.Mode)
	}
	return nil
}

// ProfileShow prints a single profile's settings.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: profile name argument is required", shared.ErrMissingArgument)
	}

	profile, err := r.store.Get(name)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}

	r.writePlainHeader(fmt.Sprintf("Profile: %s", name))
	r.writePlain("Remote: %s\n", profile.Remote)
	r.writePlain("Local: %s\n", profile.LocalPath)
	r.writePlain("Mode: %s\n", profile.Mode)
	if profile.BandwidthLimit != "" {
		r.writePlain("Bandwidth limit: %s\n", profile.BandwidthLimit)
	}
	if len(profile.ExcludePatterns) > 0 {
		r.writePlain("Excludes: %s\n", strings.Join(profile.ExcludePatterns, ", "))
	}
	if len(profile.ExtraFlags) > 0 {
		r.writePlain("Extra flags: %s\n", strings.Join(profile.ExtraFlags, " "))
	}
	if profile.DryRun {
		r.writePlain("Dry run: always\n")
	}
	if profile.LogLevel != "" {
		r.writePlain("Log level: %s\n", profile.LogLevel)
	}
	return nil
}

// ProfileDelete removes a profile.
func (r *Runner) ProfileDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: profile name argument is required", shared.ErrMissingArgument)
	}

	if err := r.store.Delete(name); err != nil {
		return err
	}

	r.logger.Info("profile deleted", "name", name)
	r.writePlain("✓ Profile '%s' deleted\n", name)
	return nil
}

// ProfileUse marks a profile as the default for the next run.
func (r *Runner) ProfileUse(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: profile name argument is required", shared.ErrMissingArgument)
	}

	if err := r.store.SetLast(name); err != nil {
		return err
	}

	r.writePlain("✓ '%s' will be used for the next 'lcsync sync run'\n", name)
	return nil
}
