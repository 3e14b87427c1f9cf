package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/cryptd777/linuxcloudsync/internal/formatter"
	"github.com/cryptd777/linuxcloudsync/internal/rclone"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
)

// connectTimeout bounds the interactive consent flow, which waits on the user.
const connectTimeout = 5 * time.Minute

// RemoteConnect runs the provider's interactive OAuth flow via rclone config create.
//
// Credentials never pass through this process: rclone opens the consent screen
// and stores the resulting token in its own config file.
func (r *Runner) RemoteConnect(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	provider := strings.ToLower(cmd.StringArg("provider"))
	backend, ok := rclone.Providers[provider]
	if !ok {
		known := make([]string, 0, len(rclone.Providers))
		for name := range rclone.Providers {
			known = append(known, name)
		}
		sort.Strings(known)
		return fmt.Errorf("%w: unknown provider %q, expected one of %v", shared.ErrInvalidArgument, provider, known)
	}

	name := cmd.String("name")
	if name == "" {
		name = provider
	}

	r.logger.Info("starting interactive account connection", "provider", provider, "remote", name)
	r.writePlain("A browser window will open for the %s consent screen.\n", provider)
	r.writePlain("Complete the sign-in there, then return to this terminal.\n\n")

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := r.client.ConfigCreate(connectCtx, name, backend); err != nil {
		return fmt.Errorf("failed to connect %s: %w", provider, err)
	}

	r.writePlainln("✓ Remote '%s:' connected", name)
	r.writePlain("Try it with: lcsync remote size %s:\n", name)
	return nil
}

// RemoteList prints the remotes configured in the managed rclone config.
func (r *Runner) RemoteList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	listCtx, cancel := context.WithTimeout(ctx, r.config.Engine.CommandTimeout())
	defer cancel()

	remotes, err := r.client.ListRemotes(listCtx)
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(remotes, true)
	}

	if len(remotes) == 0 {
		r.writePlain("No remotes configured. Connect one with 'lcsync remote connect gdrive'.\n")
		return nil
	}

	r.writePlainHeader("Configured Remotes")
	for _, remote := range remotes {
		r.writePlain("  %s\n", remote)
	}
	return nil
}

// RemoteSize reports object count and total size of a remote path.
func (r *Runner) RemoteSize(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	remote := cmd.StringArg("remote")
	if remote == "" {
		return fmt.Errorf("%w: remote argument is required", shared.ErrMissingArgument)
	}

	// Sizing a large remote walks its full listing, so allow a sync-length deadline.
	sizeCtx, cancel := context.WithTimeout(ctx, r.config.Engine.SyncTimeout())
	defer cancel()

	report, err := r.client.Size(sizeCtx, remote)
	if err != nil {
		return fmt.Errorf("failed to size %s: %w", remote, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	r.writePlain("%s: %d objects, %s\n", remote, report.Count, formatter.FormatBytes(report.Bytes))
	return nil
}
