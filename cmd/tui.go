package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/cryptd777/linuxcloudsync/internal/shared"
	"github.com/cryptd777/linuxcloudsync/internal/ui"
)

// TUI launches the interactive terminal UI for running sync profiles.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logsDir, err := shared.LogsDir()
	if err != nil {
		return err
	}
	fileLogger, err := shared.NewFileLogger(filepath.Join(logsDir, "tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, db, err := r.newEngine()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	model := ui.NewModel(ctx, r.store, engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
