package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/cryptd777/linuxcloudsync/internal/formatter"
	"github.com/cryptd777/linuxcloudsync/internal/models"
	"github.com/cryptd777/linuxcloudsync/internal/repositories"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
)

// runRecord is the JSON shape of a history entry.
type runRecord struct {
	ID       string `json:"id"`
	Started  string `json:"started_at"`
	Profile  string `json:"profile,omitempty"`
	Remote   string `json:"remote"`
	Local    string `json:"local_path"`
	Mode     string `json:"mode"`
	Status   string `json:"status"`
	ExitCode int    `json:"exit_code"`
	DryRun   bool   `json:"dry_run,omitempty"`
	Bytes    int64  `json:"bytes_transferred"`
	Files    int64  `json:"files_transferred"`
	Duration string `json:"duration"`
}

func toRecord(run *models.SyncRun) runRecord {
	return runRecord{
		ID:       run.ID(),
		Started:  run.StartedAt().Format(time.RFC3339),
		Profile:  run.Profile(),
		Remote:   run.Remote(),
		Local:    run.LocalPath(),
		Mode:     run.Mode(),
		Status:   string(run.Status()),
		ExitCode: run.ExitCode(),
		DryRun:   run.DryRun(),
		Bytes:    run.BytesTransferred(),
		Files:    run.FilesTransferred(),
		Duration: run.Duration().Round(time.Millisecond).String(),
	}
}

func (r *Runner) listRuns(cmd *cli.Command, limit int) ([]*models.SyncRun, error) {
	db, err := r.openDB()
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	criteria := map[string]any{
		"profile": cmd.String("profile"),
		"status":  cmd.String("status"),
		"limit":   limit,
	}
	return repositories.NewSyncRunRepository(db).List(criteria)
}

// HistoryList prints recorded sync runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	runs, err := r.listRuns(cmd, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		records := make([]runRecord, len(runs))
		for i, run := range runs {
			records[i] = toRecord(run)
		}
		return r.writeJSON(records, true)
	}

	if len(runs) == 0 {
		r.writePlain("No runs recorded yet.\n")
		return nil
	}

	r.writePlainHeader("Sync History")
	for _, run := range runs {
		marker := "✓"
		if run.Status() != models.RunSuccess {
			marker = "✗"
		}
		suffix := ""
		if run.DryRun() {
			suffix = " (dry run)"
		}
		r.writePlain("%s %s  %s ⇄ %s [%s] %s, %s in %s%s\n",
			marker,
			run.StartedAt().Format("2006-01-02 15:04"),
			run.Remote(),
			run.LocalPath(),
			run.Mode(),
			run.Status(),
			formatter.FormatBytes(run.BytesTransferred()),
			run.Duration().Round(time.Second),
			suffix,
		)
	}
	return nil
}

// HistoryExport writes run history to a file in the requested format.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	runs, err := r.listRuns(cmd, 0)
	if err != nil {
		return err
	}

	format := strings.ToLower(cmd.String("format"))
	var data []byte
	var ext string

	switch format {
	case "csv":
		data, err = formatter.ExportToCSV(runs)
		ext = "csv"
	case "markdown", "md":
		data, err = formatter.ExportToMarkdown(runs)
		ext = "md"
	case "text", "txt":
		data, err = formatter.ExportToText(runs)
		ext = "txt"
	default:
		return fmt.Errorf("%w: unknown format %q, expected csv, markdown, or text", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}

	output := cmd.String("output")
	if output == "" {
		output = fmt.Sprintf("sync_history.%s", ext)
	}

	if err := formatter.SaveExport(output, data); err != nil {
		return err
	}

	r.logger.Info("history exported", "path", output, "runs", len(runs))
	r.writePlain("✓ Exported %d runs to %s\n", len(runs), output)
	return nil
}
