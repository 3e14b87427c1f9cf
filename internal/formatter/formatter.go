// package formatter provides functions to export run history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cryptd777/linuxcloudsync/internal/models"
)

// ExportToCSV converts run history to CSV format with columns: Started, Profile, Remote, Local, Mode, Status, Exit, Bytes, Files, Duration
func ExportToCSV(runs []*models.SyncRun) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Started", "Profile", "Remote", "Local", "Mode", "Status", "Exit", "Bytes", "Files", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, run := range runs {
		record := []string{
			run.StartedAt().Format(time.RFC3339),
			run.Profile(),
			run.Remote(),
			run.LocalPath(),
			run.Mode(),
			string(run.Status()),
			strconv.Itoa(run.ExitCode()),
			strconv.FormatInt(run.BytesTransferred(), 10),
			strconv.FormatInt(run.FilesTransferred(), 10),
			run.Duration().String(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts run history to a Markdown table
func ExportToMarkdown(runs []*models.SyncRun) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Sync History\n\n")
	buf.WriteString(fmt.Sprintf("**Runs**: %d\n\n", len(runs)))

	buf.WriteString("| Started | Profile | Remote | Mode | Status | Transferred | Duration |\n")
	buf.WriteString("|---------|---------|--------|------|--------|-------------|----------|\n")

	for _, run := range runs {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			run.StartedAt().Format("2006-01-02 15:04"),
			run.Profile(),
			run.Remote(),
			run.Mode(),
			run.Status(),
			FormatBytes(run.BytesTransferred()),
			run.Duration().Round(time.Second),
		))
	}

	return buf.Bytes(), nil
}

// ExportToText converts run history to plain text format
func ExportToText(runs []*models.SyncRun) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Sync history (%d runs)\n\n", len(runs)))

	for i, run := range runs {
		marker := "✓"
		if run.Status() != models.RunSuccess {
			marker = "✗"
		}
		buf.WriteString(fmt.Sprintf("%d. %s %s  %s -> %s [%s] %s, %s in %s\n",
			i+1,
			marker,
			run.StartedAt().Format("2006-01-02 15:04"),
			run.Remote(),
			run.LocalPath(),
			run.Mode(),
			run.Status(),
			FormatBytes(run.BytesTransferred()),
			run.Duration().Round(time.Second),
		))
	}

	return buf.Bytes(), nil
}

// SaveExport writes export data to path, creating parent directories as needed
func SaveExport(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// FormatBytes renders a byte count using binary units
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
